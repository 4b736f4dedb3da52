package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stashspace/booking-system/internal/core/ports"
)

// ConversationHandler handles the standalone conversation and messaging
// endpoints. Booking-created threads share the same storage and show up
// here like any other conversation.
type ConversationHandler struct {
	service ports.ConversationService
}

func NewConversationHandler(service ports.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

type startConversationRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
}

type conversationResponse struct {
	ID        string   `json:"id"`
	Members   []string `json:"members"`
	CreatedAt string   `json:"created_at"`
}

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type sendMessageRequest struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	Body           string `json:"message" validate:"required"`
}

type messageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Sender         string `json:"sender"`
	Body           string `json:"message"`
	CreatedAt      string `json:"created_at"`
}

// Start handles POST /v1/conversations.
//
// @Summary      Start (or reuse) a two-party conversation
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      startConversationRequest  true  "Conversation peer"
// @Success      201   {object}  conversationResponse
// @Failure      422   {object}  map[string]string
// @Router       /v1/conversations [post]
func (h *ConversationHandler) Start(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	senderID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	conv, err := h.service.StartConversation(c.Request().Context(), senderID, req.ReceiverID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toConversationResponse(*conv))
}

// ListByUser handles GET /v1/users/:userId/conversations.
//
// @Summary      List a user's conversations
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {array}   conversationResponse
// @Router       /v1/users/{userId}/conversations [get]
func (h *ConversationHandler) ListByUser(c echo.Context) error {
	convs, err := h.service.UserConversations(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	out := make([]conversationResponse, 0, len(convs))
	for _, conv := range convs {
		out = append(out, toConversationResponse(conv))
	}
	return c.JSON(http.StatusOK, out)
}

// AddMember handles PATCH /v1/conversations/:id/members.
//
// @Summary      Add a member to a conversation
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Conversation id"
// @Param        body  body      addMemberRequest  true  "Member to add"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/conversations/{id}/members [patch]
func (h *ConversationHandler) AddMember(c echo.Context) error {
	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.AddMember(c.Request().Context(), c.Param("id"), req.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User added to conversation successfully"})
}

// SendMessage handles POST /v1/messages.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  messageResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/messages [post]
func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	senderID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	msg, err := h.service.SendMessage(c.Request().Context(), req.ConversationID, senderID, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMessageResponse(*msg))
}

// ListMessages handles GET /v1/conversations/:id/messages.
//
// @Summary      List a conversation's messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Conversation id"
// @Success      200  {array}   messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/conversations/{id}/messages [get]
func (h *ConversationHandler) ListMessages(c echo.Context) error {
	msgs, err := h.service.ConversationMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, out)
}

func toConversationResponse(conv ports.ConversationView) conversationResponse {
	return conversationResponse{
		ID:        conv.ID,
		Members:   conv.Members,
		CreatedAt: conv.CreatedAt.Format(time.RFC3339),
	}
}

func toMessageResponse(m ports.MessageView) messageResponse {
	return messageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         m.Sender,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
