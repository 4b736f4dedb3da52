package domain

import (
	"errors"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleOwner    = "storage_owner"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")

// User models an actor in the marketplace. CustomerRef is the payment
// gateway customer identity minted at registration and referenced by every
// charge made on the user's behalf.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	FullName     string    `json:"full_name" bson:"full_name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CustomerRef  string    `json:"customer_ref,omitempty" bson:"customer_ref,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
