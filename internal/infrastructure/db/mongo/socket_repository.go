package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stashspace/booking-system/internal/infrastructure/notify"
)

const collectionSockets = "sockets"

// socketBinding is the stored form of a user/connection pair. The
// collection is the durable source of truth for presence; the in-memory
// registry is only a cache rebuilt from it on restart.
type socketBinding struct {
	SocketID string `bson:"socket_id"`
	UserID   string `bson:"user_id"`
}

type SocketRepository struct {
	col *mongo.Collection
}

func NewSocketRepository(db *mongo.Database) *SocketRepository {
	return &SocketRepository{col: db.Collection(collectionSockets)}
}

// Upsert records a user/socket binding, replacing any previous document for
// the same pair.
func (r *SocketRepository) Upsert(ctx context.Context, userID, socketID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID, "socket_id": socketID},
		bson.M{"$set": bson.M{"socket_id": socketID}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *SocketRepository) Remove(ctx context.Context, socketID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"socket_id": socketID})
	return err
}

// All returns every stored binding, used to rebuild the presence cache.
func (r *SocketRepository) All(ctx context.Context) ([]notify.Binding, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stored []socketBinding
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, err
	}

	bindings := make([]notify.Binding, 0, len(stored))
	for _, b := range stored {
		bindings = append(bindings, notify.Binding{UserID: b.UserID, SocketID: b.SocketID})
	}
	return bindings, nil
}
