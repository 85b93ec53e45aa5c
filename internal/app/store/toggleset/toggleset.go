// internal/app/store/toggleset/toggleset.go
package toggleset

import (
	"context"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// A toggle-set is a membership collection with a unique index over its
// key fields: favorites, training interests. Both directions are
// idempotent — adding an existing member and removing a missing one
// succeed without complaint.

// Add inserts doc unless the unique index says it is already there.
func Add(ctx context.Context, c *mongo.Collection, doc any) error {
	_, err := c.InsertOne(ctx, doc)
	if wafflemongo.IsDup(err) {
		return nil
	}
	return err
}

// Remove deletes the member matching key. Zero deletions is fine.
func Remove(ctx context.Context, c *mongo.Collection, key bson.M) error {
	_, err := c.DeleteOne(ctx, key)
	return err
}

// Contains reports whether a member matching key exists.
func Contains(ctx context.Context, c *mongo.Collection, key bson.M) (bool, error) {
	n, err := c.CountDocuments(ctx, key)
	return n > 0, err
}

// IDSet collects the values of field for all members matching filter,
// for marking list views ("already favorited", "already interested").
func IDSet(ctx context.Context, c *mongo.Collection, filter bson.M, field string) (map[primitive.ObjectID]struct{}, error) {
	cur, err := c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	set := make(map[primitive.ObjectID]struct{})
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		if id, ok := doc[field].(primitive.ObjectID); ok {
			set[id] = struct{}{}
		}
	}
	return set, cur.Err()
}
