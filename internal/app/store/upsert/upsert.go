// internal/app/store/upsert/upsert.go
package upsert

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrConflict is returned when a write loses the race in both
// directions: the insert hit a duplicate, but the matching record was
// gone again by the time we tried to update it, twice.
var ErrConflict = errors.New("concurrent modification, please retry")

// Do performs an idempotent write keyed by the unique index behind
// key. It inserts doc first; if the unique index reports a duplicate
// it updates the existing record instead. If the update matches
// nothing (the record vanished between insert and update) the whole
// sequence is retried once before giving up with ErrConflict.
//
// Returns created=true when the insert won, created=false when an
// existing record was updated.
func Do(ctx context.Context, c *mongo.Collection, key bson.M, doc any, update bson.M) (created bool, err error) {
	for attempt := 0; attempt < 2; attempt++ {
		_, err := c.InsertOne(ctx, doc)
		if err == nil {
			return true, nil
		}
		if !wafflemongo.IsDup(err) {
			return false, err
		}

		res, err := c.UpdateOne(ctx, key, bson.M{"$set": update})
		if err != nil {
			return false, err
		}
		if res.MatchedCount > 0 {
			return false, nil
		}
		// The duplicate disappeared under us; go around once more.
	}
	return false, ErrConflict
}
