// internal/app/store/upsert/upsert_test.go
package upsert_test

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careware/hausportal/internal/app/store/upsert"
	"github.com/careware/hausportal/internal/testutil"
)

func setupCollection(t *testing.T) *mongo.Collection {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := db.Collection("upsert_records")
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_upsert_user_date"),
	})
	if err != nil {
		t.Fatalf("create index: %v", err)
	}
	return c
}

type record struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id"`
	Date   string             `bson:"date"`
	Status string             `bson:"status"`
}

func TestDo_InsertsWhenAbsent(t *testing.T) {
	c := setupCollection(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	doc := record{ID: primitive.NewObjectID(), UserID: userID, Date: "2026-08-27", Status: "present"}
	key := bson.M{"user_id": userID, "date": "2026-08-27"}

	created, err := upsert.Do(ctx, c, key, doc, bson.M{"status": "present"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !created {
		t.Error("expected created=true for first write")
	}

	n, err := c.CountDocuments(ctx, key)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 document, got %d", n)
	}
}

func TestDo_UpdatesExisting(t *testing.T) {
	c := setupCollection(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	key := bson.M{"user_id": userID, "date": "2026-08-27"}

	first := record{ID: primitive.NewObjectID(), UserID: userID, Date: "2026-08-27", Status: "present"}
	if _, err := upsert.Do(ctx, c, key, first, bson.M{"status": "present"}); err != nil {
		t.Fatalf("first Do: %v", err)
	}

	second := record{ID: primitive.NewObjectID(), UserID: userID, Date: "2026-08-27", Status: "sick"}
	created, err := upsert.Do(ctx, c, key, second, bson.M{"status": "sick", "updated_at": time.Now().UTC()})
	if err != nil {
		t.Fatalf("second Do: %v", err)
	}
	if created {
		t.Error("expected created=false for repeat write")
	}

	// Still exactly one record, now carrying the new status.
	n, err := c.CountDocuments(ctx, key)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 document after repeat write, got %d", n)
	}

	var got record
	if err := c.FindOne(ctx, key).Decode(&got); err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != "sick" {
		t.Errorf("status = %q, want sick", got.Status)
	}
	if got.ID != first.ID {
		t.Error("expected the original record to be updated in place")
	}
}

func TestDo_DistinctKeysStaySeparate(t *testing.T) {
	c := setupCollection(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	for _, date := range []string{"2026-08-26", "2026-08-27"} {
		doc := record{ID: primitive.NewObjectID(), UserID: userID, Date: date, Status: "present"}
		key := bson.M{"user_id": userID, "date": date}
		if _, err := upsert.Do(ctx, c, key, doc, bson.M{"status": "present"}); err != nil {
			t.Fatalf("Do(%s): %v", date, err)
		}
	}

	n, err := c.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 documents for distinct dates, got %d", n)
	}
}

func TestDo_ConcurrentWritersLeaveOneRecord(t *testing.T) {
	c := setupCollection(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	key := bson.M{"user_id": userID, "date": "2026-08-27"}

	// All writers race on the same key; the unique index is the only
	// arbiter. Exactly one record may remain, whoever wins.
	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		status := "status-" + strconv.Itoa(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := record{ID: primitive.NewObjectID(), UserID: userID, Date: "2026-08-27", Status: status}
			if _, err := upsert.Do(ctx, c, key, doc, bson.M{"status": status}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Do: %v", err)
	}

	n, err := c.CountDocuments(ctx, key)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 record after %d concurrent writers, got %d", writers, n)
	}
}
