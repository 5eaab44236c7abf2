package store

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// TestMongoStore runs against a live server named by MONGO_URI.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	testStore(t, func(t *testing.T) Store {
		ctx := context.Background()
		db := "designer_test_" + uuid.NewString()[:8]
		s, err := NewMongoStore(ctx, uri, db)
		if err != nil {
			t.Fatalf("NewMongoStore: %v", err)
		}
		t.Cleanup(func() {
			s.client.Database(db).Drop(context.Background())
			s.Close()
		})
		return s
	})
}

func TestNormalizeValue(t *testing.T) {
	in := primitive.D{
		{Key: "options", Value: primitive.A{"a", "b"}},
		{Key: "nested", Value: primitive.M{"n": int32(3)}},
		{Key: "big", Value: int64(7)},
	}
	want := map[string]any{
		"options": []any{"a", "b"},
		"nested":  map[string]any{"n": float64(3)},
		"big":     float64(7),
	}
	if diff := cmp.Diff(want, normalizeValue(in)); diff != "" {
		t.Errorf("normalizeValue mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeLayoutRoundTrip(t *testing.T) {
	tpl := sampleTemplate("Fridge")
	data, err := bson.Marshal(tpl)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got struct {
		Layout []struct {
			Props map[string]any `bson:"props"`
		} `bson:"layout"`
	}
	if err := bson.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	opts := normalizeValue(got.Layout[1].Props["options"])
	if !cmp.Equal(opts, []any{"OK", "Fault"}) {
		t.Errorf("options = %#v", opts)
	}
}
