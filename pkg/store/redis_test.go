package store

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/logsmart/designer/pkg/errors"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, s
}

func TestRedisStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		store, _ := setupTestRedis(t)
		return store
	})
}

func TestNewRedisStore(t *testing.T) {
	store, _ := setupTestRedis(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestNewRedisStoreBadURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestRedisStoreKeys(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	store := NewRedisStoreWithClient(client, "test:")
	defer store.Close()

	saved, err := store.Save(ctx, sampleTemplate("Fridge"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.Exists("test:tpl:" + saved.ID) {
		t.Error("template key missing")
	}
	owner, err := s.Get("test:name:Fridge")
	if err != nil || owner != saved.ID {
		t.Errorf("name key = %q, %v; want %q", owner, err, saved.ID)
	}
	members, err := s.SMembers("test:index")
	if err != nil || len(members) != 1 || members[0] != saved.ID {
		t.Errorf("index = %v, %v", members, err)
	}

	saved.Name = "Freezer"
	if _, err := store.Save(ctx, saved); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if s.Exists("test:name:Fridge") {
		t.Error("old name key not released")
	}
}

// failPipelines makes every pipeline and transaction fail while single
// commands go through.
type failPipelines struct{ err error }

func (h failPipelines) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h failPipelines) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (h failPipelines) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(context.Context, []redis.Cmder) error { return h.err }
}

var _ redis.Hook = failPipelines{}

func TestRedisStoreFailedSaveReleasesName(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	store := NewRedisStoreWithClient(client, "test:")
	defer store.Close()

	client.AddHook(failPipelines{err: net.ErrClosed})
	if _, err := store.Save(ctx, sampleTemplate("Fridge")); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("Save() error = %v, want %s", err, errors.ErrCodeNetwork)
	}
	if s.Exists("test:name:Fridge") {
		t.Error("name key left behind by failed save")
	}

	retry := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: s.Addr()}), "test:")
	defer retry.Close()
	saved, err := retry.Save(ctx, sampleTemplate("Fridge"))
	if err != nil {
		t.Fatalf("retry Save() error = %v", err)
	}
	if owner, _ := s.Get("test:name:Fridge"); owner != saved.ID {
		t.Errorf("name key = %q, want %q", owner, saved.ID)
	}
}
