package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/template"
)

// DefaultRedisPrefix namespaces every key the RedisStore writes.
const DefaultRedisPrefix = "designer:"

// RedisStore keeps templates in Redis.
//
// Keys, relative to the prefix:
//
//	tpl:<id>       template JSON
//	name:<name>    id owning the name
//	hist:<id>      list of snapshot JSON, oldest first
//	index          set of template ids
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore connects to the Redis server at redisURL
// (redis://[:password@]host:port/db) and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis")
	}
	return NewRedisStoreWithClient(client, DefaultRedisPrefix), nil
}

// NewRedisStoreWithClient creates a store from an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) templateKey(id string) string { return s.prefix + "tpl:" + id }
func (s *RedisStore) nameKey(name string) string   { return s.prefix + "name:" + name }
func (s *RedisStore) historyKey(id string) string  { return s.prefix + "hist:" + id }
func (s *RedisStore) indexKey() string             { return s.prefix + "index" }

func (s *RedisStore) Load(ctx context.Context, id string) (template.Template, error) {
	t, ok, err := s.get(ctx, id)
	if err != nil {
		return template.Template{}, err
	}
	if !ok {
		return template.Template{}, notFound(id)
	}
	return t, nil
}

func (s *RedisStore) get(ctx context.Context, id string) (template.Template, bool, error) {
	data, err := s.client.Get(ctx, s.templateKey(id)).Bytes()
	if err == redis.Nil {
		return template.Template{}, false, nil
	}
	if err != nil {
		return template.Template{}, false, errors.Wrap(errors.ErrCodeNetwork, err, "load template %s", id)
	}
	var t template.Template
	if err := json.Unmarshal(data, &t); err != nil {
		return template.Template{}, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode template %s", id)
	}
	return t, true, nil
}

// Save claims the name with SETNX so two writers cannot create the same
// name concurrently. A renamed template releases its old name.
func (s *RedisStore) Save(ctx context.Context, t template.Template) (template.Template, error) {
	if err := validate(t); err != nil {
		return template.Template{}, err
	}

	var prev *template.Template
	if t.ID != "" {
		old, ok, err := s.get(ctx, t.ID)
		if err != nil {
			return template.Template{}, err
		}
		if ok {
			prev = &old
		}
	}
	t = prepare(t, prev, s.now())

	claimed, err := s.client.SetNX(ctx, s.nameKey(t.Name), t.ID, 0).Result()
	if err != nil {
		return template.Template{}, errors.Wrap(errors.ErrCodeNetwork, err, "claim template name")
	}
	if !claimed {
		owner, err := s.client.Get(ctx, s.nameKey(t.Name)).Result()
		if err != nil && err != redis.Nil {
			return template.Template{}, errors.Wrap(errors.ErrCodeNetwork, err, "check template name")
		}
		if owner != t.ID {
			return template.Template{}, conflict(t.Name)
		}
	}

	data, err := json.Marshal(t)
	if err != nil {
		return template.Template{}, fmt.Errorf("marshal template: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.templateKey(t.ID), data, 0)
	pipe.SAdd(ctx, s.indexKey(), t.ID)
	if prev != nil && prev.Name != t.Name {
		pipe.Del(ctx, s.nameKey(prev.Name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		if claimed && prev == nil {
			s.client.Del(context.WithoutCancel(ctx), s.nameKey(t.Name))
		}
		return template.Template{}, errors.Wrap(errors.ErrCodeNetwork, err, "save template %s", t.ID)
	}
	return t, nil
}

func (s *RedisStore) LoadHistory(ctx context.Context, id string) ([]history.Snapshot, error) {
	items, err := s.client.LRange(ctx, s.historyKey(id), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load history of %s", id)
	}
	snaps := make([]history.Snapshot, 0, len(items))
	for _, item := range items {
		var snap history.Snapshot
		if err := json.Unmarshal([]byte(item), &snap); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode history of %s", id)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (s *RedisStore) AppendSnapshot(ctx context.Context, id string, snap history.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.RPush(ctx, s.historyKey(id), data).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "append history of %s", id)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	t, ok, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.templateKey(id), s.historyKey(id))
	pipe.SRem(ctx, s.indexKey(), id)
	if ok {
		pipe.Del(ctx, s.nameKey(t.Name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete template %s", id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list templates")
	}
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		t, ok, err := s.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, summarize(t))
		}
	}
	sortSummaries(out)
	return out, nil
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
