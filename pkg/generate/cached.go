package generate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/logsmart/designer/pkg/cache"
	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/observability"
)

// DefaultCacheTTL is how long a generated layout is reused.
const DefaultCacheTTL = 24 * time.Hour

const cacheKeyType = "generation"

// Cached serves repeated prompts from a cache. Empty layouts are not
// stored. Cache failures are logged and fall through to the client.
type Cached struct {
	client *Client
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCached wraps client with c. A nil keyer uses cache.NewDefaultKeyer; a
// ttl of zero uses DefaultCacheTTL.
func NewCached(client *Client, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{client: client, cache: c, keyer: keyer, ttl: ttl, logger: client.logger}
}

func (g *Cached) key(prompt string) string {
	return g.keyer.GenerationKey(g.client.model, prompt, cache.GenerationKeyOpts{
		Temperature:   Temperature,
		CanvasWidth:   g.client.width,
		CanvasHeight:  g.client.height,
		CatalogDigest: cache.Hash([]byte(g.client.describe())),
	})
}

// Generate returns a cached layout for prompt, or asks the client and
// caches its answer.
func (g *Cached) Generate(ctx context.Context, prompt string) ([]canvas.Item, error) {
	key := g.key(prompt)
	hooks := observability.Cache()

	data, hit, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.Warn("generation cache read failed", "err", err)
	}
	if hit {
		var items []canvas.Item
		if err := json.Unmarshal(data, &items); err == nil {
			hooks.OnCacheHit(ctx, cacheKeyType)
			reissueIDs(items)
			for i := range items {
				if items[i].Props == nil {
					items[i].Props = map[string]any{}
				}
			}
			g.logger.Debug("generation cache hit", "items", len(items))
			return items, nil
		}
		g.cache.Delete(ctx, key)
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	items, err := g.client.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}
	if data, err := json.Marshal(items); err == nil {
		if err := g.cache.Set(ctx, key, data, g.ttl); err != nil {
			g.logger.Warn("generation cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return items, nil
}
