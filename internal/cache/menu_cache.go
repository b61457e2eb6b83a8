package cache

import (
	"context"
	"encoding/json"
	"time"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const MenuCacheTTL = 10 * time.Minute

const menuCacheKey = "menu:all"

// RedisClient est le sous-ensemble de *redis.Client utilisé par le cache menu.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Client fournit le client Redis courant. En production c'est le handle global
// (nil quand Redis est indisponible) ; remplaçable en test.
var Client = func() RedisClient {
	if database.Redis == nil {
		return nil
	}
	return database.Redis
}

// GetMenuFromCache récupère la liste complète du menu depuis Redis.
// Retourne false si le cache est vide ou indisponible.
func GetMenuFromCache(ctx context.Context) ([]models.MenuItem, bool) {
	rdb := Client()
	if rdb == nil {
		return nil, false
	}

	data, err := rdb.Get(ctx, menuCacheKey).Result()
	if err != nil {
		return nil, false
	}

	var items []models.MenuItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, false
	}
	return items, true
}

// SetMenuCache met la liste du menu en cache
func SetMenuCache(ctx context.Context, items []models.MenuItem) {
	rdb := Client()
	if rdb == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	rdb.Set(ctx, menuCacheKey, data, MenuCacheTTL)
}

// InvalidateMenuCache invalide le cache après une mutation admin du menu
func InvalidateMenuCache(ctx context.Context) {
	rdb := Client()
	if rdb == nil {
		return
	}
	rdb.Del(ctx, menuCacheKey)
}
