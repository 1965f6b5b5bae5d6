package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sujalbistaa/unlinked/internal/models"
)

const (
	categoriesKey = "unlinked:categories"
	categoriesTTL = 5 * time.Minute
)

// Redis caches board lookups that rarely change.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the server at url (redis://...) and pings it.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	log.Println("Redis connected successfully")
	return NewRedisWithClient(client), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client, ttl: categoriesTTL}
}

// Categories returns the cached category list, if any.
func (r *Redis) Categories(ctx context.Context) ([]models.Category, bool) {
	raw, err := r.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Error reading categories cache: %v", err)
		}
		return nil, false
	}

	var cats []models.Category
	if err := json.Unmarshal(raw, &cats); err != nil {
		log.Printf("Error decoding categories cache: %v", err)
		return nil, false
	}
	return cats, true
}

// StoreCategories caches the category list.
func (r *Redis) StoreCategories(ctx context.Context, cats []models.Category) {
	raw, err := json.Marshal(cats)
	if err != nil {
		log.Printf("Error encoding categories cache: %v", err)
		return
	}
	if err := r.client.Set(ctx, categoriesKey, raw, r.ttl).Err(); err != nil {
		log.Printf("Error writing categories cache: %v", err)
	}
}

// InvalidateCategories drops the cached category list.
func (r *Redis) InvalidateCategories(ctx context.Context) {
	if err := r.client.Del(ctx, categoriesKey).Err(); err != nil {
		log.Printf("Error invalidating categories cache: %v", err)
	}
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
