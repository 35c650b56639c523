package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"comanda/internal/models"
)

// CacheService fronts the read-mostly carta. Table and order state is never
// cached: it is the mutable heart of the system and the database is its only
// source of truth.
type CacheService interface {
	GetCarta(ctx context.Context) ([]*models.Product, error)
	SetCarta(ctx context.Context, products []*models.Product, ttl time.Duration) error
	GetCartaByCategory(ctx context.Context, category string) ([]*models.Product, error)
	SetCartaByCategory(ctx context.Context, category string, products []*models.Product, ttl time.Duration) error
	InvalidateCarta(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

const cartaKey = "comanda:carta"

func cartaCategoryKey(category string) string {
	return fmt.Sprintf("comanda:carta:cat:%s", category)
}

func (r *redisCacheService) GetCarta(ctx context.Context) ([]*models.Product, error) {
	return r.getProducts(ctx, cartaKey)
}

func (r *redisCacheService) SetCarta(ctx context.Context, products []*models.Product, ttl time.Duration) error {
	return r.setProducts(ctx, cartaKey, products, ttl)
}

func (r *redisCacheService) GetCartaByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	return r.getProducts(ctx, cartaCategoryKey(category))
}

func (r *redisCacheService) SetCartaByCategory(ctx context.Context, category string, products []*models.Product, ttl time.Duration) error {
	return r.setProducts(ctx, cartaCategoryKey(category), products, ttl)
}

func (r *redisCacheService) InvalidateCarta(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, cartaKey+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) getProducts(ctx context.Context, key string) ([]*models.Product, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var products []*models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *redisCacheService) setProducts(ctx context.Context, key string, products []*models.Product, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}
