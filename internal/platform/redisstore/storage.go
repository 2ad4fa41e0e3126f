// Package redisstore adapts a go-redis client to fiber.Storage so rate
// limiter state survives restarts and is shared across instances.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage implements fiber.Storage on top of Redis
type Storage struct {
	client *redis.Client
}

// New creates a Storage backed by the given Redis client
func New(client *redis.Client) *Storage {
	return &Storage{client: client}
}

// NewClient creates a Redis client with bounded connection timeouts
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})
}

// Get retrieves the value for key, nil if it does not exist
func (s *Storage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

// Set stores the value for key with an optional expiration
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), key, val, exp).Err()
}

// Delete removes the value for key
func (s *Storage) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Reset removes all keys in the configured database
func (s *Storage) Reset() error {
	return s.client.FlushDB(context.Background()).Err()
}

// Close closes the underlying client
func (s *Storage) Close() error {
	return s.client.Close()
}
