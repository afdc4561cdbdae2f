package repository

import "time"

// CacheRepository defines the cache operations used by the leaderboard
// read path. Implemented over Redis.
type CacheRepository interface {
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	Delete(key string) error
	// DeleteByPrefix removes every key with the given prefix. Used to
	// invalidate cached leaderboard pages after a write.
	DeleteByPrefix(prefix string) error
}
