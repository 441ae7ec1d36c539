package infra

import "github.com/redis/go-redis/v9"

// NewRedisClient returns a redis client for the configured address, or nil
// when no address is set. The cache is optional; callers must tolerate nil.
func NewRedisClient(cfg *Config) *redis.Client {
	if cfg == nil || cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}
