package cache_test

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/jcmexdev/katana-shop/internal/pkg/cache"
)

func TestRedisCache_Key(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := cache.NewRedisCache(client, "katana-shop")

	assert.Equal(t, "katana-shop:catalog:list:50", c.Key("catalog", "list", "50"))
	assert.Equal(t, "katana-shop:idempotency:abc", c.Key("idempotency", "abc"))
}
