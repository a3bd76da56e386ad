package middleware

import (
	"backend/pkg/response"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// incrWithWindow bumps the counter and attaches the window TTL in one atomic
// step, so a crash between the increment and the expire can never leave an
// immortal key throttling a client forever.
var incrWithWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count`)

// RateLimiter enforces a fixed-window request quota backed by Redis.
type RateLimiter struct {
	client redis.Scripter
	limit  int
	window time.Duration
}

// NewRateLimiter builds a limiter allowing `limit` requests per window.
func NewRateLimiter(client redis.Scripter, limit, windowSeconds int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: time.Duration(windowSeconds) * time.Second,
	}
}

// Limit returns a middleware counting requests under the given route name,
// keyed by the authenticated principal (or client IP when anonymous). When
// Redis is unreachable the request is allowed through: availability over
// strictness for a personal contacts API.
func (rl *RateLimiter) Limit(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := c.ClientIP()
		if user, ok := CurrentUser(c); ok {
			ident = fmt.Sprintf("user:%d", user.ID)
		}
		key := fmt.Sprintf("ratelimit:%s:%s", name, ident)

		ctx := c.Request.Context()
		count, err := incrWithWindow.Run(ctx, rl.client, []string{key}, int(rl.window.Seconds())).Int64()
		if err != nil {
			log.Printf("Rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}

		if count > int64(rl.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests, "Too many requests, slow down"))
			return
		}

		c.Next()
	}
}
