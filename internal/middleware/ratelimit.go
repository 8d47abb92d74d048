package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/bellaciao-guestbook/pkg/clientip"
)

// SubmitRateLimitKeyPrefix is the Redis key prefix for submission counters
const SubmitRateLimitKeyPrefix = "ratelimit:submit:"

// SubmitRateLimit caps how many entries one IP can submit per window using a
// Redis fixed-window counter shared by every instance. It fails open when
// Redis is not configured or unavailable.
func SubmitRateLimit(client *redis.Client, maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || maxRequests <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()

			key := SubmitRateLimitKeyPrefix + clientip.RealClientIP(r)
			count, err := incrementWindow(ctx, client, key, window)
			if err != nil {
				log.Ctx(r.Context()).Warn().Err(err).Msg("Submit rate limit unavailable")
				next.ServeHTTP(w, r)
				return
			}

			remaining := maxRequests - int(count)
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > maxRequests {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				tooManyRequests(w, "Too many submissions. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// incrementWindow bumps the counter and reads its TTL in one MULTI/EXEC. A
// counter without a TTL (first hit, or an earlier EXPIRE that never landed)
// gets the window set again so it cannot block an IP forever.
func incrementWindow(ctx context.Context, client *redis.Client, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}

	// TTL reports -1 for a key without expiry
	if ttl.Val() < 0 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return incr.Val(), nil
}
