package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// 超过该时长未出现的 IP 会被清理
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimit 登录/注册接口限流中间件
// 每个 IP 在 window 内最多 maxAttempts 次尝试，令牌按 window/maxAttempts 匀速补充，超出返回 429
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	every := rate.Every(window / time.Duration(maxAttempts))

	var (
		mu    sync.Mutex
		store = make(map[string]*limiterEntry)
	)
	// 定期清理长时间不活跃的 IP
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-limiterIdleTTL)
			for ip, e := range store {
				if e.lastSeen.Before(cutoff) {
					delete(store, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		e, ok := store[ip]
		if !ok {
			e = &limiterEntry{limiter: rate.NewLimiter(every, maxAttempts)}
			store[ip] = e
		}
		e.lastSeen = time.Now()
		allowed := e.limiter.Allow()
		mu.Unlock()

		if !allowed {
			log.Warn().Str("ip", ip).Str("path", c.FullPath()).Msg("请求过于频繁")
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "尝试过于频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}
