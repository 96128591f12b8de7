// Package middlewares Gin 中间件
package middlewares

import (
	"net/http"
	"sync"
	"time"

	"paygate/pkg/app"
	"paygate/pkg/limiter"
	"paygate/pkg/logger"
	"paygate/pkg/redis"
	"paygate/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

// DefaultBurst 单路由限流的默认突发请求数量
const DefaultBurst = 100

// 单路由限流器的并发安全缓存
var (
	routeLimiters sync.Map
	lastSeen      sync.Map
	cleanupOnce   sync.Once
)

// LimitIP 全局限流中间件，针对 IP 进行限流，计数存储在 redis 里
//
// 支持的限流格式:
// - 5 reqs/second:   "5-S"
// - 10 reqs/minute:  "10-M"
// - 1000 reqs/hour:  "1000-H"
// - 2000 reqs/day:   "2000-D"
func LimitIP(limit string) gin.HandlerFunc {
	// 测试环境使用较大限制
	if app.IsTesting() {
		limit = "1000000-H"
	}

	return func(c *gin.Context) {
		key := limiter.GetKeyIP(c)
		if ok := limitHandler(c, key, limit); !ok {
			return
		}
		c.Next()
	}
}

// limitHandler 检查请求是否超额，超额时返回 429
// redis 不可用或限流器出错时降级放行
func limitHandler(c *gin.Context, key string, limit string) bool {
	if redis.Redis == nil {
		return true
	}

	rateResult, err := limiter.CheckRate(c, key, limit)
	if err != nil {
		logger.LogIf(err)
		return true
	}

	// 设置 RateLimit 相关响应头
	c.Header("X-RateLimit-Limit", cast.ToString(rateResult.Limit))
	c.Header("X-RateLimit-Remaining", cast.ToString(rateResult.Remaining))
	c.Header("X-RateLimit-Reset", cast.ToString(rateResult.Reset))

	if rateResult.Reached {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{
			Status:  response.Error,
			Message: "请求太频繁，请稍后再试",
		})
		return false
	}
	return true
}

// LimitPerRoute 针对单个路由的限流中间件
// 基于 IP + 路由路径，计数保存在进程内存，适合对单个接口做更严格的限制
func LimitPerRoute(limit string) gin.HandlerFunc {
	if app.IsTesting() {
		limit = "1000000-H"
	}

	// 定期清理长时间未使用的限流器
	cleanupOnce.Do(func() {
		go cleanupRouteLimiters()
	})

	return func(c *gin.Context) {
		key := limiter.GetKeyRouteWithIP(c)

		lim, err := getRouteLimiter(key, limit)
		if err != nil {
			logger.ErrorString("限流器", "创建失败", err.Error())
			// 降级处理：允许请求通过
			c.Next()
			return
		}

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{
				Status:  response.Error,
				Message: "请求太频繁，请稍后再试",
			})
			return
		}

		lastSeen.Store(key, time.Now())
		c.Next()
	}
}

// getRouteLimiter 获取或创建单路由限流器
func getRouteLimiter(key string, limit string) (*rate.Limiter, error) {
	if lim, exists := routeLimiters.Load(key); exists {
		return lim.(*rate.Limiter), nil
	}

	r, err := limiter.ParseLimit(limit)
	if err != nil {
		return nil, err
	}

	lim := rate.NewLimiter(rate.Limit(r.Rate), DefaultBurst)
	actual, _ := routeLimiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter), nil
}

// cleanupRouteLimiters 定期清理超过 24 小时未使用的限流器
func cleanupRouteLimiters() {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		now := time.Now()
		routeLimiters.Range(func(key, _ interface{}) bool {
			seen, ok := lastSeen.Load(key)
			if !ok {
				lastSeen.Store(key, now)
				return true
			}
			if now.Sub(seen.(time.Time)) > 24*time.Hour {
				routeLimiters.Delete(key)
				lastSeen.Delete(key)
			}
			return true
		})
	}
}
