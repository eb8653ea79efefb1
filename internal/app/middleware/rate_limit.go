/*
 * @Description: 频率限制中间件
 * @Author: 安知鱼
 * @Date: 2025-11-21 00:00:00
 * @LastEditTime: 2026-03-16 18:40:28
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/anzhiyu-c/anheyu-engage/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipRateLimiter 用于存储每个IP地址的限流器
type ipRateLimiter struct {
	limiters map[string]*limiterInfo
	mu       sync.RWMutex
	// 每个IP每分钟允许的请求数
	requestsPerMinute int
	// 突发请求数（允许短时间内的突发流量）
	burst int
	// 清理过期限流器的时间间隔
	cleanupInterval time.Duration
}

// limiterInfo 存储限流器及其最后访问时间
type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// newIPRateLimiter 创建一个新的IP限流器
func newIPRateLimiter(requestsPerMinute, burst int) *ipRateLimiter {
	limiter := &ipRateLimiter{
		limiters:          make(map[string]*limiterInfo),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		cleanupInterval:   5 * time.Minute,
	}

	go limiter.cleanupStaleEntries()

	return limiter
}

// getLimiter 获取指定IP的限流器
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	info, exists := i.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(i.requestsPerMinute)), i.burst)
		info = &limiterInfo{
			limiter:      limiter,
			lastAccessed: time.Now(),
		}
		i.limiters[ip] = info
	} else {
		info.lastAccessed = time.Now()
	}

	return info.limiter
}

// cleanupStaleEntries 定期清理超过一定时间未使用的限流器
func (i *ipRateLimiter) cleanupStaleEntries() {
	ticker := time.NewTicker(i.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		i.mu.Lock()
		for ip, info := range i.limiters {
			if time.Since(info.lastAccessed) > 10*time.Minute {
				delete(i.limiters, ip)
			}
		}
		i.mu.Unlock()
	}
}

// 全局的互动提交限流器实例
var engageSubmitLimiter *ipRateLimiter

func init() {
	// 每个IP每分钟最多6次互动提交（评分+评论+访问上报合计），突发允许12次
	engageSubmitLimiter = newIPRateLimiter(6, 12)
}

// EngageSubmitRateLimit 互动提交频率限制中间件
// 限制每个IP地址的评分/评论/访问上报频率
func EngageSubmitRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)

		limiter := engageSubmitLimiter.getLimiter(ip)
		if !limiter.Allow() {
			response.Fail(c, http.StatusTooManyRequests, "提交过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}

// getClientIP 获取客户端真实IP地址
func getClientIP(c *gin.Context) string {
	clientIP := c.GetHeader("X-Real-IP")
	if clientIP != "" {
		return clientIP
	}

	// X-Forwarded-For 可能包含多个IP，格式为：client, proxy1, proxy2，取第一个
	clientIP = c.GetHeader("X-Forwarded-For")
	if clientIP != "" {
		if ip, _, err := net.SplitHostPort(clientIP); err == nil {
			return ip
		}
		return clientIP
	}

	if ip, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return ip
	}

	return c.Request.RemoteAddr
}

// CustomRateLimit 创建一个自定义的频率限制中间件
// requestsPerMinute: 每分钟允许的请求数
// burst: 突发请求数
func CustomRateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	limiter := newIPRateLimiter(requestsPerMinute, burst)

	return func(c *gin.Context) {
		ip := getClientIP(c)
		ipLimiter := limiter.getLimiter(ip)

		if !ipLimiter.Allow() {
			response.Fail(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
