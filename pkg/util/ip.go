// pkg/util/ip.go
package util

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealClientIP 获取客户端真实IP地址
// 优先级：X-Forwarded-For > X-Real-IP > CF-Connecting-IP > RemoteAddr
func GetRealClientIP(c *gin.Context) string {
	// 1. 检查 X-Forwarded-For 头部（最常用的代理头部）
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For 可能包含多个IP，格式：client, proxy1, proxy2
		// 取第一个IP（客户端真实IP）
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			clientIP := strings.TrimSpace(ips[0])
			if ip := net.ParseIP(clientIP); ip != nil {
				return clientIP
			}
		}
	}

	// 2. 检查 X-Real-IP 头部（Nginx常用）
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		realIP = strings.TrimSpace(realIP)
		if ip := net.ParseIP(realIP); ip != nil {
			return realIP
		}
	}

	// 3. 检查 CF-Connecting-IP 头部（Cloudflare使用）
	if cfIP := c.GetHeader("CF-Connecting-IP"); cfIP != "" {
		cfIP = strings.TrimSpace(cfIP)
		if ip := net.ParseIP(cfIP); ip != nil {
			return cfIP
		}
	}

	// 4. 最后使用Gin内置的ClientIP方法（会检查RemoteAddr）
	return c.ClientIP()
}

// IsValidIP 验证IP地址是否有效
func IsValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}
