// pkg/domain/model/identity.go
package model

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Identity 是访客自报的身份。
//
// 信任边界：这不是身份认证。Email 由客户端自行声明，未经任何校验，
// 评分一次性规则和评论配额都只是协作式的尽力而为约束，
// 不能当作安全保证使用。
type Identity struct {
	Nickname string
	Email    string
}

// Token 返回用于配额/去重键的归一化身份令牌（小写去空格的邮箱）。
func (i Identity) Token() string {
	return strings.ToLower(strings.TrimSpace(i.Email))
}

// EmailMD5 返回邮箱摘要，用于 Gravatar 头像地址，非安全用途。
func (i Identity) EmailMD5() string {
	sum := md5.Sum([]byte(i.Token()))
	return hex.EncodeToString(sum[:])
}

// IsZero 判断身份是否为空。
func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.Nickname) == "" && strings.TrimSpace(i.Email) == ""
}
