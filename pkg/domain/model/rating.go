/*
 * @Description: 评分聚合领域模型
 * @Author: 安知鱼
 * @Date: 2025-11-09 10:02:18
 * @LastEditTime: 2026-03-14 16:55:02
 * @LastEditors: 安知鱼
 */
package model

// 评分取值范围。
const (
	RatingMin = 1
	RatingMax = 5
)

// RatingAggregate 是服务端维护的评分聚合（sum/count 对）。
// count 只增不减；同一身份令牌至多向 sum/count 贡献一次。
type RatingAggregate struct {
	PostID string `json:"post_id"`
	Sum    int64  `json:"sum"`
	Count  int64  `json:"count"`
}

// Average 返回派生的平均分，count 为 0 时返回 0。
func (a *RatingAggregate) Average() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count)
}

// RatingSnapshot 是交给展示层的聚合快照。
type RatingSnapshot struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Snapshot 将聚合转换为展示快照。
func (a *RatingAggregate) Snapshot() RatingSnapshot {
	return RatingSnapshot{Average: a.Average(), Count: a.Count}
}

// RatingContribution 是一条已落库的评分贡献记录。
// (PostID, IdentityToken) 上有唯一约束，为"至多一次"提供服务端兜底。
type RatingContribution struct {
	PostID        string
	IdentityToken string
	Value         int
}

// IsValidRatingValue 校验评分值是否在允许区间内。
func IsValidRatingValue(v int) bool {
	return v >= RatingMin && v <= RatingMax
}
