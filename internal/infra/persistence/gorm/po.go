/*
 * @Description: 持久化对象定义与领域模型转换
 * @Author: 安知鱼
 * @Date: 2025-11-11 14:22:08
 * @LastEditTime: 2026-03-14 16:55:02
 * @LastEditors: 安知鱼
 */
package gorm

import (
	"fmt"
	"time"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"

	"gorm.io/gorm"
)

// ratingAggregatePO 是评分聚合表。每个内容至多一行，sum/count 只增不减。
type ratingAggregatePO struct {
	ID        uint   `gorm:"primarykey"`
	PostID    string `gorm:"uniqueIndex;size:255;not null"`
	Sum       int64  `gorm:"not null;default:0"`
	Count     int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (ratingAggregatePO) TableName() string { return "rating_aggregates" }

// ratingContributionPO 是评分贡献表。
// (post_id, identity_token) 上的唯一索引为"至多一次"提供服务端兜底。
type ratingContributionPO struct {
	ID            uint   `gorm:"primarykey"`
	PostID        string `gorm:"uniqueIndex:uk_post_identity;size:255;not null"`
	IdentityToken string `gorm:"uniqueIndex:uk_post_identity;size:255;not null"`
	Value         int    `gorm:"not null"`
	CreatedAt     time.Time
}

func (ratingContributionPO) TableName() string { return "rating_contributions" }

// commentPO 是评论表。
type commentPO struct {
	ID         uint   `gorm:"primarykey"`
	PostID     string `gorm:"index;size:255;not null"`
	Nickname   string `gorm:"size:50;not null"`
	Email      string `gorm:"index;size:255;not null"`
	EmailMD5   string `gorm:"size:32;not null"`
	Content    string `gorm:"type:text;not null"`
	QuotaCount int    `gorm:"not null;default:1"`
	Status     int    `gorm:"index;not null;default:2"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (commentPO) TableName() string { return "comments" }

// visitorLogPO 是访问日志表，按天聚合后定期清理。
type visitorLogPO struct {
	ID        uint   `gorm:"primarykey"`
	ContentID string `gorm:"index;size:255;not null"`
	VisitorID string `gorm:"index;size:64;not null"`
	IPAddress string `gorm:"size:45"`
	UserAgent string `gorm:"size:512"`
	Referer   string `gorm:"size:512"`
	CreatedAt time.Time `gorm:"index"`
}

func (visitorLogPO) TableName() string { return "visitor_logs" }

// visitorStatPO 是按天聚合的统计表。
type visitorStatPO struct {
	ID             uint      `gorm:"primarykey"`
	Date           time.Time `gorm:"uniqueIndex;not null"`
	TotalViews     int64     `gorm:"not null;default:0"`
	UniqueVisitors int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (visitorStatPO) TableName() string { return "visitor_stats" }

// contentStatPO 是单内容累计访问计数表。
type contentStatPO struct {
	ID             uint   `gorm:"primarykey"`
	ContentID      string `gorm:"uniqueIndex;size:255;not null"`
	TotalViews     int64  `gorm:"not null;default:0"`
	UniqueVisitors int64  `gorm:"not null;default:0"`
	UpdatedAt      time.Time
}

func (contentStatPO) TableName() string { return "content_stats" }

// contentEntityPO 是内容实体登记表（文章与项目的寻址元数据）。
// ID 是规范内容标识，形如 blog/<slug> 或 project/<slug>，
// 历史数据里也存在不带前缀的裸 slug。
type contentEntityPO struct {
	ID          string `gorm:"primarykey;size:255"`
	Title       string `gorm:"size:255;not null"`
	Category    string `gorm:"index;size:64"`
	Description string `gorm:"size:1024"`
	Cover       string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (contentEntityPO) TableName() string { return "content_entities" }

// settingPO 是站点配置表。
type settingPO struct {
	ID        uint   `gorm:"primarykey"`
	ConfigKey string `gorm:"uniqueIndex;size:255;not null"`
	Value     string `gorm:"type:text"`
	Comment   string `gorm:"size:512"`
	UpdatedAt time.Time
}

func (settingPO) TableName() string { return "settings" }

// AutoMigrate 同步所有持久化对象的表结构。
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&ratingAggregatePO{},
		&ratingContributionPO{},
		&commentPO{},
		&visitorLogPO{},
		&visitorStatPO{},
		&contentStatPO{},
		&contentEntityPO{},
		&settingPO{},
	); err != nil {
		return fmt.Errorf("数据库 schema 同步失败: %w", err)
	}
	return nil
}

// --- 领域模型转换 ---

func toDomainComment(po *commentPO) *model.Comment {
	if po == nil {
		return nil
	}
	return &model.Comment{
		ID:         po.ID,
		PostID:     po.PostID,
		Nickname:   po.Nickname,
		Email:      po.Email,
		EmailMD5:   po.EmailMD5,
		Content:    po.Content,
		QuotaCount: po.QuotaCount,
		Status:     model.Status(po.Status),
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
}

func toDomainAggregate(po *ratingAggregatePO, postID string) *model.RatingAggregate {
	if po == nil {
		// 聚合行尚未创建：返回零值聚合，count=0 时平均分为 0
		return &model.RatingAggregate{PostID: postID}
	}
	return &model.RatingAggregate{
		PostID: po.PostID,
		Sum:    po.Sum,
		Count:  po.Count,
	}
}

func toDomainVisitorStat(po *visitorStatPO) *model.VisitorStat {
	if po == nil {
		return nil
	}
	return &model.VisitorStat{
		ID:             po.ID,
		Date:           po.Date,
		TotalViews:     po.TotalViews,
		UniqueVisitors: po.UniqueVisitors,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}
}
