// pkg/constant/setting.go
/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-08 14:21:30
 * @LastEditTime: 2026-03-02 10:17:45
 * @LastEditors: 安知鱼
 */
package constant

// SettingKey 为所有在应用中使用的配置键定义了类型安全的常量。
type SettingKey string

// String 方便地将 SettingKey 转换为 string 类型。
func (k SettingKey) String() string {
	return string(k)
}

const (
	// --- 站点基础配置 (可暴露给前端) ---
	KeyAppName         SettingKey = "APP_NAME"
	KeySubTitle        SettingKey = "SUB_TITLE"
	KeySiteURL         SettingKey = "SITE_URL"
	KeyAppVersion      SettingKey = "APP_VERSION"
	KeySiteDescription SettingKey = "SITE_DESCRIPTION"
	KeyGravatarURL     SettingKey = "GRAVATAR_URL"

	// --- 评论配置 ---
	KeyEnableComments       SettingKey = "ENABLE_COMMENTS"         // 是否开放评论展示
	KeyCommentQuotaPerPost  SettingKey = "COMMENT_QUOTA_PER_POST"  // 每个 (内容, 身份) 允许的评论数上限
	KeyCommentLimitPerMin   SettingKey = "COMMENT_LIMIT_PER_MIN"   // 单 IP 每分钟评论数限制
	KeyCommentMinLength     SettingKey = "COMMENT_MIN_LENGTH"      // 评论内容最小长度
	KeyCommentMaxLength     SettingKey = "COMMENT_MAX_LENGTH"      // 评论内容最大长度
	KeyCommentNotifyAdmin   SettingKey = "COMMENT_NOTIFY_ADMIN"    // 新评论是否通知管理员
	KeyCommentPlaceholder   SettingKey = "COMMENT_PLACEHOLDER"     // 评论框占位文本
	KeyCommentPageSize      SettingKey = "COMMENT_PAGE_SIZE"       // 评论列表每页数量
	KeyCommentEmailMD5Salt  SettingKey = "COMMENT_EMAIL_MD5_SALT"  // 邮箱摘要盐值（仅用于头像，非安全用途）

	// --- 评分配置 ---
	KeyRatingMinValue SettingKey = "RATING_MIN_VALUE" // 评分最小值
	KeyRatingMaxValue SettingKey = "RATING_MAX_VALUE" // 评分最大值

	// --- 访问统计配置 ---
	KeyEnableVisitTracking SettingKey = "ENABLE_VISIT_TRACKING" // 是否记录访问
	KeyVisitDedupWindow    SettingKey = "VISIT_DEDUP_WINDOW"    // 访客去重窗口（小时）

	// --- 系统配置 ---
	KeyIDSeed SettingKey = "ID_SEED" // 公共 ID 编码种子
)
