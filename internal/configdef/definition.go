package configdef

import (
	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
)

// Definition 定义了单个配置项的所有属性。
type Definition struct {
	Key      constant.SettingKey
	Value    string
	Comment  string
	IsPublic bool
}

// AllSettings 是系统中所有站点配置项的"单一事实来源"。
// 引导程序启动时将缺失的配置项写入数据库。
var AllSettings = []Definition{
	// --- 站点基础配置 ---
	{Key: constant.KeyAppName, Value: "半亩方糖", Comment: "应用名称", IsPublic: true},
	{Key: constant.KeySubTitle, Value: "生活明朗，万物可爱", Comment: "应用副标题", IsPublic: true},
	{Key: constant.KeySiteURL, Value: "https://www.hydsb0.com", Comment: "应用URL", IsPublic: true},
	{Key: constant.KeyAppVersion, Value: "1.0.0", Comment: "应用版本", IsPublic: true},
	{Key: constant.KeySiteDescription, Value: "文章与项目的互动层：评分、评论与访问统计。", Comment: "站点描述", IsPublic: true},
	{Key: constant.KeyGravatarURL, Value: "https://cravatar.cn/", Comment: "Gravatar 服务器地址", IsPublic: true},

	// --- 评论配置 ---
	{Key: constant.KeyEnableComments, Value: "true", Comment: "是否开放评论列表展示（关闭时列表恒为空，提交接口不受影响）", IsPublic: true},
	{Key: constant.KeyCommentQuotaPerPost, Value: "2", Comment: "同一 (内容, 邮箱) 被接受的评论数上限，超出直接拒绝", IsPublic: true},
	{Key: constant.KeyCommentLimitPerMin, Value: "5", Comment: "单 IP 每分钟评论提交上限，0 为不限制", IsPublic: false},
	{Key: constant.KeyCommentMinLength, Value: "10", Comment: "评论内容最小长度（字符）", IsPublic: true},
	{Key: constant.KeyCommentMaxLength, Value: "1000", Comment: "评论内容最大长度（字符）", IsPublic: true},
	{Key: constant.KeyCommentNotifyAdmin, Value: "true", Comment: "新评论进入待审核队列时是否通知管理员", IsPublic: false},
	{Key: constant.KeyCommentPlaceholder, Value: "说点什么吧…", Comment: "评论框占位文本", IsPublic: true},
	{Key: constant.KeyCommentPageSize, Value: "10", Comment: "评论列表每页数量", IsPublic: true},
	{Key: constant.KeyCommentEmailMD5Salt, Value: "", Comment: "邮箱摘要盐值，仅用于头像地址", IsPublic: false},

	// --- 评分配置 ---
	{Key: constant.KeyRatingMinValue, Value: "1", Comment: "评分最小值", IsPublic: true},
	{Key: constant.KeyRatingMaxValue, Value: "5", Comment: "评分最大值", IsPublic: true},

	// --- 访问统计配置 ---
	{Key: constant.KeyEnableVisitTracking, Value: "true", Comment: "是否记录访问日志", IsPublic: false},
	{Key: constant.KeyVisitDedupWindow, Value: "48", Comment: "访客去重集合的保留窗口（小时）", IsPublic: false},

	// --- 系统配置 ---
	{Key: constant.KeyIDSeed, Value: "", Comment: "公共 ID 编码种子，首次启动时自动生成", IsPublic: false},
}
