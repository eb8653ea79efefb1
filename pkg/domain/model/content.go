/*
 * @Description: 内容实体领域模型
 * @Author: 安知鱼
 * @Date: 2025-11-09 10:02:18
 * @LastEditTime: 2026-02-20 22:41:09
 * @LastEditors: 安知鱼
 */
package model

// ContentKind 表示内容实体的类别，来源于路由前缀。
type ContentKind string

const (
	KindThought ContentKind = "thought" // 文章（历史原因，数据库前缀为 blog）
	KindProject ContentKind = "project" // 项目
	KindUnknown ContentKind = ""        // 无法从路由推断
)

// DBPrefix 返回该类别在数据库 ID 中使用的前缀。
// 内容 ID 经历过多次寻址方案迁移，thought 类内容沿用旧的 blog 前缀。
func (k ContentKind) DBPrefix() string {
	if k == KindProject {
		return "project"
	}
	return "blog"
}

// IndexPath 返回该类别的栏目索引页路径，解析失败时作为重定向目标。
func (k ContentKind) IndexPath() string {
	if k == KindProject {
		return "/projects"
	}
	return "/thoughts"
}

// ParseContentKind 从路由首段推断内容类别。
// 识别不出时返回 KindUnknown，调用方应立即失败而不扫描内容集合。
func ParseContentKind(routePrefix string) ContentKind {
	switch routePrefix {
	case "thoughts", "thought":
		return KindThought
	case "projects", "project":
		return KindProject
	default:
		return KindUnknown
	}
}

// ContentEntity 是一条可寻址的文章或项目记录。
// ID 的规范格式为 "<kind>/<slug>"，kind ∈ {blog, project}；
// 系统页面的 ID 可能不含斜杠。实体在会话内不可变，
// 由内容集合提供方（外部协作者）持有。
type ContentEntity struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"` // 枚举标签，"Project" 或其他；ID 无前缀时作为辅助判断信号
	Description string `json:"description"`
	Cover       string `json:"cover"`
}

// IsProject 判断实体是否属于项目类。
// 依据：category 为 "Project"，或 ID 带有 project/ 前缀。
func (e *ContentEntity) IsProject() bool {
	if e.Category == "Project" {
		return true
	}
	return len(e.ID) > 8 && e.ID[:8] == "project/"
}
