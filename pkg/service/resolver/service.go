/*
 * @Description: 内容解析服务：把路由中的 (类型, slug) 解析为规范内容实体
 * @Author: 安知鱼
 * @Date: 2025-11-12 10:30:17
 * @LastEditTime: 2026-03-14 16:55:02
 * @LastEditors: 安知鱼
 */
package resolver

import (
	"strings"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
)

// CollectionProvider 是内容集合提供方（外部协作者）。
// 集合为只读，Loading 为 true 时不应发起解析。
type CollectionProvider interface {
	Entities() []model.ContentEntity
	Loading() bool
}

// Outcome 是一次解析的结果：要么命中实体，要么给出重定向指令。
// 解析失败是一种 UX 决策而不是数据错误，不应被记录为应用错误。
type Outcome struct {
	Entity   *model.ContentEntity
	Redirect string // 未命中时的重定向目标；Entity 非 nil 时为空
}

// Service 实现内容解析与关联内容查找。
type Service struct {
	provider CollectionProvider
}

// NewService 创建解析服务实例。
func NewService(provider CollectionProvider) *Service {
	return &Service{provider: provider}
}

// Resolve 在内容集合中解析 (kind, slug)。
//
// 匹配顺序（先命中者胜），因为内容 ID 经历过多次寻址方案迁移，
// slug 不保证与路由前缀一致：
//  1. 精确匹配：id == "<dbPrefix>/<slug>"
//  2. 后缀匹配：id 最后一个 '/' 之后的子串 == slug
//  3. 恒等匹配：id == slug（覆盖不含路径分隔符的 ID）
//
// kind 无法识别时立即返回 constant.ErrUnknownRouteKind，不扫描集合。
func Resolve(kind model.ContentKind, slug string, collection []model.ContentEntity) (*model.ContentEntity, error) {
	if kind == model.KindUnknown {
		return nil, constant.ErrUnknownRouteKind
	}

	canonical := kind.DBPrefix() + "/" + slug

	// 规则 1：精确匹配永远优先于规则 2、3
	for i := range collection {
		if collection[i].ID == canonical {
			return &collection[i], nil
		}
	}

	// 规则 2：后缀匹配
	for i := range collection {
		id := collection[i].ID
		if idx := strings.LastIndex(id, "/"); idx >= 0 && id[idx+1:] == slug {
			return &collection[i], nil
		}
	}

	// 规则 3：恒等匹配
	for i := range collection {
		if collection[i].ID == slug {
			return &collection[i], nil
		}
	}

	return nil, constant.ErrNotFound
}

// Related 返回与 entity 同类（项目/文章）的至多 limit 个其他实体。
// 保持集合的插入顺序，不重新排序。
func Related(entity *model.ContentEntity, collection []model.ContentEntity, limit int) []model.ContentEntity {
	if entity == nil || limit <= 0 {
		return nil
	}

	wantProject := entity.IsProject()
	related := make([]model.ContentEntity, 0, limit)
	for i := range collection {
		if collection[i].ID == entity.ID {
			continue
		}
		if collection[i].IsProject() == wantProject {
			related = append(related, collection[i])
			if len(related) == limit {
				break
			}
		}
	}
	return related
}

// ResolveRoute 按路由段解析并给出完整的解析结果（含重定向策略）。
//
// 失败策略：集合中无匹配时重定向到栏目索引页（/projects 或 /thoughts）
// 而不是通用 404；只有 kind 本身无法识别时才走通用 404 页。
func (s *Service) ResolveRoute(routePrefix, slug string) Outcome {
	kind := model.ParseContentKind(routePrefix)

	entity, err := Resolve(kind, slug, s.provider.Entities())
	if err == nil {
		return Outcome{Entity: entity}
	}
	if kind == model.KindUnknown {
		return Outcome{Redirect: "/404"}
	}
	return Outcome{Redirect: kind.IndexPath()}
}

// RelatedTo 返回某实体的关联内容，至多 2 个。
func (s *Service) RelatedTo(entity *model.ContentEntity) []model.ContentEntity {
	return Related(entity, s.provider.Entities(), 2)
}

// Ready 报告内容集合是否已加载完成。
func (s *Service) Ready() bool {
	return !s.provider.Loading()
}
