package resolver

import (
	"errors"
	"testing"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
)

func testCollection() []model.ContentEntity {
	return []model.ContentEntity{
		{ID: "blog/hello-world", Title: "你好世界", Category: "随笔"},
		{ID: "blog/go-notes", Title: "Go 学习笔记", Category: "技术"},
		{ID: "project/anheyu-engage", Title: "互动服务", Category: "Project"},
		{ID: "project/photo-wall", Title: "照片墙", Category: "Project"},
		{ID: "legacy-post", Title: "历史文章", Category: "随笔"},
		{ID: "archive/2020/old-entry", Title: "旧条目", Category: "随笔"},
	}
}

func TestResolve(t *testing.T) {
	collection := testCollection()

	tests := []struct {
		name    string
		kind    model.ContentKind
		slug    string
		wantID  string
		wantErr error
	}{
		{
			name:   "精确匹配_blog前缀",
			kind:   model.KindThought,
			slug:   "hello-world",
			wantID: "blog/hello-world",
		},
		{
			name:   "精确匹配_project前缀",
			kind:   model.KindProject,
			slug:   "anheyu-engage",
			wantID: "project/anheyu-engage",
		},
		{
			name:   "后缀匹配_多级路径的最后一段",
			kind:   model.KindThought,
			slug:   "old-entry",
			wantID: "archive/2020/old-entry",
		},
		{
			name:   "恒等匹配_不带前缀的历史ID",
			kind:   model.KindThought,
			slug:   "legacy-post",
			wantID: "legacy-post",
		},
		{
			name:    "未命中返回NotFound",
			kind:    model.KindThought,
			slug:    "no-such-post",
			wantErr: constant.ErrNotFound,
		},
		{
			name:    "未知类型立即失败",
			kind:    model.KindUnknown,
			slug:    "hello-world",
			wantErr: constant.ErrUnknownRouteKind,
		},
		{
			name:    "类型与前缀不符时不做精确匹配",
			kind:    model.KindProject,
			slug:    "go-notes",
			wantID:  "blog/go-notes", // 规则2后缀匹配仍然命中
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.kind, tt.slug, collection)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, 期望 %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() 意外错误: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Resolve() = %q, 期望 %q", got.ID, tt.wantID)
			}
		})
	}
}

// 同一输入反复解析必须得到同一实体，规则1完整优先于规则2。
func TestResolveDeterministic(t *testing.T) {
	collection := append(testCollection(),
		// 同 slug 的干扰项：后缀匹配会命中它，但精确匹配应先胜出
		model.ContentEntity{ID: "archive/hello-world", Title: "干扰项"},
	)

	for i := 0; i < 50; i++ {
		got, err := Resolve(model.KindThought, "hello-world", collection)
		if err != nil {
			t.Fatalf("第 %d 次解析失败: %v", i, err)
		}
		if got.ID != "blog/hello-world" {
			t.Fatalf("第 %d 次解析结果漂移: %q", i, got.ID)
		}
	}
}

func TestRelated(t *testing.T) {
	collection := testCollection()

	t.Run("项目的关联是其他项目_排除自身", func(t *testing.T) {
		self := &collection[2] // project/anheyu-engage
		related := Related(self, collection, 2)
		if len(related) != 1 {
			t.Fatalf("期望 1 个关联项目, 得到 %d", len(related))
		}
		if related[0].ID != "project/photo-wall" {
			t.Errorf("关联结果 = %q, 期望 project/photo-wall", related[0].ID)
		}
	})

	t.Run("文章的关联是其他文章_保持插入顺序", func(t *testing.T) {
		self := &collection[1] // blog/go-notes
		related := Related(self, collection, 2)
		if len(related) != 2 {
			t.Fatalf("期望 2 个关联文章, 得到 %d", len(related))
		}
		if related[0].ID != "blog/hello-world" || related[1].ID != "legacy-post" {
			t.Errorf("关联顺序错误: %q, %q", related[0].ID, related[1].ID)
		}
	})

	t.Run("上限截断", func(t *testing.T) {
		self := &collection[0]
		related := Related(self, collection, 1)
		if len(related) != 1 {
			t.Errorf("期望截断到 1 个, 得到 %d", len(related))
		}
	})
}

type staticProvider struct {
	entities []model.ContentEntity
	loading  bool
}

func (p *staticProvider) Entities() []model.ContentEntity { return p.entities }
func (p *staticProvider) Loading() bool                   { return p.loading }

func TestResolveRouteRedirectPolicy(t *testing.T) {
	svc := NewService(&staticProvider{entities: testCollection()})

	tests := []struct {
		name         string
		prefix       string
		slug         string
		wantEntity   string
		wantRedirect string
	}{
		{name: "命中文章", prefix: "thoughts", slug: "hello-world", wantEntity: "blog/hello-world"},
		{name: "命中项目", prefix: "projects", slug: "photo-wall", wantEntity: "project/photo-wall"},
		{name: "文章未命中重定向到文章索引", prefix: "thoughts", slug: "missing", wantRedirect: "/thoughts"},
		{name: "项目未命中重定向到项目索引", prefix: "projects", slug: "missing", wantRedirect: "/projects"},
		{name: "未知类型重定向到404", prefix: "wiki", slug: "hello-world", wantRedirect: "/404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := svc.ResolveRoute(tt.prefix, tt.slug)
			if tt.wantEntity != "" {
				if outcome.Entity == nil || outcome.Entity.ID != tt.wantEntity {
					t.Fatalf("期望命中 %q, 得到 %+v", tt.wantEntity, outcome)
				}
				if outcome.Redirect != "" {
					t.Errorf("命中时不应有重定向, 得到 %q", outcome.Redirect)
				}
				return
			}
			if outcome.Entity != nil {
				t.Fatalf("期望重定向, 却命中了 %q", outcome.Entity.ID)
			}
			if outcome.Redirect != tt.wantRedirect {
				t.Errorf("重定向 = %q, 期望 %q", outcome.Redirect, tt.wantRedirect)
			}
		})
	}
}
