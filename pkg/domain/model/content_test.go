package model

import "testing"

func TestParseContentKind(t *testing.T) {
	testCases := []struct {
		prefix string
		want   ContentKind
	}{
		{"thoughts", KindThought},
		{"thought", KindThought},
		{"projects", KindProject},
		{"project", KindProject},
		{"wiki", KindUnknown},
		{"", KindUnknown},
		{"Thoughts", KindUnknown}, // 前缀区分大小写
	}
	for _, tc := range testCases {
		if got := ParseContentKind(tc.prefix); got != tc.want {
			t.Errorf("ParseContentKind(%q) = %q, 期望 %q", tc.prefix, got, tc.want)
		}
	}
}

func TestContentKindMappings(t *testing.T) {
	if KindThought.DBPrefix() != "blog" {
		t.Errorf("thought 类的数据库前缀 = %q, 期望沿用历史的 blog", KindThought.DBPrefix())
	}
	if KindProject.DBPrefix() != "project" {
		t.Errorf("project 类的数据库前缀 = %q, 期望 project", KindProject.DBPrefix())
	}
	if KindThought.IndexPath() != "/thoughts" || KindProject.IndexPath() != "/projects" {
		t.Errorf("栏目索引页 = (%q, %q)", KindThought.IndexPath(), KindProject.IndexPath())
	}
}

func TestContentEntityIsProject(t *testing.T) {
	testCases := []struct {
		name   string
		entity ContentEntity
		want   bool
	}{
		{"category 标记为项目", ContentEntity{ID: "photo-wall", Category: "Project"}, true},
		{"ID 带 project 前缀", ContentEntity{ID: "project/photo-wall", Category: "App"}, true},
		{"普通文章", ContentEntity{ID: "blog/hello-world", Category: "Go"}, false},
		{"无前缀的系统页面", ContentEntity{ID: "about", Category: ""}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entity.IsProject(); got != tc.want {
				t.Errorf("IsProject() = %v, 期望 %v", got, tc.want)
			}
		})
	}
}

func TestIdentityToken(t *testing.T) {
	a := Identity{Nickname: "访客甲", Email: " Guest@Example.COM "}
	b := Identity{Nickname: "访客乙", Email: "guest@example.com"}
	if a.Token() != b.Token() {
		t.Errorf("归一化后令牌应一致: %q vs %q", a.Token(), b.Token())
	}
	if a.EmailMD5() != b.EmailMD5() {
		t.Error("同一令牌的邮箱摘要应一致")
	}
	if (Identity{}).Token() != "" {
		t.Error("空身份的令牌应为空串")
	}
	if !(Identity{}).IsZero() || a.IsZero() {
		t.Error("IsZero 判定异常")
	}
}
