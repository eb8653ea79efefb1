package keystore

import (
	"sync"
	"testing"
)

func TestBadgerStoreRoundTrip(t *testing.T) {
	store, err := NewInMemoryBadgerStore()
	if err != nil {
		t.Fatalf("创建内存键值库失败: %v", err)
	}
	defer store.Close()

	key := RatingKey("blog/hello-world")

	if _, ok, err := store.Get(key); err != nil || ok {
		t.Fatalf("不存在的键 Get = (ok=%v, err=%v), 期望 (false, nil)", ok, err)
	}

	if err := store.Set(key, "5"); err != nil {
		t.Fatalf("Set() 失败: %v", err)
	}
	value, ok, err := store.Get(key)
	if err != nil || !ok || value != "5" {
		t.Fatalf("Get() = (%q, %v, %v), 期望 (\"5\", true, nil)", value, ok, err)
	}

	if err := store.Delete(key); err != nil {
		t.Fatalf("Delete() 失败: %v", err)
	}
	if _, ok, _ := store.Get(key); ok {
		t.Error("删除后键不应存在")
	}

	// 删除不存在的键不报错
	if err := store.Delete("no_such_key"); err != nil {
		t.Errorf("删除不存在的键不应报错: %v", err)
	}
}

func TestSessionStoreSetIfAbsent(t *testing.T) {
	store := NewSessionStore()
	key := VisitKey("blog/hello-world")

	set, err := store.SetIfAbsent(key, "pending")
	if err != nil || !set {
		t.Fatalf("首次 SetIfAbsent = (%v, %v), 期望 (true, nil)", set, err)
	}
	set, err = store.SetIfAbsent(key, "other")
	if err != nil || set {
		t.Fatalf("重复 SetIfAbsent = (%v, %v), 期望 (false, nil)", set, err)
	}
	if v, _, _ := store.Get(key); v != "pending" {
		t.Errorf("重复写入不应覆盖原值, 实际 %q", v)
	}
}

func TestSessionStoreSetIfAbsentConcurrent(t *testing.T) {
	store := NewSessionStore()
	key := VisitKey("blog/hello-world")

	const goroutines = 50
	winners := make(chan int, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if set, _ := store.SetIfAbsent(key, "pending"); set {
				winners <- idx
			}
		}(i)
	}
	wg.Wait()
	close(winners)

	count := 0
	for range winners {
		count++
	}
	if count != 1 {
		t.Errorf("并发 SetIfAbsent 成功次数 = %d, 期望恰好 1", count)
	}
}

func TestSessionStoreEndSession(t *testing.T) {
	store := NewSessionStore()
	store.Set(VisitKey("blog/a"), "1")
	store.Set(VisitKey("blog/b"), "1")

	store.EndSession()

	if _, ok, _ := store.Get(VisitKey("blog/a")); ok {
		t.Error("会话结束后标记应全部清空")
	}
	if set, _ := store.SetIfAbsent(VisitKey("blog/a"), "pending"); !set {
		t.Error("会话结束后应允许重新写入")
	}
}

func TestMarkerKeyNamespaces(t *testing.T) {
	id := "blog/hello-world"
	if RatingKey(id) == CommentedKey(id) || CommentedKey(id) == VisitKey(id) || RatingKey(id) == VisitKey(id) {
		t.Error("不同用途的标记键必须互不冲突")
	}
	if VisitKey(id) != "visit_tracked_blog/hello-world" {
		t.Errorf("访问标记键格式异常: %q", VisitKey(id))
	}
}
