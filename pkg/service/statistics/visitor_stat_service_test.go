package statistics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
)

type fakeVisitorLogRepo struct {
	logs      []*model.VisitorLog
	createErr error
}

func (r *fakeVisitorLogRepo) Create(ctx context.Context, log *model.VisitorLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeVisitorLogRepo) CountByDateRange(ctx context.Context, start, end time.Time) (int64, int64, error) {
	var views int64
	seen := make(map[string]bool)
	for _, l := range r.logs {
		if l.CreatedAt.Before(start) || !l.CreatedAt.Before(end) {
			continue
		}
		views++
		seen[l.VisitorID] = true
	}
	return views, int64(len(seen)), nil
}

func (r *fakeVisitorLogRepo) GetFirstDate(ctx context.Context) (*time.Time, error) {
	if len(r.logs) == 0 {
		return nil, nil
	}
	d := r.logs[0].CreatedAt
	return &d, nil
}

func (r *fakeVisitorLogRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64
	kept := r.logs[:0]
	for _, l := range r.logs {
		if l.CreatedAt.Before(before) {
			deleted++
		} else {
			kept = append(kept, l)
		}
	}
	r.logs = kept
	return deleted, nil
}

type fakeVisitorStatRepo struct {
	stats map[string]*model.VisitorStat // 键为 yyyy-MM-dd
}

func newFakeVisitorStatRepo() *fakeVisitorStatRepo {
	return &fakeVisitorStatRepo{stats: make(map[string]*model.VisitorStat)}
}

func (r *fakeVisitorStatRepo) Upsert(ctx context.Context, stat *model.VisitorStat) error {
	r.stats[stat.Date.Format("2006-01-02")] = stat
	return nil
}

func (r *fakeVisitorStatRepo) GetLatestDate(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	for _, s := range r.stats {
		d := s.Date
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest, nil
}

func (r *fakeVisitorStatRepo) Totals(ctx context.Context) (int64, int64, error) {
	var views, visitors int64
	for _, s := range r.stats {
		views += s.TotalViews
		visitors += s.UniqueVisitors
	}
	return views, visitors, nil
}

type fakeContentStatRepo struct {
	stats        map[string]*model.ContentVisitStat
	incrementErr error
}

func newFakeContentStatRepo() *fakeContentStatRepo {
	return &fakeContentStatRepo{stats: make(map[string]*model.ContentVisitStat)}
}

func (r *fakeContentStatRepo) IncrementViews(ctx context.Context, contentID string, isUnique bool) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	s, ok := r.stats[contentID]
	if !ok {
		s = &model.ContentVisitStat{ContentID: contentID}
		r.stats[contentID] = s
	}
	s.TotalViews++
	if isUnique {
		s.UniqueVisitors++
	}
	return nil
}

func (r *fakeContentStatRepo) Get(ctx context.Context, contentID string) (*model.ContentVisitStat, error) {
	if s, ok := r.stats[contentID]; ok {
		return s, nil
	}
	return &model.ContentVisitStat{ContentID: contentID}, nil
}

func (r *fakeContentStatRepo) TopContents(ctx context.Context, limit int) ([]*model.ContentVisitStat, error) {
	var out []*model.ContentVisitStat
	for _, s := range r.stats {
		out = append(out, s)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestStatService(logRepo *fakeVisitorLogRepo, statRepo *fakeVisitorStatRepo, contentRepo *fakeContentStatRepo) VisitorStatService {
	return NewVisitorStatService(logRepo, statRepo, contentRepo, nil, nil)
}

func TestRecordVisit(t *testing.T) {
	logRepo := &fakeVisitorLogRepo{}
	contentRepo := newFakeContentStatRepo()
	svc := newTestStatService(logRepo, newFakeVisitorStatRepo(), contentRepo)

	err := svc.RecordVisit(context.Background(), &VisitRequest{
		ContentID: "blog/hello-world",
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	})
	if err != nil {
		t.Fatalf("RecordVisit() 失败: %v", err)
	}

	if len(logRepo.logs) != 1 {
		t.Fatalf("日志条数 = %d, 期望 1", len(logRepo.logs))
	}
	if logRepo.logs[0].VisitorID == "" {
		t.Error("未提供访客标识时应由 IP+UA 推导")
	}
	stat, _ := contentRepo.Get(context.Background(), "blog/hello-world")
	if stat.TotalViews != 1 {
		t.Errorf("内容访问计数 = %d, 期望 1", stat.TotalViews)
	}
}

func TestRecordVisitEmptyContentID(t *testing.T) {
	svc := newTestStatService(&fakeVisitorLogRepo{}, newFakeVisitorStatRepo(), newFakeContentStatRepo())
	if err := svc.RecordVisit(context.Background(), &VisitRequest{}); err == nil {
		t.Error("空内容ID应报错")
	}
}

// 日志行是最小成功单元：写入失败时整次调用失败。
func TestRecordVisitLogFailure(t *testing.T) {
	logRepo := &fakeVisitorLogRepo{createErr: errors.New("数据库不可用")}
	svc := newTestStatService(logRepo, newFakeVisitorStatRepo(), newFakeContentStatRepo())

	err := svc.RecordVisit(context.Background(), &VisitRequest{ContentID: "blog/hello-world"})
	if err == nil {
		t.Fatal("日志写入失败时 RecordVisit 应返回错误")
	}
}

// 内容计数是尽力而为：失败只记警告，不影响整次调用。
func TestRecordVisitCounterBestEffort(t *testing.T) {
	logRepo := &fakeVisitorLogRepo{}
	contentRepo := newFakeContentStatRepo()
	contentRepo.incrementErr = errors.New("计数表不可用")
	svc := newTestStatService(logRepo, newFakeVisitorStatRepo(), contentRepo)

	err := svc.RecordVisit(context.Background(), &VisitRequest{ContentID: "blog/hello-world"})
	if err != nil {
		t.Fatalf("计数失败不应影响整次调用: %v", err)
	}
	if len(logRepo.logs) != 1 {
		t.Errorf("日志仍应落库, 实际 %d 条", len(logRepo.logs))
	}
}

func TestAggregateDailyIdempotent(t *testing.T) {
	logRepo := &fakeVisitorLogRepo{}
	statRepo := newFakeVisitorStatRepo()
	svc := newTestStatService(logRepo, statRepo, newFakeContentStatRepo())
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	for i, visitor := range []string{"v1", "v2", "v1"} {
		logRepo.logs = append(logRepo.logs, &model.VisitorLog{
			ContentID: "blog/hello-world",
			VisitorID: visitor,
			CreatedAt: day.Add(time.Duration(i) * time.Hour),
		})
	}

	// 重复聚合同一天，结果覆盖而不是叠加
	for i := 0; i < 3; i++ {
		if err := svc.AggregateDaily(ctx, day.Add(10*time.Hour)); err != nil {
			t.Fatalf("第 %d 次 AggregateDaily 失败: %v", i+1, err)
		}
	}

	stat, ok := statRepo.stats["2026-03-10"]
	if !ok {
		t.Fatal("日统计未写入")
	}
	if stat.TotalViews != 3 || stat.UniqueVisitors != 2 {
		t.Errorf("日统计 = (views=%d, visitors=%d), 期望 (3, 2)", stat.TotalViews, stat.UniqueVisitors)
	}

	latest, _ := svc.GetLastAggregatedDate(ctx)
	if latest == nil || !latest.Equal(day) {
		t.Errorf("最后聚合日期 = %v, 期望 %v", latest, day)
	}
}

func TestCleanupLogs(t *testing.T) {
	logRepo := &fakeVisitorLogRepo{}
	svc := newTestStatService(logRepo, newFakeVisitorStatRepo(), newFakeContentStatRepo())

	old := time.Date(2025, 12, 1, 8, 0, 0, 0, time.Local)
	recent := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	logRepo.logs = append(logRepo.logs,
		&model.VisitorLog{ContentID: "blog/a", VisitorID: "v1", CreatedAt: old},
		&model.VisitorLog{ContentID: "blog/b", VisitorID: "v2", CreatedAt: recent},
	)

	deleted, err := svc.CleanupLogs(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("CleanupLogs() 失败: %v", err)
	}
	if deleted != 1 || len(logRepo.logs) != 1 {
		t.Errorf("清理结果 = %d 条, 剩余 %d 条, 期望删除 1 剩余 1", deleted, len(logRepo.logs))
	}
}
