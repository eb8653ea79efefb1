// internal/infra/persistence/gorm/content_repo.go
package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contentEntityRepo struct {
	db *gorm.DB
}

// NewContentEntityRepo 创建内容实体仓储实例。
func NewContentEntityRepo(db *gorm.DB) repository.ContentEntityRepository {
	return &contentEntityRepo{db: db}
}

func (r *contentEntityRepo) FindAll(ctx context.Context) ([]model.ContentEntity, error) {
	var pos []*contentEntityPO
	// 按创建时间升序，保证解析与关联查找的顺序稳定
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("查询内容实体失败: %w", err)
	}
	entities := make([]model.ContentEntity, len(pos))
	for i, po := range pos {
		entities[i] = model.ContentEntity{
			ID:          po.ID,
			Title:       po.Title,
			Category:    po.Category,
			Description: po.Description,
			Cover:       po.Cover,
		}
	}
	return entities, nil
}

func (r *contentEntityRepo) FindByID(ctx context.Context, id string) (*model.ContentEntity, error) {
	var po contentEntityPO
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询内容实体 '%s' 失败: %w", id, err)
	}
	return &model.ContentEntity{
		ID:          po.ID,
		Title:       po.Title,
		Category:    po.Category,
		Description: po.Description,
		Cover:       po.Cover,
	}, nil
}

func (r *contentEntityRepo) Upsert(ctx context.Context, entity *model.ContentEntity) error {
	po := &contentEntityPO{
		ID:          entity.ID,
		Title:       entity.Title,
		Category:    entity.Category,
		Description: entity.Description,
		Cover:       entity.Cover,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "category", "description", "cover", "updated_at"}),
	}).Create(po).Error
	if err != nil {
		return fmt.Errorf("写入内容实体 '%s' 失败: %w", entity.ID, err)
	}
	return nil
}

func (r *contentEntityRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&contentEntityPO{})
	if result.Error != nil {
		return fmt.Errorf("删除内容实体 '%s' 失败: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return constant.ErrNotFound
	}
	return nil
}
