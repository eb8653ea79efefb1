// internal/infra/persistence/gorm/setting_repo.go
package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"

	"gorm.io/gorm"
)

type settingRepo struct {
	db *gorm.DB
}

// NewSettingRepo 创建站点配置仓储实例。
func NewSettingRepo(db *gorm.DB) repository.SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) FindAll(ctx context.Context) ([]*model.Setting, error) {
	var pos []*settingPO
	if err := r.db.WithContext(ctx).Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("查询配置项失败: %w", err)
	}
	settings := make([]*model.Setting, len(pos))
	for i, po := range pos {
		settings[i] = &model.Setting{
			ID:        po.ID,
			ConfigKey: po.ConfigKey,
			Value:     po.Value,
			Comment:   po.Comment,
			UpdatedAt: po.UpdatedAt,
		}
	}
	return settings, nil
}

func (r *settingRepo) FindByKey(ctx context.Context, key string) (*model.Setting, error) {
	var po settingPO
	err := r.db.WithContext(ctx).Where("config_key = ?", key).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询配置项 '%s' 失败: %w", key, err)
	}
	return &model.Setting{
		ID:        po.ID,
		ConfigKey: po.ConfigKey,
		Value:     po.Value,
		Comment:   po.Comment,
		UpdatedAt: po.UpdatedAt,
	}, nil
}

func (r *settingRepo) Create(ctx context.Context, setting *model.Setting) error {
	po := &settingPO{
		ConfigKey: setting.ConfigKey,
		Value:     setting.Value,
		Comment:   setting.Comment,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("创建配置项 '%s' 失败: %w", setting.ConfigKey, err)
	}
	return nil
}

func (r *settingRepo) Update(ctx context.Context, key, value string) error {
	result := r.db.WithContext(ctx).Model(&settingPO{}).
		Where("config_key = ?", key).
		Update("value", value)
	if result.Error != nil {
		return fmt.Errorf("更新配置项 '%s' 失败: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return constant.ErrNotFound
	}
	return nil
}
