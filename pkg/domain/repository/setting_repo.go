// pkg/domain/repository/setting_repo.go
package repository

import (
	"context"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
)

// SettingRepository 定义了站点配置项的持久化接口。
type SettingRepository interface {
	FindAll(ctx context.Context) ([]*model.Setting, error)
	FindByKey(ctx context.Context, key string) (*model.Setting, error)
	Create(ctx context.Context, setting *model.Setting) error
	Update(ctx context.Context, key, value string) error
}
