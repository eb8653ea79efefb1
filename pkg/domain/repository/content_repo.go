// pkg/domain/repository/content_repo.go
package repository

import (
	"context"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
)

// ContentEntityRepository 定义了内容实体登记表的持久化接口。
// 内容正文不在本系统内，这里只维护解析所需的寻址元数据。
type ContentEntityRepository interface {
	// FindAll 返回全部内容实体，保持插入顺序（按创建时间升序）。
	FindAll(ctx context.Context) ([]model.ContentEntity, error)

	FindByID(ctx context.Context, id string) (*model.ContentEntity, error)

	// Upsert 按 ID 写入或更新一条实体。
	Upsert(ctx context.Context, entity *model.ContentEntity) error

	Delete(ctx context.Context, id string) error
}
