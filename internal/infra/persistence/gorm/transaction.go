/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-11 14:22:08
 * @LastEditTime: 2025-12-18 20:09:33
 * @LastEditors: 安知鱼
 */
package gorm

import (
	"context"
	"fmt"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"

	"gorm.io/gorm"
)

// gormTransactionManager 是基于 gorm 的事务管理器实现。
type gormTransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager 是 gormTransactionManager 的构造函数。
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Do 实现了 TransactionManager 接口。
// 回调内的仓储实例共享同一个事务句柄，回调返回错误时整体回滚。
func (tm *gormTransactionManager) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := repository.Repositories{
			Rating:  NewRatingRepo(tx),
			Comment: NewCommentRepo(tx),
			Setting: NewSettingRepo(tx),
		}
		return fn(repos)
	})
	if err != nil {
		return fmt.Errorf("事务执行失败: %w", err)
	}
	return nil
}
