/*
 * @Description: 事务管理接口
 * @Author: 安知鱼
 * @Date: 2025-11-09 11:24:55
 * @LastEditTime: 2025-12-18 20:09:33
 * @LastEditors: 安知鱼
 */
package repository

import "context"

// Repositories 聚合了参与事务的各仓储实例。
// 传入 Do 回调的实例共享同一个事务句柄。
type Repositories struct {
	Rating  RatingRepository
	Comment CommentRepository
	Setting SettingRepository
}

// TransactionManager 定义了事务边界。回调返回错误时整体回滚。
type TransactionManager interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
