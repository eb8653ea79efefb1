// pkg/domain/model/setting.go
package model

import "time"

// Setting 是一条站点级配置项，持久化于数据库，由配置注册表引导写入。
type Setting struct {
	ID        uint
	ConfigKey string
	Value     string
	Comment   string
	UpdatedAt time.Time
}
