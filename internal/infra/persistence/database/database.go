/*
 * @Description: 数据库连接管理 (支持多种数据库)
 * @Author: 安知鱼
 * @Date: 2025-11-11 11:30:55
 * @LastEditTime: 2026-02-20 22:41:09
 * @LastEditors: 安知鱼
 */
package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anzhiyu-c/anheyu-engage/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGormDB 创建并返回一个 gorm 连接，支持 postgres 与 sqlite。
func NewGormDB(cfg *config.Config) (*gorm.DB, error) {
	driver := cfg.GetString(config.KeyDBType)
	if driver == "" {
		log.Println("提示: 配置文件中未指定 'Database.Type'，将默认使用 'sqlite'")
		driver = "sqlite"
	}

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if cfg.GetBool(config.KeyDBDebug) {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var db *gorm.DB
	var err error

	switch driver {
	case "postgres":
		dbUser := cfg.GetString(config.KeyDBUser)
		dbPass := cfg.GetString(config.KeyDBPassword)
		dbHost := cfg.GetString(config.KeyDBHost)
		dbPort := cfg.GetString(config.KeyDBPort)
		dbName := cfg.GetString(config.KeyDBName)
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, fmt.Errorf("PostgreSQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Shanghai",
			dbHost, dbUser, dbPass, dbName, dbPort)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)

	case "sqlite":
		dbName := cfg.GetString(config.KeyDBName)
		if dbName == "" {
			dbName = "anheyu_engage.db"
		}
		dbPath := filepath.Join("data", dbName)
		if mkErr := os.MkdirAll(filepath.Dir(dbPath), 0755); mkErr != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %w", mkErr)
		}
		db, err = gorm.Open(sqlite.Open(dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"), gormCfg)

	default:
		return nil, fmt.Errorf("不支持的数据库类型: '%s' (支持 postgres / sqlite)", driver)
	}

	if err != nil {
		return nil, fmt.Errorf("连接数据库 (%s) 失败: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Printf("✅ 成功连接到数据库 (%s)", driver)
	return db, nil
}
