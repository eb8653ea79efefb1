/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-21 00:21:55
 * @LastEditTime: 2026-03-16 21:10:06
 * @LastEditors: 安知鱼
 */
package main

import (
	"log"

	"github.com/anzhiyu-c/anheyu-engage/cmd/server"
)

// @title           Anheyu Engage API
// @version         1.0
// @description     互动状态协调服务接口文档
// @contact.name   安知鱼
// @contact.url    https://github.com/anzhiyu-c
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
// @host      localhost:8091
// @BasePath  /api
func main() {
	// 调用位于 cmd/server 包中的 NewApp 函数来构建整个应用
	app, cleanup, err := server.NewApp()
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	// 使用 defer 来确保 cleanup 函数在 main 退出时被调用
	defer cleanup()

	// 确保后台任务在程序退出时被停止
	defer app.Stop()

	app.PrintBanner()

	// 启动应用
	if err := app.Run(); err != nil {
		log.Fatalf("应用启动失败: %v", err)
	}
}
