// internal/app/bootstrap/bootstrap.go
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/anzhiyu-c/anheyu-engage/internal/configdef"
	gormpersist "github.com/anzhiyu-c/anheyu-engage/internal/infra/persistence/gorm"
	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"
	"github.com/anzhiyu-c/anheyu-engage/pkg/idgen"

	"gorm.io/gorm"
)

type Bootstrapper struct {
	db          *gorm.DB
	settingRepo repository.SettingRepository
}

func NewBootstrapper(db *gorm.DB, settingRepo repository.SettingRepository) *Bootstrapper {
	return &Bootstrapper{
		db:          db,
		settingRepo: settingRepo,
	}
}

func (b *Bootstrapper) InitializeDatabase() error {
	log.Println("--- 开始执行数据库初始化引导程序 (配置注册表模式) ---")

	if err := gormpersist.AutoMigrate(b.db); err != nil {
		return fmt.Errorf("数据库 schema 创建/更新失败: %w", err)
	}
	log.Println("--- 数据库 Schema 同步成功 ---")

	b.syncSettings()
	if err := b.initIDEncoder(); err != nil {
		return err
	}

	log.Println("--- 数据库初始化引导程序执行完成 ---")
	return nil
}

// syncSettings 检查并同步配置项，确保所有在代码中定义的配置项都存在于数据库中。
func (b *Bootstrapper) syncSettings() {
	log.Println("--- 开始同步站点配置 (Setting 表)... ---")
	ctx := context.Background()
	newlyAdded := 0

	for _, def := range configdef.AllSettings {
		_, err := b.settingRepo.FindByKey(ctx, def.Key.String())
		if err == nil {
			continue
		}
		if err != constant.ErrNotFound {
			log.Printf("⚠️ 失败: 查询配置项 '%s' 失败: %v", def.Key, err)
			continue
		}

		value := def.Value
		// 特殊处理需要动态生成的密钥
		if def.Key == constant.KeyIDSeed {
			if seed, genErr := idgen.GenerateRandomSeed(); genErr == nil {
				value = seed
			} else {
				log.Printf("⚠️ 失败: 生成 ID 种子失败: %v", genErr)
			}
		}

		// 检查环境变量覆盖
		envKey := "AN_SETTING_DEFAULT_" + strings.ToUpper(string(def.Key))
		if envValue, ok := os.LookupEnv(envKey); ok {
			value = envValue
			log.Printf("    - 配置项 '%s' 由环境变量覆盖。", def.Key)
		}

		createErr := b.settingRepo.Create(ctx, &model.Setting{
			ConfigKey: def.Key.String(),
			Value:     value,
			Comment:   def.Comment,
		})
		if createErr != nil {
			log.Printf("⚠️ 失败: 新增默认配置项 '%s' 失败: %v", def.Key, createErr)
		} else {
			log.Printf("    -新增配置项: '%s' 已写入数据库。", def.Key)
			newlyAdded++
		}
	}

	if newlyAdded > 0 {
		log.Printf("--- 站点配置同步完成，新增 %d 项。 ---", newlyAdded)
	} else {
		log.Println("--- 站点配置无需同步。 ---")
	}
}

// initIDEncoder 用数据库中的种子初始化公共 ID 编码器。
// 种子在首次启动时生成并落库，之后保持不变，保证公共 ID 跨重启稳定。
func (b *Bootstrapper) initIDEncoder() error {
	ctx := context.Background()
	seedSetting, err := b.settingRepo.FindByKey(ctx, constant.KeyIDSeed.String())
	if err != nil {
		return fmt.Errorf("读取 ID 种子失败: %w", err)
	}
	if seedSetting.Value == "" {
		seed, genErr := idgen.GenerateRandomSeed()
		if genErr != nil {
			return fmt.Errorf("生成 ID 种子失败: %w", genErr)
		}
		if updErr := b.settingRepo.Update(ctx, constant.KeyIDSeed.String(), seed); updErr != nil {
			return fmt.Errorf("写入 ID 种子失败: %w", updErr)
		}
		seedSetting.Value = seed
	}

	if err := idgen.InitSqidsEncoderWithSeed(seedSetting.Value); err != nil {
		return fmt.Errorf("初始化公共 ID 编码器失败: %w", err)
	}
	log.Println("--- 公共 ID 编码器初始化成功 ---")
	return nil
}
