// pkg/service/setting/service.go
package setting

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/anzhiyu-c/anheyu-engage/internal/configdef"
	"github.com/anzhiyu-c/anheyu-engage/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"
)

// SettingUpdatedEvent 定义了配置更新事件的数据结构
type SettingUpdatedEvent struct {
	Key   string
	Value string
}

// SettingService 定义了配置服务的接口
type SettingService interface {
	LoadAllSettings(ctx context.Context) error
	Get(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetSiteConfig() map[string]string
	UpdateSetting(ctx context.Context, key, value string) error
}

// settingService 是 SettingService 接口的实现
type settingService struct {
	repo          repository.SettingRepository
	cache         map[string]string
	mu            sync.RWMutex
	publicSetting map[string]bool
	eventBus      *event.EventBus
}

// NewSettingService 是 settingService 的构造函数
func NewSettingService(repo repository.SettingRepository, bus *event.EventBus) SettingService {
	publicKeys := make(map[string]bool)
	for _, def := range configdef.AllSettings {
		if def.IsPublic {
			publicKeys[def.Key.String()] = true
		}
	}
	log.Printf("Setting Service 初始化完成，自动识别到 %d 个公开配置项。", len(publicKeys))

	return &settingService{
		repo:          repo,
		cache:         make(map[string]string),
		publicSetting: publicKeys,
		eventBus:      bus,
	}
}

// LoadAllSettings 从代码定义和数据库中加载所有配置项到内存缓存。
// 数据库读取失败时退回代码中的默认值，服务降级但不中断。
func (s *settingService) LoadAllSettings(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newCache := make(map[string]string)
	for _, def := range configdef.AllSettings {
		newCache[def.Key.String()] = def.Value
	}

	dbSettings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cache = newCache
		log.Printf("⚠️ 警告: 从数据库加载配置失败: %v。服务将使用代码中定义的默认配置。", err)
		return err
	}

	for _, dbSetting := range dbSettings {
		newCache[dbSetting.ConfigKey] = dbSetting.Value
	}

	s.cache = newCache

	log.Printf("所有站点配置已成功加载到缓存，共 %d 项。", len(s.cache))
	return nil
}

// UpdateSetting 更新单个配置项，并发布变更事件
func (s *settingService) UpdateSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Update(ctx, key, value); err != nil {
		return err
	}

	s.cache[key] = value
	s.eventBus.Publish(event.SettingUpdated, SettingUpdatedEvent{Key: key, Value: value})

	log.Printf("成功更新站点配置项 '%s'，并已发布变更事件。", key)
	return nil
}

// Get 根据键获取配置值
func (s *settingService) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key]
}

// GetBool 根据键获取布尔类型的配置值
func (s *settingService) GetBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, _ := strconv.ParseBool(strings.ToLower(s.cache[key]))
	return b
}

// GetInt 根据键获取整型配置值，解析失败时返回 0
func (s *settingService) GetInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, _ := strconv.Atoi(strings.TrimSpace(s.cache[key]))
	return n
}

// GetSiteConfig 返回所有公开的站点配置
func (s *settingService) GetSiteConfig() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	safeConfig := make(map[string]string)
	for key, value := range s.cache {
		if s.publicSetting[key] {
			safeConfig[key] = value
		}
	}
	return safeConfig
}
