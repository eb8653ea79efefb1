// pkg/keystore/session_store.go
package keystore

import "sync"

// SessionStore 是 KeyStore 的会话级实现：仅存活于一次浏览会话，
// EndSession 或进程退出后全部标记消失。访问去重标记存放在这里，
// 保证"每会话至多上报一次"的语义。
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewSessionStore 创建一个空的会话级存储。
func NewSessionStore() *SessionStore {
	return &SessionStore{data: make(map[string]string)}
}

func (s *SessionStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *SessionStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// SetIfAbsent 仅当键不存在时写入，返回是否写入成功。
// 检查与写入在同一把锁内完成，供访问去重做近似原子的 check-then-set。
func (s *SessionStore) SetIfAbsent(key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = value
	return true, nil
}

func (s *SessionStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// EndSession 清空所有会话标记，模拟浏览会话结束。
func (s *SessionStore) EndSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
}

func (s *SessionStore) Close() error {
	s.EndSession()
	return nil
}
