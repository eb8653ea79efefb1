/*
 * @Description: 基于 BadgerDB 的持久键值库实现
 * @Author: 安知鱼
 * @Date: 2025-11-11 09:48:21
 * @LastEditTime: 2026-02-11 19:40:12
 * @LastEditors: 安知鱼
 */
package keystore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore 是 KeyStore 的持久实现，数据在进程重启后仍然保留。
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore 在指定目录打开（或创建）一个持久键值库。
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Badger 内部日志过于啰嗦，统一关闭
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("打开键值库失败: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewInMemoryBadgerStore 创建一个纯内存的键值库，仅用于测试。
func NewInMemoryBadgerStore() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("打开内存键值库失败: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("读取键 '%s' 失败: %w", key, err)
	}
	return value, true, nil
}

func (s *BadgerStore) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("写入键 '%s' 失败: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("删除键 '%s' 失败: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
