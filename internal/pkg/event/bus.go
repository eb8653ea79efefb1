/*
 * @Description: 一个带固定Worker池的异步事件总线
 * @Author: 安知鱼
 * @Date: 2025-11-10 09:12:44
 * @LastEditTime: 2026-01-28 18:33:40
 * @LastEditors: 安知鱼
 */
package event

import (
	"log"
	"sync"
)

// 定义事件类型
type Topic string

const (
	// 评分事件：某内容收到一次新的评分贡献
	RatingSubmitted Topic = "rating:submitted"
	// 评论事件
	CommentCreated  Topic = "comment:created"
	CommentApproved Topic = "comment:approved"
	// 访问事件：一次访问写入成功
	VisitTracked Topic = "visit:tracked"
	// 配置事件：站点配置项被更新
	SettingUpdated Topic = "setting:updated"
)

// 事件处理器函数类型
type Handler func(payload interface{})

// Event 是在通道中传递的事件结构
type Event struct {
	Topic   Topic
	Payload interface{}
}

// EventBus 实现了基于Worker池的异步事件总线
type EventBus struct {
	mu        sync.RWMutex
	handlers  map[Topic][]Handler
	eventChan chan Event     // 带缓冲的事件通道
	wg        sync.WaitGroup // 用于优雅关闭
}

// 定义Worker池和通道的配置
const (
	DefaultWorkerCount = 4    // 默认启动4个后台Worker
	DefaultChannelSize = 1024 // 默认事件通道缓冲区大小
)

// NewEventBus 创建并启动一个新的事件总线
func NewEventBus() *EventBus {
	bus := &EventBus{
		handlers: make(map[Topic][]Handler),
		// 创建一个带缓冲的通道，避免Publish阻塞
		eventChan: make(chan Event, DefaultChannelSize),
	}
	bus.startWorkers(DefaultWorkerCount)
	return bus
}

// startWorkers 启动固定数量的后台worker
func (b *EventBus) startWorkers(count int) {
	for i := 0; i < count; i++ {
		b.wg.Add(1)
		go b.worker(i + 1)
	}
}

// worker 是消费者，不断从通道中读取并处理事件
func (b *EventBus) worker(workerID int) {
	defer b.wg.Done()
	log.Printf("[EventBus] Worker %d started", workerID)

	for event := range b.eventChan {
		b.mu.RLock()
		if handlers, ok := b.handlers[event.Topic]; ok {
			// 在worker的goroutine内顺序执行handler，限制并发
			for _, handler := range handlers {
				handler(event.Payload)
			}
		}
		b.mu.RUnlock()
	}
	log.Printf("[EventBus] Worker %d stopped", workerID)
}

// Subscribe 订阅一个事件
func (b *EventBus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish 发布一个事件。
// 非阻塞操作：通道已满时丢弃事件并打印警告，绝不阻塞主流程。
func (b *EventBus) Publish(topic Topic, payload interface{}) {
	event := Event{Topic: topic, Payload: payload}

	select {
	case b.eventChan <- event:
		// 事件成功放入通道
	default:
		// 如果通道已满，这是一个警告信号，说明后台处理不过来了
		log.Printf("[EventBus] WARN: Event channel is full. Dropping event for topic '%s'.", topic)
	}
}

// Shutdown 优雅地关闭事件总线
func (b *EventBus) Shutdown() {
	log.Println("[EventBus] Shutting down...")
	close(b.eventChan) // 关闭通道，这将使worker的range循环结束
	b.wg.Wait()        // 等待所有worker完成当前任务并退出
	log.Println("[EventBus] All workers have stopped.")
}
