// Package writequeue serializes write operations that share a key
// Package writequeue 串行化同一个键上的写操作
//
// Presence joins for one todo list run through the list's queue so the
// capacity check and the participant upsert never interleave.
// 同一清单的加入操作经过该清单的队列，容量检查与参与者写入不会交错执行。
package writequeue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull returned when the key's queue is full
	// ErrWriteQueueFull 当键对应的写队列已满时返回
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed returned when the manager is closed
	// ErrWriteQueueClosed 当写队列管理器已关闭时返回
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout returned when the operation did not finish in time
	// ErrWriteTimeout 当写操作超时时返回
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity per key queue capacity, default 100
	// QueueCapacity 每个键的队列容量，默认 100
	QueueCapacity int
	// WriteTimeout operation timeout, default 30 seconds
	// WriteTimeout 写操作超时时间，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout idle queues are released after this long, default 10 minutes
	// IdleTimeout 空闲队列释放时间，默认 10 分钟
	IdleTimeout time.Duration
}

// DefaultConfig returns default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

type keyQueue struct {
	ch       chan writeOp
	lastUsed time.Time
	stopCh   chan struct{}
	done     chan struct{}
}

// Manager owns one queue per key, created lazily
// Manager 为每个键懒加载一个队列
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	queues map[int64]*keyQueue
	closed bool

	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

// New creates write queue manager, nil cfg means DefaultConfig
// New 创建写队列管理器，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config:      c,
		logger:      logger,
		queues:      make(map[int64]*keyQueue),
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Execute runs fn on key's queue and waits for its result
// Operations on the same key run one at a time in FIFO order
// Execute 在键对应的队列上执行 fn 并等待结果
// 同一个键的操作按 FIFO 顺序逐个执行
func (m *Manager) Execute(ctx context.Context, key int64, fn func() error) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrWriteQueueClosed
	}
	q, ok := m.queues[key]
	if !ok {
		q = &keyQueue{
			ch:     make(chan writeOp, m.config.QueueCapacity),
			stopCh: make(chan struct{}),
			done:   make(chan struct{}),
		}
		m.queues[key] = q
		go m.worker(q)
	}
	q.lastUsed = time.Now()

	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1)}
	select {
	case q.ch <- op:
	default:
		m.mu.Unlock()
		return ErrWriteQueueFull
	}
	m.mu.Unlock()

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	}
}

func (m *Manager) worker(q *keyQueue) {
	defer close(q.done)
	for {
		select {
		case op := <-q.ch:
			m.run(op)
		case <-q.stopCh:
			// drain what was accepted before the stop
			for {
				select {
				case op := <-q.ch:
					m.run(op)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) run(op writeOp) {
	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}
	op.result <- op.fn()
}

func (m *Manager) cleanupLoop() {
	defer close(m.cleanupDone)
	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCleanup:
			return
		case <-ticker.C:
			m.cleanup(time.Now())
		}
	}
}

func (m *Manager) cleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, q := range m.queues {
		if len(q.ch) == 0 && now.Sub(q.lastUsed) > m.config.IdleTimeout {
			close(q.stopCh)
			delete(m.queues, key)
			m.logger.Debug("write queue released", zap.Int64("key", key))
		}
	}
}

// QueueCount returns current queue count
// QueueCount 返回当前队列数量
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

// Shutdown stops accepting work and waits for queued operations to finish
// Shutdown 停止接收新操作并等待已排队的操作完成
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	queues := make([]*keyQueue, 0, len(m.queues))
	for key, q := range m.queues {
		close(q.stopCh)
		queues = append(queues, q)
		delete(m.queues, key)
	}
	m.mu.Unlock()

	close(m.stopCleanup)

	done := make(chan struct{})
	go func() {
		for _, q := range queues {
			<-q.done
		}
		<-m.cleanupDone
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}
