// Package safe_close coordinates graceful shutdown of attached workers
// Package safe_close 协调已挂载工作协程的优雅关闭
package safe_close

import (
	"sync"
)

// SafeClose broadcasts one close signal to every attached worker and waits for them
// SafeClose 向所有挂载的工作协程广播一次关闭信号并等待其退出
type SafeClose struct {
	once    sync.Once
	mu      sync.Mutex
	wg      sync.WaitGroup
	closeCh chan struct{}
	err     error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeCh: make(chan struct{})}
}

// Attach runs fn in its own goroutine, fn must call done when it returns
// Attach 在独立协程中运行 fn，fn 退出时必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go fn(s.wg.Done, s.closeCh)
}

// SendCloseSignal closes the signal channel once, the first non-nil err is kept
// SendCloseSignal 只关闭一次信号通道，保留第一个非空错误
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if s.err == nil && err != nil {
		s.err = err
	}
	s.mu.Unlock()
	s.once.Do(func() { close(s.closeCh) })
}

// Done returns the close signal channel
func (s *SafeClose) Done() <-chan struct{} {
	return s.closeCh
}

// WaitClosed blocks until every attached worker has called done
// WaitClosed 阻塞直到所有工作协程调用 done
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
