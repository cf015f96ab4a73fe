package notify

import (
	"sync"

	"github.com/google/uuid"
)

// ChangeNotifier 存储变更通知接口。一个执行上下文写入某个逻辑键后
// 广播该键名，其它订阅方据此整体重读自己的状态（后写覆盖先写）。
// origin 传发布方自己的订阅令牌，避免收到自己的回声
type ChangeNotifier interface {
	// Subscribe 注册回调，返回用于退订的令牌
	Subscribe(fn func(key string)) string
	// Unsubscribe 退订
	Unsubscribe(token string)
	// Publish 广播某个键已变更
	Publish(key, origin string)
}

// Fanout 进程内变更通知实现
type Fanout struct {
	mu   sync.RWMutex
	subs map[string]func(key string)
}

// NewFanout 创建进程内通知器
func NewFanout() *Fanout {
	return &Fanout{subs: make(map[string]func(key string))}
}

// Subscribe 注册回调
func (f *Fanout) Subscribe(fn func(key string)) string {
	if fn == nil {
		return ""
	}
	token := uuid.NewString()
	f.mu.Lock()
	f.subs[token] = fn
	f.mu.Unlock()
	return token
}

// Unsubscribe 退订
func (f *Fanout) Unsubscribe(token string) {
	f.mu.Lock()
	delete(f.subs, token)
	f.mu.Unlock()
}

// Publish 同步回调除发布方之外的所有订阅者
func (f *Fanout) Publish(key, origin string) {
	f.mu.RLock()
	fns := make([]func(key string), 0, len(f.subs))
	for token, fn := range f.subs {
		if token == origin {
			continue
		}
		fns = append(fns, fn)
	}
	f.mu.RUnlock()
	for _, fn := range fns {
		fn(key)
	}
}
