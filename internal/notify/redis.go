package notify

import (
	"context"
	"strings"

	"github.com/mangli-store/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisNotifier 基于 Redis 发布/订阅的跨进程变更通知。
// 消息格式为 "<实例ID>|<键名>"，收到自己实例发出的消息时
// 仍按 origin 令牌过滤本地回声，其余照常分发
type RedisNotifier struct {
	client     *redis.Client
	channel    string
	instanceID string
	local      *Fanout
	cancel     context.CancelFunc
}

// NewRedisNotifier 创建并启动跨进程通知器
func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	if client == nil {
		return nil
	}
	if strings.TrimSpace(channel) == "" {
		channel = "mangli:storage-events"
	}
	ctx, cancel := context.WithCancel(context.Background())
	n := &RedisNotifier{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		local:      NewFanout(),
		cancel:     cancel,
	}
	go n.receive(ctx)
	return n
}

// Subscribe 注册回调
func (n *RedisNotifier) Subscribe(fn func(key string)) string {
	return n.local.Subscribe(fn)
}

// Unsubscribe 退订
func (n *RedisNotifier) Unsubscribe(token string) {
	n.local.Unsubscribe(token)
}

// Publish 将键名变更广播到 Redis 频道
func (n *RedisNotifier) Publish(key, origin string) {
	payload := n.instanceID + "|" + origin + "|" + key
	if err := n.client.Publish(context.Background(), n.channel, payload).Err(); err != nil {
		logger.Warnw("notify_publish_failed", "key", key, "error", err)
	}
}

// Close 停止订阅
func (n *RedisNotifier) Close() {
	if n != nil && n.cancel != nil {
		n.cancel()
	}
}

func (n *RedisNotifier) receive(ctx context.Context) {
	sub := n.client.Subscribe(ctx, n.channel)
	defer func() {
		_ = sub.Close()
	}()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			instanceID, origin, key := splitPayload(msg.Payload)
			if key == "" {
				continue
			}
			// 其它进程发来的消息没有本地订阅令牌，origin 置空即可
			if instanceID != n.instanceID {
				origin = ""
			}
			n.local.Publish(key, origin)
		}
	}
}

func splitPayload(payload string) (instanceID, origin, key string) {
	parts := strings.SplitN(payload, "|", 3)
	if len(parts) != 3 {
		return "", "", ""
	}
	return parts[0], parts[1], parts[2]
}
