package redis

import "context"

// EventBus 把 Redis Pub/Sub 封装为投递流水线的输出通道，
// 实时网关作为独立消费者订阅对应频道
type EventBus struct{}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (s *EventBus) Publish(ctx context.Context, channel string, payload []byte) error {
	return Publish(ctx, channel, payload)
}
