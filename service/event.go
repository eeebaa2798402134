package service

import (
	"context"
	"time"

	"Pharmetix/config"
	"Pharmetix/models"
	"Pharmetix/pkg/log"
	mq "Pharmetix/pkg/rocketmq"
	"Pharmetix/types"

	"github.com/apache/rocketmq-client-go/v2"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// IOrderEventPublisher is called after the order transaction has committed.
// Publishing is best effort: failures are logged and never undo the order.
type IOrderEventPublisher interface {
	Publish(ctx context.Context, event *types.OrderEvent)
}

type MQOrderEventPublisher struct {
	Producer rocketmq.Producer
	Topic    string
}

func NewOrderEventPublisher(cfg *config.RocketMQConfig, producer rocketmq.Producer) IOrderEventPublisher {
	if producer == nil || cfg.OrderTopic == "" {
		return NopOrderEventPublisher{}
	}
	return &MQOrderEventPublisher{Producer: producer, Topic: cfg.OrderTopic}
}

func (p *MQOrderEventPublisher) Publish(ctx context.Context, event *types.OrderEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := mq.SendJSON(ctx, p.Producer, p.Topic, event.OrderNumber, event); err != nil {
		log.L.Error("publish order event",
			zap.String("type", event.Type),
			zap.Int64("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}

type NopOrderEventPublisher struct{}

func (NopOrderEventPublisher) Publish(context.Context, *types.OrderEvent) {}

func newOrderEvent(kind string, order *models.Order, status string) *types.OrderEvent {
	return &types.OrderEvent{
		Type:        kind,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Status:      status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	}
}
