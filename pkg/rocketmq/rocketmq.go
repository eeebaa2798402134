package rocketmq

import (
	"context"
	"encoding/json"

	"Pharmetix/config"
	"Pharmetix/pkg/log"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

// InitProducer returns a nil producer when no name server is configured.
func InitProducer(cfg *config.RocketMQConfig) (rocketmq.Producer, func(), error) {
	if cfg == nil || len(cfg.NameServer) == 0 {
		log.L.Warn("rocketmq not configured, order events disabled")
		return nil, func() {}, nil
	}
	retry := cfg.Producer.Retry
	if retry <= 0 {
		retry = 2
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(retry),
	)
	if err != nil {
		return nil, nil, err
	}
	if err = p.Start(); err != nil {
		return nil, nil, err
	}
	log.L.Info("init producer success", zap.Strings("nameserver", cfg.NameServer))

	cleanup := func() {
		if err := p.Shutdown(); err != nil {
			log.L.Error("shutdown producer", zap.Error(err))
		}
	}
	return p, cleanup, nil
}

// SendJSON 同步发送一条 json 消息，key 用于控制台按业务号检索
func SendJSON(ctx context.Context, p rocketmq.Producer, topic, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := primitive.NewMessage(topic, body)
	if key != "" {
		msg.WithKeys([]string{key})
	}

	res, err := p.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Debug("send message success", zap.String("topic", topic), zap.String("msg_id", res.MsgID))
	return nil
}
