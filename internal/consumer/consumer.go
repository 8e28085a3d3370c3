package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"github.com/Gopher0727/LinkUp/internal/notify"
	"github.com/Gopher0727/LinkUp/internal/ws"
)

// NotificationConsumer 消费其他节点转发的事件信封，投递给本节点的连接
// 每个节点用独立的消费者组订阅全量事件，目标用户不在本节点就丢弃
type NotificationConsumer struct {
	hub *ws.Hub
}

func NewNotificationConsumer(hub *ws.Hub) *NotificationConsumer {
	return &NotificationConsumer{hub: hub}
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (consumer *NotificationConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (consumer *NotificationConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (consumer *NotificationConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var env notify.Envelope
		if err := json.Unmarshal(message.Value, &env); err != nil {
			log.Printf("反序列化事件信封失败: %v", err)
			session.MarkMessage(message, "")
			continue
		}

		// 用户不在本节点在线时 Send 返回 false，事件直接丢弃
		consumer.hub.Send(env.UserID, env.Event, env.Payload)

		session.MarkMessage(message, "")
	}
	return nil
}

func StartConsumer(brokers []string, groupID string, topic string, consumer *NotificationConsumer) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	client, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		log.Fatalf("创建消费者组客户端失败: %v", err)
	}

	ctx := context.Background()
	go func() {
		for {
			if err := client.Consume(ctx, []string{topic}, consumer); err != nil {
				log.Printf("消费者错误: %v", err)
			}
			// check if context was cancelled, signaling that the consumer should stop
			if ctx.Err() != nil {
				return
			}
		}
	}()
}
