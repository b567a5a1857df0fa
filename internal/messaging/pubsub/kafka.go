package pubsub

import (
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// NewKafkaBus creates a bus backed by Kafka through Sarama. Each Consume call
// joins its own consumer group, starting from the oldest offset on first join.
func NewKafkaBus(brokers []string, logger *slog.Logger) (*Bus, error) {
	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := kafka.NewWithPartitioningMarshaler(func(topic string, msg *message.Message) (string, error) {
		return msg.Metadata.Get(KeyMetadata), nil
	})

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: marshaler,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &Bus{
		publisher: publisher,
		newSubscriber: func(groupID string) (message.Subscriber, error) {
			saramaCfg := kafka.DefaultSaramaSubscriberConfig()
			saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

			sub, err := kafka.NewSubscriber(kafka.SubscriberConfig{
				Brokers:               brokers,
				Unmarshaler:           marshaler,
				OverwriteSaramaConfig: saramaCfg,
				ConsumerGroup:         groupID,
			}, wmLogger)
			if err != nil {
				return nil, fmt.Errorf("failed to create kafka subscriber for group %s: %w", groupID, err)
			}
			return sub, nil
		},
	}, nil
}
