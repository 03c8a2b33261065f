package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/messaging"
	"github.com/serroba/shortly/internal/stats"
	"go.uber.org/zap"
)

// ConsumerGroupName is the redis stream consumer group of cmd/consumer.
const ConsumerGroupName = "shortly-stats"

// PublisherGroupPackage provides the redis stream publisher.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: do.MustInvoke[*redis.Client](i)},
			messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i)),
		)
		if err != nil {
			return nil, fmt.Errorf("create stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the consumers that apply stream events.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        do.MustInvoke[*redis.Client](i),
				ConsumerGroup: ConsumerGroupName,
			},
			messaging.NewZapLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create stream subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			stats.TopicHit,
			stats.NewHitHandler(do.MustInvoke[stats.Store](i)),
			logger.Named("stats"),
		))

		return group, nil
	})
}
