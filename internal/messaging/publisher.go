package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// DefaultExchange - topic exchange для событий историй.
	DefaultExchange = "story_wall.events"
	// RoutingKeyStoryCompleted - ключ маршрутизации событий story.completed.
	RoutingKeyStoryCompleted = "story.completed"

	publishTimeout = 10 * time.Second
	appID          = "story-wall"
)

var errChannelClosed = errors.New("канал RabbitMQ не инициализирован")

// rabbitMQPublisher публикует события историй в durable topic exchange.
type rabbitMQPublisher struct {
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

var _ interfaces.StoryEventPublisher = (*rabbitMQPublisher)(nil)

// NewRabbitMQPublisher открывает канал на conn и объявляет exchange.
func NewRabbitMQPublisher(conn *amqp.Connection, exchange string, logger *zap.Logger) (interfaces.StoryEventPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("story event publisher: не удалось открыть канал: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		ch.Close()
		return nil, fmt.Errorf("story event publisher: не удалось объявить exchange '%s': %w", exchange, err)
	}
	logger.Info("Story event publisher initialised", zap.String("exchange", exchange))
	return &rabbitMQPublisher{channel: ch, exchange: exchange, logger: logger.Named("StoryEventPublisher")}, nil
}

// PublishStoryCompleted публикует событие story.completed.
func (p *rabbitMQPublisher) PublishStoryCompleted(ctx context.Context, event models.StoryCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации StoryCompletedEvent для story %s: %w", event.StoryID, err)
	}
	if err := p.publish(ctx, RoutingKeyStoryCompleted, body); err != nil {
		p.logger.Error("Failed to publish story completed event", zap.String("storyID", event.StoryID.String()), zap.Error(err))
		return fmt.Errorf("ошибка публикации StoryCompletedEvent для story %s: %w", event.StoryID, err)
	}
	p.logger.Debug("Story completed event published", zap.String("storyID", event.StoryID.String()))
	return nil
}

func (p *rabbitMQPublisher) publish(ctx context.Context, routingKey string, body []byte) error {
	if p.channel == nil || p.channel.IsClosed() {
		return errChannelClosed
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			AppId:        appID,
		},
	)
}

func (p *rabbitMQPublisher) Close() error {
	if p.channel == nil {
		return nil
	}
	return p.channel.Close()
}

// nopPublisher используется, когда брокер не настроен.
type nopPublisher struct {
	logger *zap.Logger
}

// NewNopPublisher возвращает издателя, который только логирует события.
func NewNopPublisher(logger *zap.Logger) interfaces.StoryEventPublisher {
	return nopPublisher{logger: logger.Named("StoryEventPublisher")}
}

func (n nopPublisher) PublishStoryCompleted(_ context.Context, event models.StoryCompletedEvent) error {
	n.logger.Debug("Broker not configured, story completed event dropped", zap.String("storyID", event.StoryID.String()))
	return nil
}

func (nopPublisher) Close() error { return nil }
