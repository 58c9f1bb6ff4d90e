package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"jobnest_backend/internal/logger"

	"github.com/hashicorp/go-multierror"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "jobnest.push"

// AMQPBroker публикует события в fanout exchange. Каждый инстанс читает
// свою exclusive очередь и доставляет события в локальный хаб
type AMQPBroker struct {
	hub      *Hub
	exchange string

	conn    *amqp.Connection
	publish *amqp.Channel
	consume *amqp.Channel
	queue   string

	mu sync.Mutex // amqp.Channel не потокобезопасен на публикацию
}

func DialAMQP(url, exchange string, hub *Hub) (*AMQPBroker, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	b := &AMQPBroker{hub: hub, exchange: exchange, conn: conn}
	if err := b.setup(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	logger.Info("RabbitMQ broker connected", "exchange", exchange, "queue", b.queue)
	return b, nil
}

func (b *AMQPBroker) setup() error {
	var err error
	if b.publish, err = b.conn.Channel(); err != nil {
		return fmt.Errorf("rabbitmq publish channel: %w", err)
	}
	if b.consume, err = b.conn.Channel(); err != nil {
		return fmt.Errorf("rabbitmq consume channel: %w", err)
	}

	if err := b.publish.ExchangeDeclare(
		b.exchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	q, err := b.consume.QueueDeclare(
		"",    // имя генерирует сервер
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	if err := b.consume.QueueBind(q.Name, "", b.exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue bind: %w", err)
	}
	b.queue = q.Name
	return nil
}

func (b *AMQPBroker) Publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.publish.PublishWithContext(ctx, b.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (b *AMQPBroker) Run(ctx context.Context) error {
	msgs, err := b.consume.Consume(b.queue, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			var env Envelope
			if err := json.Unmarshal(d.Body, &env); err != nil {
				logger.Warn("Invalid push envelope from broker", "error", err.Error())
				continue
			}
			deliverEnvelope(b.hub, env)
		}
	}
}

func (b *AMQPBroker) Close() error {
	var result *multierror.Error
	for _, ch := range []*amqp.Channel{b.consume, b.publish} {
		if ch != nil {
			if err := ch.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	if err := b.conn.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
