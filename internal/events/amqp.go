package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

const publishTimeout = 5 * time.Second

// AMQP fans change events out over a RabbitMQ fanout exchange. Every
// subscriber gets its own exclusive queue, so each one sees every change.
type AMQP struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func DialAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()

		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQP{conn: conn, channel: channel, exchange: exchange}, nil
}

func (a *AMQP) Publish(ctx context.Context, change transaction.Change) error {
	body, err := encodeChange(change)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = a.channel.PublishWithContext(ctx,
		a.exchange,                          // exchange
		"transactions."+string(change.Kind), // routing key, ignored by fanout
		false,                               // mandatory
		false,                               // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   change.At,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish change: %w", err)
	}

	slog.DebugContext(ctx, "published change", "kind", change.Kind, "id", change.ID, "exchange", a.exchange)

	return nil
}

// Subscribe delivers changes until ctx is cancelled or the connection drops.
func (a *AMQP) Subscribe(ctx context.Context) (<-chan transaction.Change, error) {
	q, err := a.channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := a.channel.QueueBind(q.Name, "", a.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := a.channel.Consume(
		q.Name, // queue
		"",     // consumer
		true,   // auto-ack
		true,   // exclusive
		false,  // no-local
		false,  // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("start consuming: %w", err)
	}

	out := make(chan transaction.Change)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				change, err := decodeChange(d.Body)
				if err != nil {
					slog.Warn("dropping malformed change", "error", err)
					continue
				}

				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (a *AMQP) Close() error {
	if err := a.channel.Close(); err != nil {
		a.conn.Close()
		return fmt.Errorf("close channel: %w", err)
	}

	return a.conn.Close()
}
