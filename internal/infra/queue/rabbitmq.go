package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.followups"
	QueueName    = "q.regenerations"
	DLQName      = "q.regenerations.dlq"
	DLXName      = "ex.dlx"
	RoutingKey   = "k.regeneration"
)

// RabbitMQ holds one connection with separate channels for consuming (Ch)
// and publishing (PubCh). An amqp channel must not be shared between
// goroutines that publish and consume.
type RabbitMQ struct {
	Conn  *amqp.Connection
	Ch    *amqp.Channel
	PubCh *amqp.Channel
}

type channelOpener interface {
	Channel() (*amqp.Channel, error)
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, pubCh, err := openChannels(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := setupTopology(ch); err != nil {
		pubCh.Close()
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch, PubCh: pubCh}, nil
}

func openChannels(conn channelOpener) (consume, publish *amqp.Channel, err error) {
	consume, err = conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open consumer channel: %w", err)
	}
	publish, err = conn.Channel()
	if err != nil {
		consume.Close()
		return nil, nil, fmt.Errorf("failed to open publisher channel: %w", err)
	}
	return consume, publish, nil
}

func (r *RabbitMQ) Close() {
	if r.PubCh != nil {
		r.PubCh.Close()
	}
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}

// setupTopology declares the work queue and its dead-letter queue.
func setupTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(DLQName, RoutingKey, DLXName, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKey,
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, args); err != nil {
		return err
	}
	return ch.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil)
}
