package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

const amqpExchange = "order_events"

// AMQPEmitter publishes events to a durable fanout exchange so external
// consumers (printers, pagers, other services) can follow the floor.
type AMQPEmitter struct {
	mu      sync.Mutex
	url     string
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewAMQPEmitter(url string) (*AMQPEmitter, error) {
	e := &AMQPEmitter{url: url}
	if err := e.connect(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *AMQPEmitter) connect() error {
	conn, err := amqp091.Dial(e.url)
	if err != nil {
		return err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := channel.ExchangeDeclare(
		amqpExchange, "fanout",
		true, false, false, false, nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return err
	}
	e.conn = conn
	e.channel = channel
	return nil
}

type amqpEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (e *AMQPEmitter) Publish(eventType string, payload interface{}) {
	body, err := json.Marshal(amqpEnvelope{Event: eventType, Data: payload})
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to marshal %s event: %v", eventType, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn == nil || e.conn.IsClosed() {
		if err := e.connect(); err != nil {
			utils.ErrorLogger.Errorf("RabbitMQ reconnect failed, dropping %s event: %v", eventType, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = e.channel.PublishWithContext(ctx,
		amqpExchange, eventType,
		false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to publish %s event: %v", eventType, err)
	}
}

func (e *AMQPEmitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.channel != nil {
		e.channel.Close()
	}
	if e.conn != nil {
		return e.conn.Close()
	}
	return nil
}
