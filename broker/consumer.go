package broker

import (
	"log"
	"sync"

	"ascendia-notes/ascendia/config"

	"github.com/nats-io/nats.go"
)

// Message is the broker-agnostic shape handed to consumers.
type Message struct {
	Subject string
	Key     string
	Data    []byte
}

// Consumer subscribes to a set of subjects and exposes received messages on a
// channel.
type Consumer struct {
	conn     *nats.Conn
	subs     []*nats.Subscription
	messages chan *Message
	closed   bool
	mu       sync.Mutex
}

var (
	consumers   []*Consumer
	consumersMu sync.Mutex
)

// InitConsumer connects and subscribes to the given subjects. A non-empty
// queue group splits the workload across server instances; an empty group
// gives this instance its own copy of every message (fan-out).
func InitConsumer(cfg config.Config, subjects []string, queueGroup string) (*Consumer, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name("ascendia-consumer-"+queueGroup),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}

	c := &Consumer{
		conn:     conn,
		messages: make(chan *Message, 256),
	}

	// The mutex is held across the send so Close cannot close the channel
	// between the closed check and the send. The channel is buffered and the
	// hub drains it continuously, so the critical section stays short.
	handler := func(msg *nats.Msg) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		c.messages <- &Message{
			Subject: msg.Subject,
			Key:     msg.Header.Get("Key"),
			Data:    msg.Data,
		}
	}

	for _, subject := range subjects {
		var sub *nats.Subscription
		if queueGroup == "" {
			sub, err = conn.Subscribe(subject, handler)
		} else {
			sub, err = conn.QueueSubscribe(subject, queueGroup, handler)
		}
		if err != nil {
			c.Close()
			return nil, err
		}
		c.subs = append(c.subs, sub)
	}

	consumersMu.Lock()
	consumers = append(consumers, c)
	consumersMu.Unlock()

	log.Printf("NATS consumer started, listening to subjects: %v", subjects)
	return c, nil
}

// GetMessageChannel returns the channel delivering received messages.
func (c *Consumer) GetMessageChannel() chan *Message {
	return c.messages
}

// Close unsubscribes and drops the connection.
func (c *Consumer) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("Failed to unsubscribe: %v", err)
		}
	}
	c.conn.Close()
	close(c.messages)
}

// CloseAllConsumers shuts down every consumer opened through InitConsumer.
func CloseAllConsumers() {
	consumersMu.Lock()
	defer consumersMu.Unlock()
	for _, c := range consumers {
		c.Close()
	}
	consumers = nil
}
