package broker

import (
	"errors"
	"log"

	"ascendia-notes/ascendia/config"

	"github.com/nats-io/nats.go"
)

var producer *nats.Conn

// ErrProducerNotInitialized is returned by PublishMessage when the broker
// connection was never established.
var ErrProducerNotInitialized = errors.New("nats producer is not initialized")

// InitProducer connects the publishing side of the broker. The application
// keeps running without it; callers degrade to warnings when nil.
func InitProducer(cfg config.Config) error {
	var err error
	producer, err = nats.Connect(cfg.NatsURL,
		nats.Name("ascendia-producer"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return err
	}
	log.Println("NATS producer initialized")
	return nil
}

// PublishMessage publishes a message to the given subject. The key travels in
// a header so consumers can route without unmarshalling the payload. The
// error is surfaced so outbox callers can hold a row back until the broker
// accepts it.
func PublishMessage(subject string, key string, value []byte) error {
	if producer == nil {
		return ErrProducerNotInitialized
	}

	msg := nats.NewMsg(subject)
	msg.Header.Set("Key", key)
	msg.Data = value

	return producer.PublishMsg(msg)
}

func CloseProducer() {
	if producer != nil {
		if err := producer.Drain(); err != nil {
			log.Printf("Failed to drain NATS producer: %v", err)
		}
		producer = nil
	}
}
