package services

import (
	"log"
	"time"

	"ascendia-notes/ascendia/broker"
	"ascendia-notes/ascendia/database"
	"ascendia-notes/ascendia/models"
)

// EventDispatcherService drains the outbox: every mutation writes an Event
// row in its own transaction, and this service publishes pending rows to the
// broker. A crash between commit and publish only delays the event, it never
// loses it.
type EventDispatcherServiceInterface interface {
	Start()
	Stop()
	DispatchPending() (int, error)
}

type EventDispatcherService struct {
	db       *database.Database
	interval time.Duration
	stopChan chan struct{}
	publish  func(subject string, key string, value []byte) error
}

const dispatchBatchSize = 100

func NewEventDispatcherService(db *database.Database) *EventDispatcherService {
	return &EventDispatcherService{
		db:       db,
		interval: time.Second,
		stopChan: make(chan struct{}),
		publish:  broker.PublishMessage,
	}
}

func (s *EventDispatcherService) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.DispatchPending(); err != nil {
					log.Printf("Event dispatch failed: %v", err)
				}
			case <-s.stopChan:
				return
			}
		}
	}()
	log.Println("Event dispatcher started")
}

func (s *EventDispatcherService) Stop() {
	close(s.stopChan)
	log.Println("Event dispatcher stopped")
}

// DispatchPending publishes a batch of undispatched events in timestamp order
// and marks each one dispatched only after the broker accepts it. A row whose
// publish fails stays pending and is retried on the next tick. Returns how
// many were published.
func (s *EventDispatcherService) DispatchPending() (int, error) {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).
		Order("timestamp ASC").
		Limit(dispatchBatchSize).
		Find(&events).Error; err != nil {
		return 0, err
	}

	dispatched := 0
	for i := range events {
		event := &events[i]
		payload, err := event.ToJSON()
		if err != nil {
			log.Printf("Skipping undispatchable event %s: %v", event.ID, err)
			continue
		}

		if err := s.publish(broker.SubjectForEntity(event.Entity), event.ActorID, payload); err != nil {
			log.Printf("Failed to publish event %s: %v", event.ID, err)
			continue
		}

		now := time.Now().UTC()
		if err := s.db.DB.Model(event).Updates(map[string]interface{}{
			"dispatched":    true,
			"dispatched_at": now,
		}).Error; err != nil {
			return dispatched, err
		}
		dispatched++
	}

	return dispatched, nil
}

var EventDispatcherServiceInstance EventDispatcherServiceInterface
