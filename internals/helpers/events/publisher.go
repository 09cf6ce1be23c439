// file: internals/helpers/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	ImagesUploaded   = "initiative.images.uploaded"
	ImageDeleted     = "initiative.image.deleted"
	PrimaryChanged   = "initiative.image.primary_changed"
	CountersRepaired = "initiative.counters.repaired"
)

type Event struct {
	Type         string    `json:"type"`
	InitiativeID string    `json:"initiative_id"`
	ImageIDs     []string  `json:"image_ids,omitempty"`
	FilePaths    []string  `json:"file_paths,omitempty"`
	ImagesCount  int       `json:"images_count"`
	PrimaryURL   *string   `json:"primary_image_url"`
	At           time.Time `json:"at"`
}

// Publisher is notified after a workflow commits.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

// Publish keys messages by initiative so one initiative's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.InitiativeID),
		Value: body,
	})
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
