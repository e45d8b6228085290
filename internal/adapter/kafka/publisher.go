package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/couchcryptid/weather-now/internal/lookup"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	defaultBufferSize = 64
	// drainTimeout bounds how long Run flushes buffered events after its context ends.
	drainTimeout = 5 * time.Second
)

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// LookupEvent is the JSON payload published for every finished lookup.
type LookupEvent struct {
	LookupID string           `json:"lookup_id"`
	Query    string           `json:"query"`
	Phase    domain.Phase     `json:"phase"`
	Reason   domain.Reason    `json:"reason,omitempty"`
	Message  string           `json:"message,omitempty"`
	Location *domain.Location `json:"location,omitempty"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	At       time.Time        `json:"at"`
}

// Publisher streams finished lookups to a Kafka topic. Listen is registered
// with a lookup.Session; Run drains the buffer until its context is done.
type Publisher struct {
	writer       messageWriter
	events       chan LookupEvent
	logger       *slog.Logger
	drainTimeout time.Duration
}

// NewPublisher creates a Kafka producer for the lookup topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, defaultBufferSize, logger)
}

func newPublisher(w messageWriter, bufferSize int, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer:       w,
		events:       make(chan LookupEvent, bufferSize),
		logger:       logger,
		drainTimeout: drainTimeout,
	}
}

// Listen enqueues finished lookups. Loading and Idle transitions are skipped.
// It never blocks; events are dropped when the buffer is full.
func (p *Publisher) Listen(t lookup.Transition) {
	ev, ok := eventFromTransition(t)
	if !ok {
		return
	}
	select {
	case p.events <- ev:
	default:
		p.logger.Warn("lookup event buffer full, dropping event", "lookup_id", t.LookupID)
	}
}

// Run publishes buffered events until ctx is cancelled, then flushes what is
// still buffered within drainTimeout. Events that cannot be flushed are
// counted and logged.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.drain(context.WithoutCancel(ctx))
			return nil
		case ev := <-p.events:
			if err := p.publish(ctx, ev); err != nil {
				if ctx.Err() != nil {
					p.drain(context.WithoutCancel(ctx), ev)
					return nil
				}
				p.logger.Error("publish lookup event failed", "lookup_id", ev.LookupID, "error", err)
			}
		}
	}
}

// drain publishes pending, then everything still buffered.
func (p *Publisher) drain(ctx context.Context, pending ...LookupEvent) {
	ctx, cancel := context.WithTimeout(ctx, p.drainTimeout)
	defer cancel()

	var flushed, dropped int
	flush := func(ev LookupEvent) {
		if ctx.Err() == nil && p.publish(ctx, ev) == nil {
			flushed++
		} else {
			dropped++
		}
	}
	for _, ev := range pending {
		flush(ev)
	}
	// Run is the only receiver, so a non-zero len is always receivable.
	for len(p.events) > 0 {
		flush(<-p.events)
	}

	if dropped > 0 {
		p.logger.Warn("dropped buffered lookup events on shutdown", "dropped", dropped, "flushed", flushed)
	} else if flushed > 0 {
		p.logger.Info("flushed buffered lookup events on shutdown", "flushed", flushed)
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, ev LookupEvent) error {
	msg, err := serializeToMessage(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func eventFromTransition(t lookup.Transition) (LookupEvent, bool) {
	ev := LookupEvent{
		LookupID: t.LookupID,
		Query:    t.Query,
		Phase:    t.State.Phase(),
		At:       t.At.UTC(),
	}
	switch s := t.State.(type) {
	case domain.Success:
		ev.Location = &s.Location
		ev.Snapshot = &s.Snapshot
	case domain.Failed:
		ev.Reason = s.Reason
		ev.Message = s.Message
	default:
		return LookupEvent{}, false
	}
	return ev, true
}

// serializeToMessage marshals a LookupEvent into a Kafka message keyed by query
// so lookups for one city land on one partition.
func serializeToMessage(ev LookupEvent) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lookup event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.Query),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "lookup_id", Value: []byte(ev.LookupID)},
			{Key: "phase", Value: []byte(ev.Phase)},
			{Key: "published_at", Value: []byte(ev.At.Format(time.RFC3339))},
		},
	}, nil
}
