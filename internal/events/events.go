// Package events publishes best-effort audit events to NATS JetStream.
// Publication is optional infrastructure: a nil *Publisher is valid and every
// method on it is a no-op, so the platform runs unchanged without a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/pkg/logger"
)

const (
	// StreamName is the name of the audit stream.
	StreamName = "AUDIT"

	// SubjectPrefix is the prefix for all audit subjects.
	SubjectPrefix = "audit"
)

// Config holds NATS connection configuration.
type Config struct {
	URL   string
	Token string
}

// SearchEvent records one completed topic lookup.
type SearchEvent struct {
	ID      string        `json:"id"`
	UserID  int64         `json:"user_id"`
	Topic   string        `json:"topic"`
	Feature model.Feature `json:"feature"`
	At      time.Time     `json:"at"`
}

// TurnEvent records one completed conversation turn.
type TurnEvent struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"user_id"`
	ConversationID int64     `json:"conversation_id"`
	At             time.Time `json:"at"`
}

// Publisher publishes audit events to JetStream.
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logger.Logger
}

// Connect establishes a NATS connection and ensures the audit stream exists.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &Publisher{conn: nc, js: js, logger: log}
	if err := p.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, err
	}
	return p, nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}

func (p *Publisher) ensureStream(ctx context.Context) error {
	if _, err := p.js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Topic platform audit events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// SearchRecorded publishes a search audit event. Failures are logged, never
// surfaced to the caller.
func (p *Publisher) SearchRecorded(ctx context.Context, userID int64, topic string, feature model.Feature) {
	if p == nil {
		return
	}
	subject := fmt.Sprintf("%s.search.%s", SubjectPrefix, feature)
	p.publish(ctx, subject, SearchEvent{
		ID:      uuid.New().String(),
		UserID:  userID,
		Topic:   topic,
		Feature: feature,
		At:      time.Now(),
	})
}

// ConversationTurn publishes a conversation-turn audit event.
func (p *Publisher) ConversationTurn(ctx context.Context, userID, conversationID int64) {
	if p == nil {
		return
	}
	subject := fmt.Sprintf("%s.conversation.turn", SubjectPrefix)
	p.publish(ctx, subject, TurnEvent{
		ID:             uuid.New().String(),
		UserID:         userID,
		ConversationID: conversationID,
		At:             time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, subject string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to marshal audit event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		p.logger.Warn("failed to publish audit event", zap.String("subject", subject), zap.Error(err))
	}
}
