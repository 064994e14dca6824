package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/debatify/go/internal/timer"
)

// DefaultSubject carries every timer snapshot.
const DefaultSubject = "debatify.timer.state"

const (
	natsMaxReconnects = -1
	natsReconnectWait = 2 * time.Second
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Source is the countdown being mirrored.
type Source interface {
	Subscribe(fn func(timer.State)) func()
}

// StateMessage is the payload published for out-of-process displays.
type StateMessage struct {
	Timer       timer.State `json:"timer"`
	Phase       timer.Phase `json:"phase"`
	PublishedAt time.Time   `json:"published_at"`
}

// NATSPublisher mirrors countdown snapshots onto a core NATS subject.
type NATSPublisher struct {
	conn    Conn
	subject string
	states  chan timer.State
}

// Connect dials NATS with the reconnect policy used across the app.
func Connect(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("debatify"),
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// NewNATSPublisher publishes on subject, or DefaultSubject when empty.
func NewNATSPublisher(conn Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		states:  make(chan timer.State, 64),
	}
}

// Run subscribes to src and publishes until ctx is done.
func (p *NATSPublisher) Run(ctx context.Context, src Source) {
	unsubscribe := src.Subscribe(func(s timer.State) {
		select {
		case p.states <- s:
		default:
			log.Warn().Str("subject", p.subject).Msg("publisher queue full, dropping timer state")
		}
	})
	defer unsubscribe()

	log.Info().Str("subject", p.subject).Msg("timer state publisher started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("subject", p.subject).Msg("timer state publisher stopped")
			return
		case s := <-p.states:
			if err := p.Publish(s); err != nil {
				log.Warn().Err(err).Str("subject", p.subject).Msg("failed to publish timer state")
			}
		}
	}
}

// Publish sends one snapshot.
func (p *NATSPublisher) Publish(s timer.State) error {
	data, err := json.Marshal(StateMessage{
		Timer:       s,
		Phase:       s.Phase(),
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal timer state: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}
