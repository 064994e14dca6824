package gateway

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/debatify/go/internal/timer"
	"github.com/mcdev12/debatify/go/internal/timer/view"
)

func TestHandleBroadcast_EncodeFailureSkipsOnlyThatView(t *testing.T) {
	svc := timer.NewEphemeral()
	t.Cleanup(svc.Close)
	cm := NewConnectionManager(svc, DefaultConnectionConfig())

	newConn := func(id string) *Connection {
		c := &Connection{
			ID:        id,
			Send:      make(chan []byte, 1),
			Manager:   cm,
			Indicator: view.NewIndicator(svc),
			Panel:     view.NewPanel(svc),
		}
		cm.registerConnection(c)
		return c
	}
	bad := newConn("bad")
	bad.Indicator.Toggle()
	first := newConn("first")
	second := newConn("second")

	cm.encode = func(s timer.State, ind view.IndicatorView, at time.Time) ([]byte, error) {
		if ind.Expanded {
			return nil, errors.New("encode failed")
		}
		return newStateEvent(s, ind, at)
	}

	cm.handleBroadcast(timer.State{Remaining: 42, Preset: 60})

	for _, c := range []*Connection{first, second} {
		select {
		case data := <-c.Send:
			assert.Contains(t, string(data), `"remaining_seconds":42`, c.ID)
		default:
			t.Fatalf("connection %s got no update", c.ID)
		}
	}
	assert.Empty(t, bad.Send)
	require.Equal(t, 3, cm.GetConnectionStats().TotalConnections, "encode failures do not drop the view")
}
