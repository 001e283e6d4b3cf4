package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"nearby-places/internal/logger"
	"nearby-places/internal/models"
	"nearby-places/internal/scheduler"

	"github.com/rs/zerolog"
)

// User-facing texts for the two non-success outcomes.
const (
	EmptyMessage       = "No named POIs here."
	UnavailableMessage = "Overpass did not respond (rate-limited)."
)

// Outbound message types.
const (
	MessageLoading = "loading"
	MessagePlaces  = "places"
	MessageEmpty   = "empty"
	MessageError   = "error"
)

// Message is one server to client update of a live session.
type Message struct {
	Type    string         `json:"type"`
	Seq     uint64         `json:"seq"`
	Places  []models.Place `json:"places,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Emitter delivers messages to the client.
type Emitter interface {
	Emit(Message) error
}

// Nearby is the part of PlacesService a live session needs.
type Nearby interface {
	Nearby(ctx context.Context, req NearbyRequest) (models.RenderModel, error)
}

// Live drives one client session: it debounces viewport moves, issues one
// fetch per trigger and drops answers that were overtaken by a newer fetch.
type Live struct {
	svc      Nearby
	emit     Emitter
	debounce *scheduler.Debouncer
	log      zerolog.Logger

	mu      sync.Mutex
	session *Session
	seq     Sequencer
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closed  bool

	sendMu   sync.Mutex
	silenced bool
}

// NewLive creates a live session runner.
func NewLive(svc Nearby, emit Emitter, session *Session, debounce time.Duration) *Live {
	return &Live{
		svc:      svc,
		emit:     emit,
		debounce: scheduler.NewDebouncer(debounce),
		session:  session,
		log:      logger.Named("session").With().Str("session_id", session.ID).Logger(),
	}
}

// Locate applies the geolocation outcome and fetches immediately.
func (l *Live) Locate(lat, lon float64, denied bool) {
	l.mu.Lock()
	l.session.Locate(lat, lon, denied)
	l.mu.Unlock()
	l.Refresh()
}

// Filter switches category and fetches immediately.
func (l *Live) Filter(key string) error {
	l.mu.Lock()
	err := l.session.SetFilter(key)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.Refresh()
	return nil
}

// Move records a viewport change. The fetch fires once the viewport has
// settled, and only if it moved past the threshold or changed zoom.
func (l *Live) Move(view models.BoundingBox, zoom int) {
	l.mu.Lock()
	l.session.View = view
	l.session.Zoom = zoom
	l.mu.Unlock()

	l.debounce.Trigger(func() {
		l.mu.Lock()
		moved := l.session.Move(view, zoom)
		l.mu.Unlock()
		if moved {
			l.Refresh()
		}
	})
}

// Refresh starts a fetch for the current session state, superseding any fetch in flight.
func (l *Live) Refresh() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	req := l.session.Request()
	seq := l.seq.Next()
	l.wg.Add(1)
	l.mu.Unlock()

	l.send(Message{Type: MessageLoading, Seq: seq})

	go func() {
		defer l.wg.Done()
		defer cancel()

		result, err := l.svc.Nearby(ctx, req)
		if !l.seq.IsLatest(seq) {
			l.log.Debug().Uint64("seq", seq).Msg("dropping superseded response")
			return
		}

		switch {
		case err != nil:
			l.log.Warn().Err(err).Uint64("seq", seq).Msg("fetch failed")
			msg := UnavailableMessage
			if !errors.Is(err, models.ErrSourceUnavailable) {
				msg = err.Error()
			}
			l.send(Message{Type: MessageError, Seq: seq, Message: msg})
		case result.Empty():
			l.send(Message{Type: MessageEmpty, Seq: seq, Message: EmptyMessage})
		default:
			l.send(Message{Type: MessagePlaces, Seq: seq, Places: result.Places})
		}
	}()
}

// Close stops pending timers, cancels the fetch in flight and waits for it.
// Nothing is emitted after Close returns.
func (l *Live) Close() {
	l.debounce.Stop()
	l.mu.Lock()
	l.closed = true
	l.seq.Next()
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()

	// waits out an emit that passed its sequence check before the bump above
	l.sendMu.Lock()
	l.silenced = true
	l.sendMu.Unlock()
	l.wg.Wait()
}

// send emits m unless a newer fetch was issued meanwhile. It must not be
// called with mu held.
func (l *Live) send(m Message) {
	l.sendMu.Lock()
	defer l.sendMu.Unlock()
	if l.silenced || !l.seq.IsLatest(m.Seq) {
		return
	}
	if err := l.emit.Emit(m); err != nil {
		l.log.Debug().Err(err).Str("type", m.Type).Msg("emit failed")
	}
}
