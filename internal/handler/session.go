package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"nearby-places/internal/geo"
	"nearby-places/internal/models"
	"nearby-places/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// Client message types
const (
	ClientLocate = "locate"
	ClientMove   = "move"
	ClientFilter = "filter"
)

// ClientMessage is one client to server event of a live session
type ClientMessage struct {
	Type     string    `json:"type"`
	Lat      float64   `json:"lat,omitempty"`
	Lon      float64   `json:"lon,omitempty"`
	Denied   bool      `json:"denied,omitempty"`
	Zoom     int       `json:"zoom,omitempty"`
	BBox     []float64 `json:"bbox,omitempty"`
	Category string    `json:"category,omitempty"`
}

// SessionConfig carries what each live session starts with
type SessionConfig struct {
	Defaults service.SessionDefaults
	Debounce time.Duration
	// AllowedOrigins lists the cross-site origins that may open a session.
	// Empty keeps gorilla's same-origin check.
	AllowedOrigins []string
}

// SessionHandler upgrades GET /session to a WebSocket live session
type SessionHandler struct {
	service  service.Nearby
	cfg      SessionConfig
	upgrader websocket.Upgrader
}

// NewSessionHandler creates a new live session handler
func NewSessionHandler(svc service.Nearby, cfg SessionConfig) *SessionHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if len(cfg.AllowedOrigins) > 0 {
		upgrader.CheckOrigin = originChecker(cfg.AllowedOrigins)
	}
	return &SessionHandler{
		service:  svc,
		cfg:      cfg,
		upgrader: upgrader,
	}
}

// originChecker accepts requests without an Origin header, same-host origins
// and the listed ones. "*" allows any origin.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := set["*"]; ok {
			return true
		}
		if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// wsEmitter serializes writes; gorilla connections allow one concurrent writer
type wsEmitter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (e *wsEmitter) Emit(m service.Message) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return e.conn.WriteJSON(m)
}

// Session handles GET /session requests
//
//	@Summary	Live map session over WebSocket
//	@Description	Client sends locate, move and filter events; server answers with loading, places, empty and error messages tagged with a sequence number.
//	@Router		/session [get]
func (h *SessionHandler) Session(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	id := uuid.NewString()
	emitter := &wsEmitter{conn: conn}
	live := service.NewLive(h.service, emitter, service.NewSession(id, h.cfg.Defaults), h.cfg.Debounce)
	defer live.Close()

	log.Debug().Str("session_id", id).Msg("session opened")
	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("session_id", id).Msg("session read failed")
			}
			break
		}
		if err := h.dispatch(live, msg); err != nil {
			_ = emitter.Emit(service.Message{Type: service.MessageError, Message: err.Error()})
		}
	}
	log.Debug().Str("session_id", id).Msg("session closed")
}

var (
	errUnknownType     = errors.New("unknown message type")
	errUnknownCategory = errors.New("unknown category")
	errInvalidView     = errors.New("invalid viewport")
)

func (h *SessionHandler) dispatch(live *service.Live, msg ClientMessage) error {
	switch msg.Type {
	case ClientLocate:
		live.Locate(msg.Lat, msg.Lon, msg.Denied)
	case ClientFilter:
		if err := live.Filter(msg.Category); err != nil {
			return errUnknownCategory
		}
	case ClientMove:
		view, err := h.viewport(msg)
		if err != nil {
			return errInvalidView
		}
		live.Move(view, msg.Zoom)
	default:
		return errUnknownType
	}
	return nil
}

func (h *SessionHandler) viewport(msg ClientMessage) (models.BoundingBox, error) {
	if len(msg.BBox) == 4 {
		box := models.BoundingBox{South: msg.BBox[0], West: msg.BBox[1], North: msg.BBox[2], East: msg.BBox[3]}
		return box, geo.Validate(box)
	}
	if len(msg.BBox) != 0 || !geo.ValidCoordinate(msg.Lat, msg.Lon) {
		return models.BoundingBox{}, geo.ErrInvalidBoundingBox
	}
	return geo.BoxAround(models.Coordinate{Lat: msg.Lat, Lon: msg.Lon}, h.cfg.Defaults.RadiusMeters), nil
}
