package utils

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WSConn is the part of a websocket connection the notifier writes to.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Notifier keeps the live websocket connections of each user and pushes JSON payloads to them.
type Notifier struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[WSConn]struct{}
}

// DefaultNotifier is the package-level notifier instance.
var DefaultNotifier = NewNotifier()

// ErrNoConnection is returned when the user has no open websocket.
var ErrNoConnection = errors.New("no websocket connection for user")

func NewNotifier() *Notifier {
	return &Notifier{
		conns: make(map[uuid.UUID]map[WSConn]struct{}),
	}
}

func (n *Notifier) Register(userID uuid.UUID, conn WSConn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.conns[userID]; !ok {
		n.conns[userID] = make(map[WSConn]struct{})
	}
	n.conns[userID][conn] = struct{}{}
	zap.L().Debug("ws register", zap.String("user", userID.String()), zap.Int("users", len(n.conns)))
}

func (n *Notifier) Unregister(userID uuid.UUID, conn WSConn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if set, ok := n.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(n.conns, userID)
		}
	}
	_ = conn.Close()
	zap.L().Debug("ws unregister", zap.String("user", userID.String()), zap.Int("users", len(n.conns)))
}

// Send writes payload to every connection of the user. Connections that fail to write are dropped.
func (n *Notifier) Send(userID uuid.UUID, payload interface{}) error {
	n.mu.RLock()
	set := n.conns[userID]
	targets := make([]WSConn, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	n.mu.RUnlock()
	if len(targets) == 0 {
		return ErrNoConnection
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var lastErr error
	delivered := 0
	for _, conn := range targets {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			zap.L().Warn("ws write failed", zap.String("user", userID.String()), zap.Error(err))
			n.Unregister(userID, conn)
			lastErr = err
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return lastErr
	}
	return nil
}

// ActiveUserIDs returns a snapshot of currently connected user IDs.
func (n *Notifier) ActiveUserIDs() []uuid.UUID {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(n.conns))
	for id := range n.conns {
		out = append(out, id)
	}
	return out
}
