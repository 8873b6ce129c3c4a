package utils

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	writeErr error
	closed   bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestNotifierSend(t *testing.T) {
	n := NewNotifier()
	user := uuid.New()

	err := n.Send(user, map[string]string{"event": "x"})
	assert.ErrorIs(t, err, ErrNoConnection)

	a, b := &fakeConn{}, &fakeConn{}
	n.Register(user, a)
	n.Register(user, b)

	require.NoError(t, n.Send(user, map[string]string{"event": "outbid"}))
	assert.Len(t, a.messages, 1)
	assert.Len(t, b.messages, 1)
	assert.JSONEq(t, `{"event":"outbid"}`, string(a.messages[0]))
	assert.Equal(t, []uuid.UUID{user}, n.ActiveUserIDs())
}

func TestNotifierDropsBrokenConnections(t *testing.T) {
	n := NewNotifier()
	user := uuid.New()
	broken := &fakeConn{writeErr: errors.New("broken pipe")}
	n.Register(user, broken)

	err := n.Send(user, "hello")
	assert.Error(t, err)
	assert.True(t, broken.closed)
	assert.Empty(t, n.ActiveUserIDs())
}
