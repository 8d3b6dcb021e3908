package api

import (
	"strconv"
	"sync"
	"testing"

	"github.com/ashureev/faqbot/internal/convlog"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
)

func TestConnRegistryRegister(t *testing.T) {
	m := NewConnRegistry()
	conn := &websocket.Conn{}

	m.Register("dev:tab-1", conn)

	assert.Same(t, conn, m.GetActive("dev:tab-1"))
	assert.Equal(t, 1, m.Len())
}

func TestConnRegistryUnregisterStale(t *testing.T) {
	m := NewConnRegistry()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	m.Register("dev:tab-1", conn1)
	m.Register("dev:tab-2", conn2)
	m.Unregister("dev:tab-1", conn1)
	m.Unregister("dev:tab-2", conn1)

	assert.Nil(t, m.GetActive("dev:tab-1"))
	assert.Same(t, conn2, m.GetActive("dev:tab-2"))
}

func TestConnRegistryCloseMissingSession(t *testing.T) {
	m := NewConnRegistry()
	m.CloseSession("nobody")
	assert.Equal(t, 0, m.Len())
}

func TestConnRegistryConcurrentAccess(t *testing.T) {
	m := NewConnRegistry()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			m.Register("dev:tab-"+strconv.Itoa(i), &websocket.Conn{})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			m.GetActive("dev:tab-" + strconv.Itoa(i))
		}
	}()
	wg.Wait()

	assert.Equal(t, 500, m.Len())
}

func TestOnSessionEndRecordsEvent(t *testing.T) {
	log := &recordingLog{}
	OnSessionEnd(NewConnRegistry(), log)("dev:tab")

	events := log.snapshot()
	if assert.Len(t, events, 1) {
		assert.Equal(t, "session_end", events[0].EventType)
		assert.Equal(t, "dev:tab", events[0].SessionID)
	}
}

type recordingLog struct {
	mu     sync.Mutex
	events []convlog.Event
}

func (l *recordingLog) Log(e convlog.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *recordingLog) Close() error { return nil }

func (l *recordingLog) snapshot() []convlog.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]convlog.Event, len(l.events))
	copy(out, l.events)
	return out
}
