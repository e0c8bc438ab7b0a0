package mockserver

import (
	"strconv"
	"sync"
	"testing"

	"github.com/coder/websocket"
)

func TestSessionManager_Register(t *testing.T) {
	sm := NewSessionManager(nil)
	conn := &websocket.Conn{}

	sm.Register("tab-1", conn)

	if active := sm.Get("tab-1"); active != conn {
		t.Errorf("Expected connection %v, got %v", conn, active)
	}
	if n := sm.Count(); n != 1 {
		t.Errorf("Expected 1 session, got %d", n)
	}
}

func TestSessionManager_Unregister(t *testing.T) {
	sm := NewSessionManager(nil)
	conn := &websocket.Conn{}

	sm.Register("tab-1", conn)
	sm.Unregister("tab-1", conn)

	if active := sm.Get("tab-1"); active != nil {
		t.Errorf("Expected nil connection, got %v", active)
	}
}

func TestSessionManager_UnregisterStale(t *testing.T) {
	sm := NewSessionManager(nil)
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	sm.Register("tab-1", conn1)
	sm.Register("tab-2", conn2)

	// A stale unregister for a different connection must not evict the current one.
	sm.Unregister("tab-2", conn1)

	if active := sm.Get("tab-2"); active != conn2 {
		t.Errorf("Expected connection %v, got %v", conn2, active)
	}
	if n := sm.Count(); n != 2 {
		t.Errorf("Expected 2 sessions, got %d", n)
	}
}

func TestSessionManager_ConcurrentAccess(t *testing.T) {
	sm := NewSessionManager(nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			sm.Register("tab-"+strconv.Itoa(i), &websocket.Conn{})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			sm.Get("tab-" + strconv.Itoa(i))
		}
	}()
	wg.Wait()

	if n := sm.Count(); n != 1000 {
		t.Errorf("Expected 1000 sessions, got %d", n)
	}
}
