package hub

import (
	"testing"
	"time"
)

// waitFor polls until cond returns true or the deadline hits.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestHubBroadcast(t *testing.T) {
	t.Run("delivers to connected clients", func(t *testing.T) {
		h := New("test")
		go h.Run()

		client := &Client{hub: h, send: make(chan []byte, 8)}
		h.register <- client
		waitFor(t, func() bool { return h.ClientCount() == 1 }, "client never registered")

		h.Broadcast([]byte(`{"state":"READY"}`))
		select {
		case msg := <-client.send:
			if string(msg) != `{"state":"READY"}` {
				t.Errorf("received %q", msg)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("message never delivered")
		}
	})

	t.Run("drops a slow client while counts are read concurrently", func(t *testing.T) {
		h := New("test")
		go h.Run()

		fast := &Client{hub: h, send: make(chan []byte, 64)}
		slow := &Client{hub: h, send: make(chan []byte)} // never read
		h.register <- fast
		h.register <- slow
		waitFor(t, func() bool { return h.ClientCount() == 2 }, "clients never registered")

		// Hammer the read path while the run loop mutates the client set.
		stop := make(chan struct{})
		go func() {
			for {
				select {
				case <-stop:
					return
				default:
					h.ClientCount()
				}
			}
		}()

		h.Broadcast([]byte("update"))
		waitFor(t, func() bool { return h.ClientCount() == 1 }, "slow client never dropped")
		close(stop)

		if _, ok := <-slow.send; ok {
			t.Error("dropped client's channel must be closed")
		}
		select {
		case <-fast.send:
		default:
			t.Error("fast client must still receive the broadcast")
		}
	})

	t.Run("unregister removes the client", func(t *testing.T) {
		h := New("test")
		go h.Run()

		client := &Client{hub: h, send: make(chan []byte, 8)}
		h.register <- client
		waitFor(t, func() bool { return h.ClientCount() == 1 }, "client never registered")

		h.unregister <- client
		waitFor(t, func() bool { return h.ClientCount() == 0 }, "client never unregistered")
	})
}

func TestBroadcastJSON(t *testing.T) {
	h := New("test")
	go h.Run()

	client := &Client{hub: h, send: make(chan []byte, 8)}
	h.register <- client
	waitFor(t, func() bool { return h.ClientCount() == 1 }, "client never registered")

	if err := h.BroadcastJSON(map[string]bool{"is_shop": true}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}
	select {
	case msg := <-client.send:
		if string(msg) != `{"is_shop":true}` {
			t.Errorf("received %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message never delivered")
	}

	if err := h.BroadcastJSON(make(chan int)); err == nil {
		t.Error("unencodable value must return an error")
	}
}
