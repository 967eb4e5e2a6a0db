package sse

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyRecipient(t *testing.T) {
	hub := NewHub()

	aliceCh, aliceDone := hub.Subscribe("alice")
	defer aliceDone()
	bobCh, bobDone := hub.Subscribe("bob")
	defer bobDone()

	hub.Publish("alice", Event{Name: "notification", Data: json.RawMessage(`"hello"`)})

	select {
	case ev := <-aliceCh:
		assert.Equal(t, "notification", ev.Name)
		assert.JSONEq(t, `"hello"`, string(ev.Data))
	default:
		t.Fatal("alice did not receive the event")
	}

	select {
	case <-bobCh:
		t.Fatal("bob must not receive alice's event")
	default:
	}
}

func TestHub_EveryStreamOfUserReceives(t *testing.T) {
	hub := NewHub()
	first, done1 := hub.Subscribe("alice")
	defer done1()
	second, done2 := hub.Subscribe("alice")
	defer done2()

	assert.Equal(t, 2, hub.SubscriberCount("alice"))
	hub.Publish("alice", Event{Name: "notification", Data: json.RawMessage(`{}`)})

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("alice")
	require.Equal(t, 1, hub.SubscriberCount("alice"))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("alice"))
	_, open := <-ch
	assert.False(t, open)
}

func TestHub_PublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("alice")
	defer cleanup()

	for i := 0; i < 20; i++ {
		hub.Publish("alice", Event{Name: "notification", Data: json.RawMessage(`1`)})
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_CloseEndsSubscriptions(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("alice")

	hub.Close()
	cleanup()

	_, open := <-ch
	assert.False(t, open)

	late, _ := hub.Subscribe("bob")
	_, open = <-late
	assert.False(t, open)
}

func TestWriteEvent(t *testing.T) {
	ev, err := NewEvent("connected", map[string]string{"status": "connected"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteEvent(&buf, ev))
	assert.Equal(t, "event: connected\ndata: {\"status\":\"connected\"}\n\n", buf.String())

	assert.Error(t, WriteEvent(&buf, Event{Name: "bad\nname", Data: json.RawMessage(`{}`)}))
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent("notification", make(chan int))
	assert.Error(t, err)
}
