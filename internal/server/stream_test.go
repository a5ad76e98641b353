package server

import (
	"testing"
	"time"
)

func TestEventBroadcaster_SubscribeBroadcast(t *testing.T) {
	eb := NewEventBroadcaster()
	ch := eb.Subscribe("job-1")
	defer eb.Unsubscribe("job-1", ch)

	sent := ImprovementEvent{JobID: "job-1", State: StateRunning, Attempt: 3, Infidelity: 0.25}
	eb.Broadcast(sent)

	select {
	case got := <-ch:
		if got.Attempt != 3 || got.Infidelity != 0.25 {
			t.Errorf("received %+v, want %+v", got, sent)
		}
	case <-time.After(time.Second):
		t.Fatal("event never arrived")
	}
}

func TestEventBroadcaster_ReplaysLastEvent(t *testing.T) {
	eb := NewEventBroadcaster()
	eb.Broadcast(ImprovementEvent{JobID: "job-1", Attempt: 7, Infidelity: 0.5})

	// A late subscriber gets the last event so reconnects do not miss the
	// current best.
	ch := eb.Subscribe("job-1")
	defer eb.Unsubscribe("job-1", ch)

	select {
	case got := <-ch:
		if got.Attempt != 7 {
			t.Errorf("replayed event = %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("last event was not replayed")
	}
}

func TestEventBroadcaster_IsolatesJobs(t *testing.T) {
	eb := NewEventBroadcaster()
	ch := eb.Subscribe("job-a")
	defer eb.Unsubscribe("job-a", ch)

	eb.Broadcast(ImprovementEvent{JobID: "job-b", Attempt: 1})

	select {
	case got := <-ch:
		t.Errorf("received another job's event: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	eb := NewEventBroadcaster()
	ch := eb.Subscribe("job-1")
	eb.Unsubscribe("job-1", ch)

	if _, open := <-ch; open {
		t.Error("channel still open after unsubscribe")
	}
}
