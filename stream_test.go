package loom

import "testing"

func TestStreamBroadcast(t *testing.T) {
	s := NewStream[int]()
	a, cancelA := s.Subscribe(4)
	b, cancelB := s.Subscribe(4)
	defer cancelA()
	defer cancelB()

	s.Publish(1)
	s.Publish(2)

	for name, ch := range map[string]<-chan int{"a": a, "b": b} {
		if v := <-ch; v != 1 {
			t.Errorf("%s first = %d", name, v)
		}
		if v := <-ch; v != 2 {
			t.Errorf("%s second = %d", name, v)
		}
	}
}

func TestStreamLateSubscriberSeesNoReplay(t *testing.T) {
	s := NewStream[int]()
	s.Publish(1)

	ch, cancel := s.Subscribe(4)
	defer cancel()
	s.Publish(2)

	if v := <-ch; v != 2 {
		t.Errorf("late subscriber got %d, want 2", v)
	}
	select {
	case v := <-ch:
		t.Errorf("unexpected extra value %d", v)
	default:
	}
}

func TestStreamSlowSubscriberDrops(t *testing.T) {
	s := NewStream[int]()
	ch, cancel := s.Subscribe(1)
	defer cancel()

	s.Publish(1)
	s.Publish(2)

	if v := <-ch; v != 1 {
		t.Errorf("got %d, want 1", v)
	}
	select {
	case v := <-ch:
		t.Errorf("dropped value delivered: %d", v)
	default:
	}
}

func TestStreamCancelStopsDelivery(t *testing.T) {
	s := NewStream[int]()
	ch, cancel := s.Subscribe(4)
	cancel()
	cancel()

	s.Publish(1)
	if _, ok := <-ch; ok {
		t.Error("canceled channel still open")
	}
}

func TestStreamCloseClosesSubscribers(t *testing.T) {
	s := NewStream[int]()
	ch, _ := s.Subscribe(4)
	s.Close()
	s.Close()

	if _, ok := <-ch; ok {
		t.Error("subscriber channel open after close")
	}

	// Subscribing after close yields a closed channel
	late, _ := s.Subscribe(4)
	if _, ok := <-late; ok {
		t.Error("post-close subscription open")
	}
	s.Publish(9)
}
