package bus

import (
	"errors"
	"testing"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ int64) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got []any
	_, err := b.Subscribe(EventEntityEvicted, func(e Event) error {
		got = append(got, e.Data())
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.Publish(NewEvent(EventEntityEvicted, "tester", int64(7))); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err = b.Publish(NewEvent(EventCacheExpired, "tester", 3)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 1 || got[0] != int64(7) {
		t.Fatalf("unexpected deliveries: %v", got)
	}
}

func TestSubscribeValidation(t *testing.T) {
	b := New()
	if _, err := b.Subscribe("x", nil); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
	if _, err := b.Subscribe("", func(Event) error { return nil }); !errors.Is(err, ErrEmptyType) {
		t.Fatalf("expected ErrEmptyType, got %v", err)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, err := b.Subscribe("x", func(Event) error { count++; return nil })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	_ = b.Publish(NewEvent("x", "src", nil))
	if err = b.Unsubscribe(sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	_ = sub.Cancel()
	_ = b.Unsubscribe(nil)
	_ = b.Publish(NewEvent("x", "src", nil))

	if count != 1 {
		t.Fatalf("expected 1 delivery, got %d", count)
	}
	if sub.IsActive() {
		t.Fatal("subscription still active")
	}
	if m := b.GetMetrics(); m.SubscribersActive != 0 {
		t.Fatalf("expected no active subscribers, got %d", m.SubscribersActive)
	}
}

func TestPublishBatchJoinsErrors(t *testing.T) {
	b := New()
	fail := errors.New("fail")
	_, _ = b.Subscribe("x", func(e Event) error {
		if e.Data() == 2 {
			return fail
		}
		return nil
	})

	err := b.PublishBatch(NewEvent("x", "src", 1), NewEvent("x", "src", 2), NewEvent("x", "src", 3))
	if !errors.Is(err, fail) {
		t.Fatalf("expected joined handler error, got %v", err)
	}
	m := b.GetMetrics()
	if m.Published != 3 || m.DeliveredHandlers != 3 || m.Errors != 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestObservers(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)
	_, _ = b.Subscribe("x", func(Event) error { return nil })
	_, _ = b.Subscribe("x", func(Event) error { return nil })

	_ = b.Publish(NewEvent("x", "src", nil))
	if obs.publishCount != 1 || obs.deliveredCount != 2 || obs.lastErr != nil {
		t.Fatalf("unexpected observer state: %+v", obs)
	}

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("x", "src", nil))
	if obs.publishCount != 1 {
		t.Fatalf("removed observer still notified")
	}
}
