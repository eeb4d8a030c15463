package event

import "testing"

func TestDispatchDeliversInPublishOrder(t *testing.T) {
	type ping struct{ n int }
	b := NewBus()
	var got []int
	b.Subscribe(ping{}, func(ev any) {
		got = append(got, ev.(ping).n)
	})
	b.Publish(ping{1})
	b.Publish(ping{2})
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected ordered delivery [1 2], got %v", got)
	}
}

func TestDrainSettlesCascadedPublishes(t *testing.T) {
	type first struct{}
	type second struct{}
	b := NewBus()
	var got []string
	b.Subscribe(first{}, func(any) {
		got = append(got, "first")
		b.Publish(second{})
	})
	b.Subscribe(second{}, func(any) {
		got = append(got, "second")
	})
	b.Publish(first{})
	b.Drain()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("cascaded event must settle within one drain, got %v", got)
	}
}
