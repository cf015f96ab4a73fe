package notify

import "testing"

func TestFanoutPublishSkipsOrigin(t *testing.T) {
	f := NewFanout()

	var selfCalls, otherCalls []string
	self := f.Subscribe(func(key string) {
		selfCalls = append(selfCalls, key)
	})
	f.Subscribe(func(key string) {
		otherCalls = append(otherCalls, key)
	})

	f.Publish("mangli-products", self)

	if len(selfCalls) != 0 {
		t.Fatalf("publisher must not receive its own notification, got %v", selfCalls)
	}
	if len(otherCalls) != 1 || otherCalls[0] != "mangli-products" {
		t.Fatalf("expected one notification for mangli-products, got %v", otherCalls)
	}
}

func TestFanoutUnsubscribe(t *testing.T) {
	f := NewFanout()

	calls := 0
	token := f.Subscribe(func(string) { calls++ })
	f.Publish("mangli-cart", "")
	f.Unsubscribe(token)
	f.Publish("mangli-cart", "")

	if calls != 1 {
		t.Fatalf("expected exactly one call before unsubscribe, got %d", calls)
	}
}

func TestSplitPayload(t *testing.T) {
	instanceID, origin, key := splitPayload("inst-1|tok-2|mangli-categories")
	if instanceID != "inst-1" || origin != "tok-2" || key != "mangli-categories" {
		t.Fatalf("unexpected payload parts: %q %q %q", instanceID, origin, key)
	}
	if _, _, key := splitPayload("garbage"); key != "" {
		t.Fatalf("malformed payload should yield empty key, got %q", key)
	}
}
