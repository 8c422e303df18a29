package enums

import "testing"

func TestNormalizeOrderStatusSynonyms(t *testing.T) {
	tests := []struct {
		raw  string
		want OrderStatus
	}{
		{"pending", OrderStatusPending},
		{"Pending", OrderStatusPending},
		{"  accepted ", OrderStatusAccepted},
		{"preparing", OrderStatusProcessing},
		{"processing", OrderStatusProcessing},
		{"ready_to_deliver", OrderStatusDispatched},
		{"dispatched", OrderStatusDispatched},
		{"delivered", OrderStatusDelivered},
		{"canceled", OrderStatusCancelled},
		{"cancelled", OrderStatusCancelled},
		{"canceled_by_user", OrderStatusCancelled},
		{"CANCELLED_BY_USER", OrderStatusCancelled},
	}

	for _, tt := range tests {
		if got := NormalizeOrderStatus(tt.raw); got != tt.want {
			t.Fatalf("normalize %q: expected %s, got %s", tt.raw, tt.want, got)
		}
	}
}

func TestNormalizeOrderStatusIsTotal(t *testing.T) {
	// Unrecognized spellings must come back as unknown, never as pending
	// and never as a panic.
	for _, raw := range []string{"", "   ", "refunded", "on_the_way", "waiting-for-rider", "42"} {
		got := NormalizeOrderStatus(raw)
		if got != OrderStatusUnknown {
			t.Fatalf("normalize %q: expected unknown, got %s", raw, got)
		}
		if !got.IsValid() {
			t.Fatalf("normalize %q produced invalid status %s", raw, got)
		}
	}
}

func TestStepIndex(t *testing.T) {
	steps := []OrderStatus{
		OrderStatusPending,
		OrderStatusAccepted,
		OrderStatusProcessing,
		OrderStatusDispatched,
		OrderStatusDelivered,
	}
	for i, status := range steps {
		idx, ok := status.StepIndex()
		if !ok || idx != i {
			t.Fatalf("status %s: expected step %d, got %d (ok=%v)", status, i, idx, ok)
		}
	}

	if _, ok := OrderStatusCancelled.StepIndex(); ok {
		t.Fatal("cancelled must not sit on the forward path")
	}
	if _, ok := OrderStatusUnknown.StepIndex(); ok {
		t.Fatal("unknown must not sit on the forward path")
	}
}

func TestCanCancelOnlyWhenPending(t *testing.T) {
	for _, status := range validOrderStatuses {
		want := status == OrderStatusPending
		if got := status.CanCancel(); got != want {
			t.Fatalf("status %s: CanCancel=%v, want %v", status, got, want)
		}
	}
}
