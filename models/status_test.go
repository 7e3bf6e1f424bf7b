package models

import (
	"sort"
	"testing"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  OrderStatus
		to    OrderStatus
		legal bool
	}{
		{"pending to confirmed", OrderPending, OrderConfirmed, true},
		{"pending straight to preparing", OrderPending, OrderPreparing, true},
		{"pending to cancelled", OrderPending, OrderCancelled, true},
		{"pending to rejected", OrderPending, OrderRejected, true},
		{"confirmed to preparing", OrderConfirmed, OrderPreparing, true},
		{"confirmed to cancelled", OrderConfirmed, OrderCancelled, true},
		{"confirmed cannot be rejected", OrderConfirmed, OrderRejected, false},
		{"preparing to ready", OrderPreparing, OrderReady, true},
		{"preparing cannot be cancelled", OrderPreparing, OrderCancelled, false},
		{"ready to completed", OrderReady, OrderCompleted, true},
		{"ready cannot go back", OrderReady, OrderPreparing, false},
		{"no skipping to completed", OrderPending, OrderCompleted, false},
		{"completed is terminal", OrderCompleted, OrderPending, false},
		{"cancelled is terminal", OrderCancelled, OrderConfirmed, false},
		{"rejected is terminal", OrderRejected, OrderPreparing, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.legal {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.legal)
			}
		})
	}
}

func TestTerminalStatusesHaveNoExit(t *testing.T) {
	all := []OrderStatus{
		OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
		OrderCompleted, OrderCancelled, OrderRejected,
	}
	for _, from := range all {
		if !from.Terminal() {
			continue
		}
		for _, to := range all {
			if from.CanTransitionTo(to) {
				t.Errorf("terminal status %s must not transition to %s", from, to)
			}
		}
	}
}

func TestActiveOrderStatusesAreExactlyNonTerminal(t *testing.T) {
	active := ActiveOrderStatuses()
	seen := make(map[OrderStatus]bool, len(active))
	for _, s := range active {
		if s.Terminal() {
			t.Errorf("%s is terminal but listed active", s)
		}
		seen[s] = true
	}
	for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderPreparing, OrderReady} {
		if !seen[s] {
			t.Errorf("%s missing from active statuses", s)
		}
	}
	if len(active) != 4 {
		t.Errorf("expected 4 active statuses, got %d", len(active))
	}
}

func TestStatusesBefore(t *testing.T) {
	got := StatusesBefore(OrderPreparing)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []OrderStatus{OrderConfirmed, OrderPending}
	if len(got) != len(want) {
		t.Fatalf("StatusesBefore(preparing) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("StatusesBefore(preparing)[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestServiceRequestKindValid(t *testing.T) {
	for _, k := range []ServiceRequestKind{
		RequestWater, RequestCutlery, RequestNapkins, RequestCondiments,
		RequestBill, RequestCleanup, RequestAssistance, RequestOther,
	} {
		if !k.Valid() {
			t.Errorf("%s should be a valid kind", k)
		}
	}
	if ServiceRequestKind("massage").Valid() {
		t.Error("unknown kind accepted")
	}
	if ServiceRequestKind("").Valid() {
		t.Error("empty kind accepted")
	}
}
