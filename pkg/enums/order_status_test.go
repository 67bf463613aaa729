package enums

import "testing"

func TestOrderStatusLadderOrdering(t *testing.T) {
	ladder := OrderStatusLadder()
	if len(ladder) != 5 {
		t.Fatalf("expected 5 statuses, got %d", len(ladder))
	}
	if ladder[0] != OrderStatusVerificationPending || ladder[4] != OrderStatusCompleted {
		t.Fatalf("unexpected ladder endpoints: %v", ladder)
	}
	for i, status := range ladder {
		if status.Index() != i {
			t.Fatalf("status %s expected index %d got %d", status, i, status.Index())
		}
	}
}

func TestOrderStatusNextPrev(t *testing.T) {
	next, ok := OrderStatusAwaitingProcessing.Next()
	if !ok || next != OrderStatusInProcess {
		t.Fatalf("expected IN_PROCESS after AWAITING_PROCESSING, got %s ok=%v", next, ok)
	}

	if _, ok := OrderStatusCompleted.Next(); ok {
		t.Fatal("COMPLETED must not have a next status")
	}

	prev, ok := OrderStatusPackedReady.Prev()
	if !ok || prev != OrderStatusInProcess {
		t.Fatalf("expected IN_PROCESS before PACKED_READY, got %s ok=%v", prev, ok)
	}

	if _, ok := OrderStatusVerificationPending.Prev(); ok {
		t.Fatal("bottom of the ladder must not have a previous status")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !OrderStatusCompleted.IsTerminal() {
		t.Fatal("COMPLETED should be terminal")
	}
	if OrderStatusPackedReady.IsTerminal() {
		t.Fatal("PACKED_READY should not be terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("PACKED_READY")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if status != OrderStatusPackedReady {
		t.Fatalf("unexpected status %s", status)
	}

	if _, err := ParseOrderStatus("SHIPPED"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestOrderStatusLabels(t *testing.T) {
	if OrderStatusInProcess.Label() != "Processing..." {
		t.Fatalf("unexpected label %q", OrderStatusInProcess.Label())
	}
	if OrderStatusPackedReady.Label() != "Ready for Pickup" {
		t.Fatalf("unexpected label %q", OrderStatusPackedReady.Label())
	}
}
