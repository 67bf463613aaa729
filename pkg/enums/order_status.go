package enums

import "fmt"

// OrderStatus tracks the lifecycle of a storefront order. The values form a
// strictly ordered ladder; transitions only move one step at a time.
type OrderStatus string

const (
	OrderStatusVerificationPending OrderStatus = "VERIFICATION_PENDING"
	OrderStatusAwaitingProcessing  OrderStatus = "AWAITING_PROCESSING"
	OrderStatusInProcess           OrderStatus = "IN_PROCESS"
	OrderStatusPackedReady         OrderStatus = "PACKED_READY"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
)

// orderStatusLadder is the canonical progression, index 0..4.
var orderStatusLadder = []OrderStatus{
	OrderStatusVerificationPending,
	OrderStatusAwaitingProcessing,
	OrderStatusInProcess,
	OrderStatusPackedReady,
	OrderStatusCompleted,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusVerificationPending: "Verification Pending",
	OrderStatusAwaitingProcessing:  "Awaiting Processing",
	OrderStatusInProcess:           "Processing...",
	OrderStatusPackedReady:         "Ready for Pickup",
	OrderStatusCompleted:           "Completed!",
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// Label returns the human-facing progress label.
func (o OrderStatus) Label() string {
	return orderStatusLabels[o]
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range orderStatusLadder {
		if candidate == o {
			return true
		}
	}
	return false
}

// Index returns the position of the status on the ladder, or -1.
func (o OrderStatus) Index() int {
	for i, candidate := range orderStatusLadder {
		if candidate == o {
			return i
		}
	}
	return -1
}

// Next returns the following status. ok is false at the top of the ladder.
func (o OrderStatus) Next() (OrderStatus, bool) {
	idx := o.Index()
	if idx < 0 || idx >= len(orderStatusLadder)-1 {
		return "", false
	}
	return orderStatusLadder[idx+1], true
}

// Prev returns the preceding status. ok is false at the bottom of the ladder.
func (o OrderStatus) Prev() (OrderStatus, bool) {
	idx := o.Index()
	if idx <= 0 {
		return "", false
	}
	return orderStatusLadder[idx-1], true
}

// IsTerminal reports whether the status ends the lifecycle.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted
}

// OrderStatusLadder returns a copy of the ordered progression.
func OrderStatusLadder() []OrderStatus {
	ladder := make([]OrderStatus, len(orderStatusLadder))
	copy(ladder, orderStatusLadder)
	return ladder
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range orderStatusLadder {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
