package shipping

// Shipment statuses advance strictly forward.
const (
	StatusPreparing = "preparing"
	StatusInTransit = "in_transit"
	StatusDelivered = "delivered"
)

var transitions = map[string]string{
	StatusPreparing: StatusInTransit,
	StatusInTransit: StatusDelivered,
}

// ValidStatus reports whether s names a known shipment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPreparing, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

// allowedTransition permits moving one step forward or restating the
// current status; anything backward or skipping is rejected.
func allowedTransition(from, to string) bool {
	if from == to {
		return true
	}
	return transitions[from] == to
}
