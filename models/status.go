package models

import (
	"errors"
	"strings"
)

// Status is the lifecycle state shared by orders and service requests.
type Status string

const (
	StatusPlaced     Status = "Placed"      // Created, awaiting processing
	StatusInProgress Status = "In Progress" // Being handled by the store
	StatusCompleted  Status = "Completed"   // Delivered / repaired
	StatusCancelled  Status = "Cancelled"   // Cancelled by customer or admin
)

// Statuses lists the canonical statuses in lifecycle order.
var Statuses = []Status{StatusPlaced, StatusInProgress, StatusCompleted, StatusCancelled}

var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus maps a requested status to its canonical value. Only the four
// canonical names are accepted (case-insensitive).
func ParseStatus(status string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "placed":
		return StatusPlaced, nil
	case "in progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled":
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// NormalizeStatus maps stored values, including legacy ones written before the
// four-value enum existed, to the nearest canonical status. Unknown values
// become Placed.
func NormalizeStatus(status string) Status {
	key := strings.ToLower(strings.TrimSpace(status))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	switch key {
	case "in progress", "processing", "inprogress":
		return StatusInProgress
	case "completed", "complete", "done", "resolved", "closed":
		return StatusCompleted
	case "cancelled", "canceled", "rejected":
		return StatusCancelled
	default:
		return StatusPlaced
	}
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
