// Package services holds the storefront's business rules: catalog upkeep,
// order placement, the status workflow and account handling.
package services

import (
	"context"
	"errors"
	"html"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/notify"
	"github.com/Vidhyalakshmi16/svm-mobiles/store"
	"github.com/microcosm-cc/bluemonday"
)

// Notifier queues outbound messages. Sends never report failure to the caller.
type Notifier interface {
	Email(ctx context.Context, msg notify.Email)
	SMS(ctx context.Context, phone, body string)
}

type EventType string

const (
	EventOrderCreated                EventType = "order.created"
	EventOrderStatusChanged          EventType = "order.status_changed"
	EventServiceRequestCreated       EventType = "service_request.created"
	EventServiceRequestStatusChanged EventType = "service_request.status_changed"
)

// Event is pushed to live admin dashboards.
type Event struct {
	Type           EventType              `json:"type"`
	PreviousStatus models.Status          `json:"previousStatus,omitempty"`
	Order          *models.Order          `json:"order,omitempty"`
	ServiceRequest *models.ServiceRequest `json:"serviceRequest,omitempty"`
}

type EventPublisher interface {
	Publish(Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

// AdminContacts is where admin alerts are sent. Either may be empty.
type AdminContacts struct {
	Email string
	Phone string
}

var plainText = bluemonday.StrictPolicy()

// sanitize strips markup from free text while leaving ordinary characters
// such as & and quotes readable.
func sanitize(s string) string {
	return html.UnescapeString(plainText.Sanitize(s))
}

// storeErr maps persistence failures onto the error taxonomy.
func storeErr(err error, notFound, op string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(notFound)
	default:
		return apperr.Dependency(op, err)
	}
}
