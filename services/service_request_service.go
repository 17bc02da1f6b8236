package services

import (
	"context"
	"strings"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/auth"
	"github.com/Vidhyalakshmi16/svm-mobiles/logger"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/notify"
	"github.com/Vidhyalakshmi16/svm-mobiles/store"
	"go.uber.org/zap"
)

type ServiceRequestServiceDeps struct {
	Requests store.ServiceRequests
	Notifier Notifier
	Events   EventPublisher
	Admin    AdminContacts
	Logger   *zap.Logger
}

// ServiceRequestService handles repair tickets raised from the contact form.
type ServiceRequestService struct {
	requests store.ServiceRequests
	notifier Notifier
	events   EventPublisher
	admin    AdminContacts
	log      *zap.Logger
}

func NewServiceRequestService(deps ServiceRequestServiceDeps) *ServiceRequestService {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	events := deps.Events
	if events == nil {
		events = nopPublisher{}
	}
	return &ServiceRequestService{
		requests: deps.Requests,
		notifier: deps.Notifier,
		events:   events,
		admin:    deps.Admin,
		log:      log.Named("service_requests"),
	}
}

type ServiceRequestInput struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	DeviceType    string `json:"deviceType"`
	MobileBrand   string `json:"mobileBrand"`
	MobileModel   string `json:"mobileModel"`
	IssueType     string `json:"issueType"`
	Message       string `json:"message"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
}

// Create stores a new request in status Placed and notifies the customer and
// the shop on both channels.
func (s *ServiceRequestService) Create(ctx context.Context, actor auth.Identity, in ServiceRequestInput) (*models.ServiceRequest, error) {
	r := &models.ServiceRequest{
		UserID:        actor.UserID,
		Name:          strings.TrimSpace(in.Name),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		DeviceType:    strings.TrimSpace(in.DeviceType),
		MobileBrand:   strings.TrimSpace(in.MobileBrand),
		MobileModel:   strings.TrimSpace(in.MobileModel),
		IssueType:     strings.TrimSpace(in.IssueType),
		Message:       sanitize(in.Message),
		PreferredDate: strings.TrimSpace(in.PreferredDate),
		PreferredTime: strings.TrimSpace(in.PreferredTime),
		Status:        models.StatusPlaced,
	}
	if r.Name == "" || r.Phone == "" {
		return nil, apperr.Validation("Name and phone are required")
	}
	if err := s.requests.CreateServiceRequest(ctx, r); err != nil {
		return nil, apperr.Dependency("create service request", err)
	}
	logger.FromContext(ctx, s.log).Info("service request placed", zap.String("request_id", r.ID))

	body := serviceRequestHTML(r)
	if r.Email != "" {
		s.notifier.Email(ctx, notify.Email{
			To:      r.Email,
			Subject: "Service Request Received - Ref #" + r.ShortRef(),
			HTML:    body,
		})
	}
	if s.admin.Email != "" {
		s.notifier.Email(ctx, notify.Email{
			To:      s.admin.Email,
			Subject: "New Service Request - Ref #" + r.ShortRef(),
			HTML:    body,
		})
	}
	s.notifier.SMS(ctx, r.Phone, serviceRequestPlacedSMS(r))
	if s.admin.Phone != "" {
		s.notifier.SMS(ctx, s.admin.Phone, serviceRequestAdminSMS(r, "New service request placed."))
	}

	s.events.Publish(Event{Type: EventServiceRequestCreated, ServiceRequest: r})
	return r, nil
}

func (s *ServiceRequestService) ListMine(ctx context.Context, actor auth.Identity) ([]models.ServiceRequest, error) {
	requests, err := s.requests.ListServiceRequests(ctx, store.ServiceRequestFilter{UserID: actor.UserID})
	if err != nil {
		return nil, apperr.Dependency("list service requests", err)
	}
	return requests, nil
}

// ListAll filters by status when one of the four canonical names is given;
// anything else lists every request.
func (s *ServiceRequestService) ListAll(ctx context.Context, status string) ([]models.ServiceRequest, error) {
	var f store.ServiceRequestFilter
	if st, err := models.ParseStatus(status); err == nil {
		f.Status = st
	}
	requests, err := s.requests.ListServiceRequests(ctx, f)
	if err != nil {
		return nil, apperr.Dependency("list service requests", err)
	}
	return requests, nil
}

// UpdateStatus applies the same policy as orders. The customer gets an email
// on every change and an SMS for the in progress and terminal states.
func (s *ServiceRequestService) UpdateStatus(ctx context.Context, actor auth.Identity, id, requested string) (*models.ServiceRequest, error) {
	target, err := models.ParseStatus(requested)
	if err != nil {
		return nil, apperr.Validation("Invalid status")
	}
	r, err := s.requests.GetServiceRequest(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Service request not found", "get service request")
	}
	previous := models.NormalizeStatus(string(r.Status))
	if err := Authorize(actor, r.UserID, previous, target, "service request"); err != nil {
		return nil, err
	}
	if previous == target {
		r.Status = previous
		return r, nil
	}

	if err := s.requests.UpdateServiceRequestStatus(ctx, r.ID, target); err != nil {
		return nil, storeErr(err, "Service request not found", "update service request status")
	}
	r.Status = target
	logger.FromContext(ctx, s.log).Info("service request status changed",
		zap.String("request_id", r.ID), zap.String("from", string(previous)),
		zap.String("to", string(target)), zap.String("by", actor.UserID))

	if r.Email != "" {
		s.notifier.Email(ctx, notify.Email{
			To:      r.Email,
			Subject: "Service Request Status Updated - " + string(target),
			HTML:    serviceRequestHTML(r),
		})
	}
	if text := serviceRequestStatusSMS(target); text != "" {
		s.notifier.SMS(ctx, r.Phone, text)
	}
	if target == models.StatusCancelled && s.admin.Phone != "" {
		s.notifier.SMS(ctx, s.admin.Phone, serviceRequestAdminSMS(r, "Service request CANCELLED."))
	}

	s.events.Publish(Event{Type: EventServiceRequestStatusChanged, ServiceRequest: r, PreviousStatus: previous})
	return r, nil
}
