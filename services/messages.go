package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/notify"
)

// Customer SMS sent when an order enters a status.
func orderStatusSMS(o *models.Order, status models.Status) string {
	ref := o.ShortRef()
	switch status {
	case models.StatusInProgress:
		return fmt.Sprintf("Your order #%s is now being processed. Our team is working on it.", ref)
	case models.StatusCompleted:
		return fmt.Sprintf("Your order #%s has been completed. Thank you for shopping with us.", ref)
	case models.StatusCancelled:
		return fmt.Sprintf("Your order #%s has been cancelled. If you have questions, please contact support.", ref)
	default:
		return ""
	}
}

var (
	orderCompletedTmpl = template.Must(template.New("completed").Parse(
		`<p>Your order <strong>#{{.Ref}}</strong> has been completed.</p>
<p>Thank you for choosing us.</p>
`))
	orderCancelledTmpl = template.Must(template.New("cancelled").Parse(
		`<p>An order has been cancelled.</p>
<p><strong>Order ID:</strong> #{{.Ref}}</p>
<p><strong>Customer:</strong> {{.Customer.Name}}</p>
<p><strong>Phone:</strong> {{.Customer.Phone}}</p>
`))
	serviceRequestTmpl = template.Must(template.New("service").Parse(
		`<div style="font-family: Arial, sans-serif; color:#111827;">
  <h2>Service Request</h2>
  <p>
    <strong>Request ID:</strong> #{{.Ref}}<br/>
    <strong>Status:</strong> {{.Status}}<br/>
    <strong>Created:</strong> {{.Created}}
  </p>
  <hr/>
  <h3>Customer Details</h3>
  <p>
    {{.Name}}<br/>
    Phone: {{.Phone}}<br/>
    Email: {{or .Email "-"}}
  </p>
  <h3>Device / Issue</h3>
  <p>
    Device: {{.MobileBrand}} {{.MobileModel}}<br/>
    Issue: {{.IssueType}}
  </p>
{{- if .Message}}
  <p><strong>Message:</strong> {{.Message}}</p>
{{- end}}
  <h3>Preferred Schedule</h3>
  <p>
    Date: {{or .PreferredDate "-"}}<br/>
    Time: {{or .PreferredTime "-"}}
  </p>
  <p style="color:#6b7280;font-size:12px;">Our team will contact you shortly.</p>
</div>
`))
)

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates are fixed and fields are plain strings.
		return ""
	}
	return buf.String()
}

type orderView struct {
	*models.Order
	Ref string
}

func orderCompletedEmail(o *models.Order) notify.Email {
	return notify.Email{
		To:      o.Customer.Email,
		Subject: "Order Completed - #" + o.ShortRef(),
		HTML:    render(orderCompletedTmpl, orderView{Order: o, Ref: o.ShortRef()}),
	}
}

func orderCancelledAdminEmail(to string, o *models.Order) notify.Email {
	return notify.Email{
		To:      to,
		Subject: "Order Cancelled - #" + o.ShortRef(),
		HTML:    render(orderCancelledTmpl, orderView{Order: o, Ref: o.ShortRef()}),
	}
}

type serviceRequestView struct {
	*models.ServiceRequest
	Ref     string
	Created string
}

func serviceRequestHTML(r *models.ServiceRequest) string {
	view := serviceRequestView{ServiceRequest: r, Ref: r.ShortRef()}
	if !r.CreatedAt.IsZero() {
		view.Created = r.CreatedAt.Format("02 Jan 2006, 03:04 PM")
	}
	return render(serviceRequestTmpl, view)
}

// Customer SMS sent when a service request enters a status.
func serviceRequestStatusSMS(status models.Status) string {
	switch status {
	case models.StatusInProgress:
		return "SVM Mobiles: Your service request is now in progress."
	case models.StatusCompleted:
		return "SVM Mobiles: Your service request has been completed. Thank you!"
	case models.StatusCancelled:
		return "SVM Mobiles: Your service request has been cancelled. Please contact us for support."
	default:
		return ""
	}
}

func serviceRequestPlacedSMS(r *models.ServiceRequest) string {
	return fmt.Sprintf("SVM Mobiles: Your service request has been placed successfully. Ref ID: %s. Our team will contact you shortly.", r.ShortRef())
}

func serviceRequestAdminSMS(r *models.ServiceRequest, headline string) string {
	return fmt.Sprintf("SVM Mobiles ADMIN: %s\nRef: %s\nCustomer: %s\nPhone: %s", headline, r.ShortRef(), r.Name, r.Phone)
}
