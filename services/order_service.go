package services

import (
	"context"
	"strings"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/auth"
	"github.com/Vidhyalakshmi16/svm-mobiles/invoice"
	"github.com/Vidhyalakshmi16/svm-mobiles/logger"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/notify"
	"github.com/Vidhyalakshmi16/svm-mobiles/pricing"
	"github.com/Vidhyalakshmi16/svm-mobiles/store"
	"go.uber.org/zap"
)

const DefaultPaymentMethod = "Cash on Delivery"

type OrderServiceDeps struct {
	Orders   store.Orders
	Notifier Notifier
	Events   EventPublisher
	Invoices *invoice.Renderer
	Archive  *invoice.Archive
	Admin    AdminContacts
	Logger   *zap.Logger
}

type OrderService struct {
	orders   store.Orders
	notifier Notifier
	events   EventPublisher
	invoices *invoice.Renderer
	archive  *invoice.Archive
	admin    AdminContacts
	log      *zap.Logger
}

func NewOrderService(deps OrderServiceDeps) *OrderService {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	events := deps.Events
	if events == nil {
		events = nopPublisher{}
	}
	return &OrderService{
		orders:   deps.Orders,
		notifier: deps.Notifier,
		events:   events,
		invoices: deps.Invoices,
		archive:  deps.Archive,
		admin:    deps.Admin,
		log:      log.Named("orders"),
	}
}

// CartLine is one item as the storefront cart submits it.
type CartLine struct {
	Product    string   `json:"product"`
	LegacyID   string   `json:"_id"`
	Name       string   `json:"name"`
	Brand      string   `json:"brand"`
	Price      float64  `json:"price"`
	FinalPrice *float64 `json:"finalPrice"`
	Discount   *float64 `json:"discount"`
	Quantity   int      `json:"quantity"`
	Image      string   `json:"image"`
	Images     []string `json:"images"`
}

// PlaceOrderInput is the checkout payload. Totals are computed by the client.
type PlaceOrderInput struct {
	Customer      *models.Customer `json:"customer"`
	Items         []CartLine       `json:"items"`
	PaymentMethod string           `json:"paymentMethod"`
	Subtotal      *float64         `json:"subtotal"`
	DeliveryFee   *float64         `json:"deliveryFee"`
	PlatformFee   *float64         `json:"platformFee"`
	Total         *float64         `json:"total"`
}

// snapshot maps a cart line to the stored order item.
func (l CartLine) snapshot() models.OrderItem {
	item := models.OrderItem{
		ProductID: l.Product,
		Name:      strings.TrimSpace(l.Name),
		Brand:     strings.TrimSpace(l.Brand),
		Price:     l.Price,
		Quantity:  l.Quantity,
		Image:     l.Image,
	}
	if item.ProductID == "" {
		item.ProductID = l.LegacyID
	}
	item.FinalPrice = l.Price
	if l.FinalPrice != nil {
		item.FinalPrice = *l.FinalPrice
	}
	if l.Discount != nil {
		item.Discount = *l.Discount
	}
	if item.Image == "" && len(l.Images) > 0 {
		item.Image = l.Images[0]
	}
	return item
}

func (in PlaceOrderInput) validate() error {
	if in.Customer == nil {
		return apperr.Validation("Invalid order data")
	}
	if len(in.Items) == 0 {
		return apperr.Validation("Invalid order data")
	}
	// Without a price breakdown the payment method and total must be explicit.
	if in.Subtotal == nil && (strings.TrimSpace(in.PaymentMethod) == "" || in.Total == nil || *in.Total == 0) {
		return apperr.Validation("Missing required fields")
	}
	if strings.TrimSpace(in.Customer.Name) == "" || strings.TrimSpace(in.Customer.Phone) == "" {
		return apperr.Validation("Customer name and phone are required")
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return apperr.Validation("Item quantity must be at least 1")
		}
		if line.Price < 0 || (line.FinalPrice != nil && *line.FinalPrice < 0) {
			return apperr.Validation("Item price cannot be negative")
		}
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// PlaceOrder stores a new order for actor in status Placed and queues the
// confirmation emails. The owner always comes from actor, never the payload.
func (s *OrderService) PlaceOrder(ctx context.Context, actor auth.Identity, in PlaceOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx, s.log)

	customer := *in.Customer
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.TrimSpace(customer.Email)
	customer.Address = sanitize(customer.Address)
	customer.City = strings.TrimSpace(customer.City)

	order := &models.Order{
		UserID:        actor.UserID,
		Customer:      customer,
		Items:         make([]models.OrderItem, 0, len(in.Items)),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Subtotal:      deref(in.Subtotal),
		DeliveryFee:   deref(in.DeliveryFee),
		PlatformFee:   deref(in.PlatformFee),
		Total:         deref(in.Total),
		Status:        models.StatusPlaced,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = DefaultPaymentMethod
	}

	var expected float64
	for _, line := range in.Items {
		item := line.snapshot()
		order.Items = append(order.Items, item)
		expected += pricing.LineTotal(item.FinalPrice, item.Quantity)
	}
	if in.Subtotal != nil && !pricing.Equal(expected, order.Subtotal) {
		log.Warn("order subtotal differs from item sum",
			zap.String("user_id", actor.UserID),
			zap.Float64("submitted", order.Subtotal), zap.Float64("computed", expected))
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, apperr.Dependency("create order", err)
	}
	log.Info("order placed", zap.String("order_id", order.ID), zap.Int("items", len(order.Items)))

	s.confirm(ctx, order)
	s.events.Publish(Event{Type: EventOrderCreated, Order: order})
	return order, nil
}

func (s *OrderService) confirm(ctx context.Context, o *models.Order) {
	body, err := s.invoices.HTML(o)
	if err != nil {
		logger.FromContext(ctx, s.log).Error("render confirmation email", zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	if o.Customer.Email != "" {
		s.notifier.Email(ctx, notify.Email{
			To:      o.Customer.Email,
			Subject: "Your Order Confirmation - SVM Mobiles",
			HTML:    body,
		})
	}
	if s.admin.Email != "" {
		s.notifier.Email(ctx, notify.Email{
			To:      s.admin.Email,
			Subject: "New Order Placed - #" + o.ShortRef(),
			HTML:    body,
		})
	}
}

func (s *OrderService) ListMine(ctx context.Context, actor auth.Identity) ([]models.Order, error) {
	orders, err := s.orders.ListOrders(ctx, store.OrderFilter{UserID: actor.UserID})
	if err != nil {
		return nil, apperr.Dependency("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context, status models.Status) ([]models.Order, error) {
	orders, err := s.orders.ListOrders(ctx, store.OrderFilter{Status: status})
	if err != nil {
		return nil, apperr.Dependency("list orders", err)
	}
	return orders, nil
}

// Get returns the order if actor is an admin or its owner.
func (s *OrderService) Get(ctx context.Context, actor auth.Identity, id string) (*models.Order, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Order not found", "get order")
	}
	if !actor.IsAdmin() && o.UserID != actor.UserID {
		return nil, apperr.Forbidden("Not your order")
	}
	return o, nil
}

// UpdateStatus moves an order to the requested status. Notifications go out
// only after the change is stored, and only when the status actually changes.
func (s *OrderService) UpdateStatus(ctx context.Context, actor auth.Identity, id, requested string) (*models.Order, error) {
	target, err := models.ParseStatus(requested)
	if err != nil {
		return nil, apperr.Validation("Invalid status")
	}
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Order not found", "get order")
	}
	previous := o.Status
	if err := Authorize(actor, o.UserID, previous, target, "order"); err != nil {
		return nil, err
	}
	if previous == target {
		return o, nil
	}

	if err := s.orders.UpdateOrderStatus(ctx, o.ID, target); err != nil {
		return nil, storeErr(err, "Order not found", "update order status")
	}
	o.Status = target
	logger.FromContext(ctx, s.log).Info("order status changed",
		zap.String("order_id", o.ID), zap.String("from", string(previous)),
		zap.String("to", string(target)), zap.String("by", actor.UserID))

	s.notifyStatus(ctx, o)
	s.events.Publish(Event{Type: EventOrderStatusChanged, Order: o, PreviousStatus: previous})
	return o, nil
}

func (s *OrderService) notifyStatus(ctx context.Context, o *models.Order) {
	if text := orderStatusSMS(o, o.Status); text != "" {
		s.notifier.SMS(ctx, o.Customer.Phone, text)
	}
	switch o.Status {
	case models.StatusCompleted:
		if o.Customer.Email != "" {
			s.notifier.Email(ctx, orderCompletedEmail(o))
		}
	case models.StatusCancelled:
		if s.admin.Email != "" {
			s.notifier.Email(ctx, orderCancelledAdminEmail(s.admin.Email, o))
		}
	}
}

// Invoice renders the order's PDF and keeps a copy in the archive. Archiving
// is best effort.
func (s *OrderService) Invoice(ctx context.Context, actor auth.Identity, id string) (*models.Order, []byte, error) {
	o, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.invoices.PDFBytes(o)
	if err != nil {
		return nil, nil, apperr.Dependency("render invoice", err)
	}
	if s.archive != nil {
		if _, err := s.archive.Save(o.ID, pdf); err != nil {
			logger.FromContext(ctx, s.log).Error("archive invoice", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return o, pdf, nil
}

// InvoicePath resolves an archived invoice by file name.
func (s *OrderService) InvoicePath(name string) (string, error) {
	if s.archive == nil {
		return "", apperr.NotFound("Invoice not found")
	}
	path, err := s.archive.Path(name)
	if err != nil {
		return "", apperr.NotFound("Invoice not found")
	}
	return path, nil
}
