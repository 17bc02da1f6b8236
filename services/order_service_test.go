package services

import (
	"context"
	"testing"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/auth"
	"github.com/Vidhyalakshmi16/svm-mobiles/invoice"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type orderFixture struct {
	svc      *OrderService
	store    *store.Memory
	notifier *recordingNotifier
	events   *recordingEvents
	logs     *observer.ObservedLogs
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	f := &orderFixture{
		store:    store.NewMemory(),
		notifier: &recordingNotifier{},
		events:   &recordingEvents{},
		logs:     logs,
	}
	f.svc = NewOrderService(OrderServiceDeps{
		Orders:   f.store,
		Notifier: f.notifier,
		Events:   f.events,
		Invoices: invoice.NewRenderer("Sri Vaari Mobiles"),
		Archive:  invoice.NewArchive(t.TempDir()),
		Admin:    AdminContacts{Email: "admin@svm.test", Phone: "9000000000"},
		Logger:   zap.New(core),
	})
	return f
}

var (
	customer = auth.Identity{UserID: "u1", Role: models.RoleCustomer}
	stranger = auth.Identity{UserID: "u2", Role: models.RoleCustomer}
	admin    = auth.Identity{UserID: "a1", Role: models.RoleAdmin}
)

func validOrderInput() PlaceOrderInput {
	return PlaceOrderInput{
		Customer: &models.Customer{Name: "Asha", Phone: "98765 43210", Email: "asha@example.com", Address: "12 Main St", City: "Chennai", Pincode: "600001"},
		Items: []CartLine{
			{Product: "p1", Name: "Phone X", Brand: "Acme", Price: 1000, FinalPrice: ptr(900.0), Discount: ptr(10.0), Quantity: 2, Image: "/uploads/x.jpg"},
		},
		PaymentMethod: "Cash on Delivery",
		Subtotal:      ptr(1800.0),
		DeliveryFee:   ptr(0.0),
		PlatformFee:   ptr(10.0),
		Total:         ptr(1810.0),
	}
}

func (f *orderFixture) place(t *testing.T) *models.Order {
	t.Helper()
	o, err := f.svc.PlaceOrder(context.Background(), customer, validOrderInput())
	require.NoError(t, err)
	f.notifier.reset()
	f.events.events = nil
	return o
}

func TestPlaceOrder(t *testing.T) {
	f := newOrderFixture(t)

	in := validOrderInput()
	o, err := f.svc.PlaceOrder(context.Background(), customer, in)
	require.NoError(t, err)

	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, models.StatusPlaced, o.Status)
	assert.Equal(t, 1810.0, o.Total)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "p1", o.Items[0].ProductID)
	assert.Equal(t, 900.0, o.Items[0].FinalPrice)

	stored, err := f.store.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Items, stored.Items)

	assert.ElementsMatch(t, []string{
		"Your Order Confirmation - SVM Mobiles",
		"New Order Placed - #" + o.ShortRef(),
	}, f.notifier.subjects())
	require.Len(t, f.events.events, 1)
	assert.Equal(t, EventOrderCreated, f.events.events[0].Type)
}

func TestPlaceOrderItemDefaults(t *testing.T) {
	f := newOrderFixture(t)
	in := validOrderInput()
	in.PaymentMethod = ""
	in.Items = []CartLine{{LegacyID: "p9", Name: "Case", Price: 250, Quantity: 1, Images: []string{"/a.jpg", "/b.jpg"}}}
	in.Subtotal = ptr(250.0)

	o, err := f.svc.PlaceOrder(context.Background(), customer, in)
	require.NoError(t, err)

	item := o.Items[0]
	assert.Equal(t, "p9", item.ProductID)
	assert.Equal(t, 250.0, item.FinalPrice)
	assert.Equal(t, 0.0, item.Discount)
	assert.Equal(t, "/a.jpg", item.Image)
	assert.Equal(t, DefaultPaymentMethod, o.PaymentMethod)
}

func TestPlaceOrderKeepsClientTotals(t *testing.T) {
	f := newOrderFixture(t)
	in := validOrderInput()
	in.Subtotal = ptr(1.0)
	in.Total = ptr(11.0)

	o, err := f.svc.PlaceOrder(context.Background(), customer, in)
	require.NoError(t, err)
	assert.Equal(t, 1.0, o.Subtotal)
	assert.Equal(t, 11.0, o.Total)
	assert.Equal(t, 1, f.logs.FilterMessage("order subtotal differs from item sum").Len())
}

func TestPlaceOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PlaceOrderInput)
		want   string
	}{
		{"no customer", func(in *PlaceOrderInput) { in.Customer = nil }, "Invalid order data"},
		{"no items", func(in *PlaceOrderInput) { in.Items = nil }, "Invalid order data"},
		{"no breakdown no total", func(in *PlaceOrderInput) { in.Subtotal = nil; in.Total = nil }, "Missing required fields"},
		{"no breakdown no payment", func(in *PlaceOrderInput) { in.Subtotal = nil; in.PaymentMethod = "" }, "Missing required fields"},
		{"missing phone", func(in *PlaceOrderInput) { in.Customer.Phone = " " }, "Customer name and phone are required"},
		{"zero quantity", func(in *PlaceOrderInput) { in.Items[0].Quantity = 0 }, "Item quantity must be at least 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newOrderFixture(t)
			in := validOrderInput()
			tc.mutate(&in)

			_, err := f.svc.PlaceOrder(context.Background(), customer, in)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Equal(t, tc.want, apperr.From(err).PublicMessage())

			orders, _ := f.store.ListOrders(context.Background(), store.OrderFilter{})
			assert.Empty(t, orders)
			assert.Empty(t, f.notifier.emails)
		})
	}
}

func TestUpdateStatusNotifications(t *testing.T) {
	cases := []struct {
		target   models.Status
		sms      int
		subjects []string
	}{
		{models.StatusInProgress, 1, nil},
		{models.StatusCompleted, 1, []string{"Order Completed - #"}},
		{models.StatusCancelled, 1, []string{"Order Cancelled - #"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.target), func(t *testing.T) {
			f := newOrderFixture(t)
			o := f.place(t)

			updated, err := f.svc.UpdateStatus(context.Background(), admin, o.ID, string(tc.target))
			require.NoError(t, err)
			assert.Equal(t, tc.target, updated.Status)

			require.Len(t, f.notifier.sms, tc.sms)
			assert.Equal(t, "98765 43210", f.notifier.sms[0].Phone)
			assert.Contains(t, f.notifier.sms[0].Body, o.ShortRef())
			require.Len(t, f.notifier.emails, len(tc.subjects))
			for i, prefix := range tc.subjects {
				assert.Equal(t, prefix+o.ShortRef(), f.notifier.emails[i].Subject)
			}
			require.Len(t, f.events.events, 1)
			assert.Equal(t, models.StatusPlaced, f.events.events[0].PreviousStatus)
		})
	}
}

func TestUpdateStatusCancelledEmailGoesToAdmin(t *testing.T) {
	f := newOrderFixture(t)
	o := f.place(t)

	_, err := f.svc.UpdateStatus(context.Background(), customer, o.ID, "Cancelled")
	require.NoError(t, err)
	require.Len(t, f.notifier.emails, 1)
	assert.Equal(t, "admin@svm.test", f.notifier.emails[0].To)
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	f := newOrderFixture(t)
	o := f.place(t)

	_, err := f.svc.UpdateStatus(context.Background(), admin, o.ID, "Placed")
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sms)
	assert.Empty(t, f.notifier.emails)
	assert.Empty(t, f.events.events)
}

func TestUpdateStatusRejections(t *testing.T) {
	f := newOrderFixture(t)
	o := f.place(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, admin, o.ID, "shipped")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.UpdateStatus(ctx, admin, "missing", "Completed")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.UpdateStatus(ctx, stranger, o.ID, "Cancelled")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = f.svc.UpdateStatus(ctx, customer, o.ID, "Completed")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = f.svc.UpdateStatus(ctx, admin, o.ID, "In Progress")
	require.NoError(t, err)
	f.notifier.reset()

	_, err = f.svc.UpdateStatus(ctx, customer, o.ID, "Cancelled")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	stored, err := f.store.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, stored.Status)
	assert.Empty(t, f.notifier.sms)
}

func TestGetOrderOwnership(t *testing.T) {
	f := newOrderFixture(t)
	o := f.place(t)

	_, err := f.svc.Get(context.Background(), customer, o.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), admin, o.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), stranger, o.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestListMine(t *testing.T) {
	f := newOrderFixture(t)
	f.place(t)

	mine, err := f.svc.ListMine(context.Background(), customer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.svc.ListMine(context.Background(), stranger)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestInvoiceArchivesCopy(t *testing.T) {
	f := newOrderFixture(t)
	o := f.place(t)

	_, pdf, err := f.svc.Invoice(context.Background(), customer, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	path, err := f.svc.InvoicePath(invoice.FileName(o.ID))
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = f.svc.InvoicePath("../../etc/passwd")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
