package store

import (
	"context"
	"testing"

	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedCategory(t *testing.T, m *Memory, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, m.CreateCategory(context.Background(), c))
	return c
}

func TestMemoryProductRoundTripIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	cat := seedCategory(t, m, "Mobiles")

	p := &models.Product{Name: "Galaxy", Price: 1000, Discount: 10, Cost: 600, CategoryID: strPtr(cat.ID), Images: []string{"a.jpg"}}
	require.NoError(t, m.CreateProduct(ctx, p))
	require.NotEmpty(t, p.ID)
	assert.InDelta(t, 900, p.FinalPrice, 0.001)

	// Mutating the caller's copy must not leak into the store.
	p.Images[0] = "changed.jpg"

	got, err := m.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, got.Images)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Mobiles", got.Category.Name)

	_, err = m.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListProductsFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	mobiles := seedCategory(t, m, "Mobiles")
	accessories := seedCategory(t, m, "Accessories")

	for _, p := range []*models.Product{
		{Name: "Redmi Note", Brand: "Xiaomi", Price: 15000, CategoryID: strPtr(mobiles.ID)},
		{Name: "Galaxy A15", Brand: "Samsung", Price: 20000, Discount: 50, CategoryID: strPtr(mobiles.ID)},
		{Name: "Charger", Brand: "Samsung", Price: 999, CategoryID: strPtr(accessories.ID)},
	} {
		require.NoError(t, m.CreateProduct(ctx, p))
	}

	got, err := m.ListProducts(ctx, ProductFilter{Search: "samsung", SortBy: "final_price", Asc: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Charger", got[0].Name)
	assert.Equal(t, "Galaxy A15", got[1].Name)

	got, err = m.ListProducts(ctx, ProductFilter{CategoryID: mobiles.ID, SortBy: "name", Asc: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Galaxy A15", got[0].Name)

	minPrice := 10000.0
	got, err = m.ListProducts(ctx, ProductFilter{MinPrice: &minPrice, SortBy: "price"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Galaxy A15", got[0].Name, "descending by base price")
}

func TestMemoryRepriceCategory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	target := seedCategory(t, m, "Mobiles")
	other := seedCategory(t, m, "Tablets")

	a := &models.Product{Name: "A", Price: 1000, Cost: 500, CategoryID: strPtr(target.ID)}
	b := &models.Product{Name: "B", Price: 200, Cost: 100, CategoryID: strPtr(other.ID)}
	require.NoError(t, m.CreateProduct(ctx, a))
	require.NoError(t, m.CreateProduct(ctx, b))

	n, err := m.RepriceCategory(ctx, target.ID, func(p *models.Product) { p.Discount = 20 })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	gotA, _ := m.GetProduct(ctx, a.ID)
	assert.InDelta(t, 800, gotA.FinalPrice, 0.001)
	assert.InDelta(t, 300, gotA.Profit, 0.001)

	gotB, _ := m.GetProduct(ctx, b.ID)
	assert.Zero(t, gotB.Discount)
	assert.InDelta(t, 200, gotB.FinalPrice, 0.001)

	count, err := m.CountProductsByCategory(ctx, target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMemoryCategoryDuplicates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedCategory(t, m, "Mobiles")
	other := seedCategory(t, m, "Tablets")

	assert.ErrorIs(t, m.CreateCategory(ctx, &models.Category{Name: "Mobiles"}), ErrDuplicate)

	other.Name = "Mobiles"
	assert.ErrorIs(t, m.SaveCategory(ctx, other), ErrDuplicate)

	list, err := m.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Mobiles", list[0].Name)
	assert.Equal(t, "Tablets", list[1].Name)

	assert.ErrorIs(t, m.DeleteCategory(ctx, "nope"), ErrNotFound)
}

func TestMemoryOrderItemsAreSnapshots(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	o := &models.Order{UserID: "u1", Items: []models.OrderItem{{Name: "Galaxy", Quantity: 1}}}
	require.NoError(t, m.CreateOrder(ctx, o))
	assert.Equal(t, models.StatusPlaced, o.Status)

	o.Items[0].Name = "mutated"
	got, err := m.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Galaxy", got.Items[0].Name)

	require.NoError(t, m.UpdateOrderStatus(ctx, o.ID, models.StatusCancelled))
	mine, err := m.ListOrders(ctx, OrderFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.StatusCancelled, mine[0].Status)

	assert.ErrorIs(t, m.UpdateOrderStatus(ctx, "missing", models.StatusCancelled), ErrNotFound)
}

func TestMemoryServiceRequestsNormalizeLegacyStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	legacy := &models.ServiceRequest{Name: "Ravi", Status: "New"}
	done := &models.ServiceRequest{Name: "Priya", Status: "resolved"}
	require.NoError(t, m.CreateServiceRequest(ctx, legacy))
	require.NoError(t, m.CreateServiceRequest(ctx, done))

	got, err := m.GetServiceRequest(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlaced, got.Status)

	completed, err := m.ListServiceRequests(ctx, ServiceRequestFilter{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Priya", completed[0].Name)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	u := &models.User{Name: "Asha", Email: "asha@svm.test", Password: "hash"}
	require.NoError(t, m.CreateUser(ctx, u))
	assert.Equal(t, models.RoleCustomer, u.Role)
	assert.ErrorIs(t, m.CreateUser(ctx, &models.User{Email: "asha@svm.test"}), ErrDuplicate)

	require.NoError(t, m.UpdateUserPassword(ctx, u.ID, "new-hash"))
	got, err := m.GetUserByEmail(ctx, "asha@svm.test")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)
}
