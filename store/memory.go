package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vidhyalakshmi16/svm-mobiles/models"
)

// Memory keeps everything in process. It backs tests and the "memory"
// database driver; data is lost on exit.
type Memory struct {
	mu         sync.RWMutex
	products   map[string]models.Product
	categories map[string]models.Category
	orders     map[string]models.Order
	requests   map[string]models.ServiceRequest
	users      map[string]models.User
	now        func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		products:   make(map[string]models.Product),
		categories: make(map[string]models.Category),
		orders:     make(map[string]models.Order),
		requests:   make(map[string]models.ServiceRequest),
		users:      make(map[string]models.User),
		now:        time.Now,
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) stamp(id *string, created, updated *time.Time) {
	now := m.now()
	if *id == "" {
		*id = models.NewID()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	if p.CategoryID != nil {
		id := *p.CategoryID
		p.CategoryID = &id
	}
	p.Category = nil
	return p
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

// ─────────── Products ───────────

func (m *Memory) withCategory(p models.Product) models.Product {
	p = cloneProduct(p)
	if p.CategoryID != nil {
		if c, ok := m.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return p
}

func (m *Memory) CreateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	p.Reprice()
	m.products[p.ID] = cloneProduct(*p)
	return nil
}

func (m *Memory) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := m.withCategory(p)
	return &out, nil
}

func (m *Memory) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(f.Search)
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Brand), search) {
			continue
		}
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.MinPrice != nil && p.FinalPrice < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.FinalPrice > *f.MaxPrice {
			continue
		}
		out = append(out, m.withCategory(p))
	}

	less := func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch ProductSorts[f.SortBy] {
	case "price":
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case "final_price":
		less = func(a, b models.Product) bool { return a.FinalPrice < b.FinalPrice }
	case "name":
		less = func(a, b models.Product) bool { return a.Name < b.Name }
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Asc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out, nil
}

func (m *Memory) AllProducts(ctx context.Context) ([]models.Product, error) {
	return m.ListProducts(ctx, ProductFilter{SortBy: "name", Asc: true})
}

func (m *Memory) SaveProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	p.Reprice()
	m.products[p.ID] = cloneProduct(*p)
	return nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

// RepriceCategory holds the write lock for the whole batch, so readers never
// see it half applied.
func (m *Memory) RepriceCategory(ctx context.Context, categoryID string, fn func(*models.Product)) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, p := range m.products {
		if p.CategoryID == nil || *p.CategoryID != categoryID {
			continue
		}
		p = cloneProduct(p)
		fn(&p)
		p.Reprice()
		p.UpdatedAt = m.now()
		m.products[id] = p
		n++
	}
	return n, nil
}

func (m *Memory) CountProductsByCategory(ctx context.Context, categoryID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, p := range m.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// ─────────── Categories ───────────

func (m *Memory) nameTaken(name, exceptID string) bool {
	for id, c := range m.categories {
		if c.Name == name && id != exceptID {
			return true
		}
	}
	return false
}

func (m *Memory) CreateCategory(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(c.Name, "") {
		return ErrDuplicate
	}
	m.stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	m.categories[c.ID] = *c
	return nil
}

func (m *Memory) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) SaveCategory(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(c.Name, c.ID) {
		return ErrDuplicate
	}
	m.stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	m.categories[c.ID] = *c
	return nil
}

func (m *Memory) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

// ─────────── Orders ───────────

func (m *Memory) CreateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if o.Status == "" {
		o.Status = models.StatusPlaced
	}
	m.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (m *Memory) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (m *Memory) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Order, 0)
	for _, o := range m.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateOrderStatus(ctx context.Context, id string, status models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = m.now()
	m.orders[id] = o
	return nil
}

// ─────────── Service requests ───────────

func (m *Memory) CreateServiceRequest(ctx context.Context, r *models.ServiceRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if r.Status == "" {
		r.Status = models.StatusPlaced
	}
	m.requests[r.ID] = *r
	return nil
}

func (m *Memory) GetServiceRequest(ctx context.Context, id string) (*models.ServiceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Status = models.NormalizeStatus(string(r.Status))
	return &r, nil
}

func (m *Memory) ListServiceRequests(ctx context.Context, f ServiceRequestFilter) ([]models.ServiceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ServiceRequest, 0)
	for _, r := range m.requests {
		r.Status = models.NormalizeStatus(string(r.Status))
		if f.UserID != "" && r.UserID != f.UserID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateServiceRequestStatus(ctx context.Context, id string, status models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = m.now()
	m.requests[id] = r
	return nil
}

// ─────────── Users ───────────

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	m.stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateUserPassword(ctx context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = m.now()
	m.users[id] = u
	return nil
}
