package service

import (
	"context"
	"sync"
	"time"

	"watchify/internal/models"
	"watchify/internal/store"
)

// fakeStore is an in-memory stand-in for the sqlx store, shared by the
// service tests. The mutex makes it safe for the concurrency tests.
type fakeStore struct {
	mu sync.Mutex

	users      map[int64]*models.User
	categories map[int64]*models.Category
	products   map[int64]*models.Product
	orders     map[int64]*models.Order
	orderItems map[int64][]models.OrderProduct

	nextID int64

	// When set, CreateOrderWithItems fails with ErrInsufficientStock
	// for this product to simulate losing the row guard at commit.
	raceLoserProduct int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[int64]*models.User),
		categories: make(map[int64]*models.Category),
		products:   make(map[int64]*models.Product),
		orders:     make(map[int64]*models.Order),
		orderItems: make(map[int64][]models.OrderProduct),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) seedUser(u models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.id()
	f.users[u.ID] = &u
	return &u
}

func (f *fakeStore) seedCategory(c models.Category) *models.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	f.categories[c.ID] = &c
	return &c
}

func (f *fakeStore) seedProduct(p models.Product) *models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	f.products[p.ID] = &p
	return &p
}

// fakeEvents records published events for assertions.
type fakeEvents struct {
	mu            sync.Mutex
	ordersCreated []int64
	statusChanges []string
	productEvents map[string][]int64
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{productEvents: make(map[string][]int64)}
}

func (e *fakeEvents) PublishOrderCreated(_ context.Context, order *models.Order, _ []models.OrderLineData) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ordersCreated = append(e.ordersCreated, order.ID)
	return nil
}

func (e *fakeEvents) PublishOrderStatusChanged(_ context.Context, _ int64, status string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statusChanges = append(e.statusChanges, status)
	return nil
}

func (e *fakeEvents) PublishProductEvent(_ context.Context, eventType string, productID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.productEvents[eventType] = append(e.productEvents[eventType], productID)
	return nil
}

// --- users ---

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrNoRows
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateUserPassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNoRows
	}
	u.Password = hash
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

// --- categories ---

func (f *fakeStore) CreateCategory(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	category.ID = f.id()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	cp := *category
	f.categories[category.ID] = &cp
	return nil
}

func (f *fakeStore) GetCategoryByID(_ context.Context, id int64) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, store.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetCategoryByName(_ context.Context, name string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetCategories(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) GetCategoriesWithProductCount(_ context.Context) ([]models.CategoryWithCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.CategoryWithCount, 0, len(f.categories))
	for _, c := range f.categories {
		var count int64
		for _, p := range f.products {
			if p.CategoryID == c.ID {
				count++
			}
		}
		out = append(out, models.CategoryWithCount{Category: *c, ProductCount: count})
	}
	return out, nil
}

func (f *fakeStore) CountProductsByCategory(_ context.Context, categoryID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) UpdateCategory(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[category.ID]; !ok {
		return store.ErrNoRows
	}
	cp := *category
	f.categories[category.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.categories, id)
	return nil
}

// --- products ---

func (f *fakeStore) CreateProduct(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = f.id()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeStore) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetProducts(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) GetProductsByCategory(_ context.Context, categoryID int64) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProductsByBrand(_ context.Context, brand string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if p.Brand == brand {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAvailableProducts(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if p.Quantity > 0 {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetPopularProducts(_ context.Context, limit int) ([]models.Product, error) {
	return f.GetProducts(context.Background())
}

func (f *fakeStore) GetNewArrivals(_ context.Context, limit int) ([]models.Product, error) {
	return f.GetProducts(context.Background())
}

func (f *fakeStore) UpdateProduct(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[product.ID]; !ok {
		return store.ErrNoRows
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateProductQuantity(_ context.Context, id int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return store.ErrNoRows
	}
	p.Quantity = quantity
	return nil
}

func (f *fakeStore) DecreaseProductQuantity(_ context.Context, id int64, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return store.ErrNoRows
	}
	if p.Quantity < amount {
		return store.ErrInsufficientStock
	}
	p.Quantity -= amount
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

// --- orders ---

func (f *fakeStore) CreateOrderWithItems(_ context.Context, order *models.Order, items []models.OrderProduct) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Mirror the transaction: either everything lands or nothing does.
	for _, item := range items {
		p, ok := f.products[item.ProductID]
		if !ok {
			return store.ErrNoRows
		}
		if item.ProductID == f.raceLoserProduct || p.Quantity < item.Quantity {
			return store.ErrInsufficientStock
		}
	}

	order.ID = f.id()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	cp := *order
	f.orders[order.ID] = &cp

	lines := make([]models.OrderProduct, 0, len(items))
	for _, item := range items {
		item.ID = f.id()
		item.OrderID = order.ID
		item.CreatedAt = order.CreatedAt
		lines = append(lines, item)
		f.products[item.ProductID].Quantity -= item.Quantity
	}
	f.orderItems[order.ID] = lines
	return nil
}

func (f *fakeStore) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNoRows
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) GetOrders(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) GetOrdersByUserID(_ context.Context, userID int64) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOrdersByStatus(_ context.Context, status string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOrdersByDateRange(_ context.Context, start, end time.Time) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if !o.CreatedAt.Before(start) && !o.CreatedAt.After(end) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOrdersWithUserInfo(_ context.Context) ([]models.OrderWithUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OrderWithUser
	for _, o := range f.orders {
		row := models.OrderWithUser{Order: *o}
		if u, ok := f.users[o.UserID]; ok {
			row.UserName = u.Name
			row.UserEmail = u.Email
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeStore) GetOrderItemsByOrderID(_ context.Context, orderID int64) ([]models.OrderProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderProduct(nil), f.orderItems[orderID]...), nil
}

func (f *fakeStore) UpdateOrder(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[order.ID]; !ok {
		return store.ErrNoRows
	}
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNoRows
	}
	o.Status = status
	return nil
}

func (f *fakeStore) DeleteOrder(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.orders, id)
	delete(f.orderItems, id)
	return nil
}
