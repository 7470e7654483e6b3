package service

import (
	"context"
	"sync"
	"testing"

	"watchify/internal/models"
	"watchify/internal/redisclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductCache is an in-memory ProductCache.
type fakeProductCache struct {
	mu      sync.Mutex
	entries map[int64]*models.Product
	hits    int
	sets    int
}

func newFakeProductCache() *fakeProductCache {
	return &fakeProductCache{entries: make(map[int64]*models.Product)}
}

func (c *fakeProductCache) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[id]
	if !ok {
		return nil, redisclient.ErrCacheMiss
	}
	c.hits++
	cp := *p
	return &cp, nil
}

func (c *fakeProductCache) SetProduct(_ context.Context, product *models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *product
	c.entries[product.ID] = &cp
	c.sets++
	return nil
}

func (c *fakeProductCache) InvalidateProduct(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

func productFixture(t *testing.T) (*fakeStore, *ProductService, *models.Category) {
	t.Helper()
	fs := newFakeStore()
	cat := fs.seedCategory(models.Category{Name: "Dive Watches"})
	return fs, NewProductService(fs, nil, nil), cat
}

func intp(v int) *int { return &v }

func TestCreateProduct(t *testing.T) {
	_, svc, cat := productFixture(t)

	product, err := svc.Create(context.Background(), &CreateProductRequest{
		Name:        "Diver 200m",
		Brand:       "Seiko",
		Price:       250,
		Quantity:    intp(10),
		CategoryID:  cat.ID,
		ImageURL:    "https://cdn.example.com/diver.jpg",
		Description: "Automatic dive watch",
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, 10, product.Quantity)
}

func TestCreateProductValidation(t *testing.T) {
	_, svc, cat := productFixture(t)

	_, err := svc.Create(context.Background(), &CreateProductRequest{
		Price:       -3,
		Quantity:    intp(-1),
		CategoryID:  cat.ID,
		ImageURL:    "not a url",
		Description: "d",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "brand")
	assert.Equal(t, "Price must be a positive number", verr.Fields["price"])
	assert.Equal(t, "Quantity cannot be negative", verr.Fields["quantity"])
	assert.Equal(t, "Invalid image URL format", verr.Fields["image_url"])
}

func TestCreateProductUnknownCategory(t *testing.T) {
	_, svc, _ := productFixture(t)

	_, err := svc.Create(context.Background(), &CreateProductRequest{
		Name:        "Diver 200m",
		Brand:       "Seiko",
		Price:       250,
		Quantity:    intp(10),
		CategoryID:  5151,
		ImageURL:    "https://cdn.example.com/diver.jpg",
		Description: "Automatic dive watch",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Category not found", verr.Message)
}

func TestUpdateProductPartial(t *testing.T) {
	fs, svc, cat := productFixture(t)
	p := fs.seedProduct(models.Product{Name: "Diver 200m", Brand: "Seiko", Price: 250, Quantity: 10, CategoryID: cat.ID})

	price := 199.0
	require.NoError(t, svc.Update(context.Background(), p.ID, &UpdateProductRequest{Price: &price}))

	got, _ := fs.GetProductByID(context.Background(), p.ID)
	assert.Equal(t, 199.0, got.Price)
	assert.Equal(t, "Seiko", got.Brand)
	assert.Equal(t, 10, got.Quantity)
}

func TestGetByIDUsesCache(t *testing.T) {
	fs := newFakeStore()
	cat := fs.seedCategory(models.Category{Name: "Dive Watches"})
	p := fs.seedProduct(models.Product{Name: "Diver 200m", Brand: "Seiko", Price: 250, Quantity: 10, CategoryID: cat.ID})

	cache := newFakeProductCache()
	svc := NewProductService(fs, cache, nil)

	first, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// The second read is served from the cache even after the store row
	// changes underneath it.
	require.NoError(t, fs.UpdateProductQuantity(context.Background(), p.ID, 0))
	second, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Quantity, second.Quantity)
}

func TestGetByIDNotFound(t *testing.T) {
	_, svc, _ := productFixture(t)

	_, err := svc.GetByID(context.Background(), 888)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Product not found", nf.Error())
}

func TestDecreaseQuantity(t *testing.T) {
	fs, svc, cat := productFixture(t)
	p := fs.seedProduct(models.Product{Name: "Diver 200m", Brand: "Seiko", Price: 250, Quantity: 5, CategoryID: cat.ID})

	require.NoError(t, svc.DecreaseQuantity(context.Background(), p.ID, 3))
	got, _ := fs.GetProductByID(context.Background(), p.ID)
	assert.Equal(t, 2, got.Quantity)

	err := svc.DecreaseQuantity(context.Background(), p.ID, 3)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Insufficient quantity available", verr.Message)

	got, _ = fs.GetProductByID(context.Background(), p.ID)
	assert.Equal(t, 2, got.Quantity)
}

func TestDecreaseQuantityConcurrentNeverNegative(t *testing.T) {
	fs, svc, cat := productFixture(t)
	p := fs.seedProduct(models.Product{Name: "Diver 200m", Brand: "Seiko", Price: 250, Quantity: 10, CategoryID: cat.ID})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.DecreaseQuantity(context.Background(), p.ID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, _ := fs.GetProductByID(context.Background(), p.ID)
	assert.GreaterOrEqual(t, got.Quantity, 0)
	assert.Equal(t, 10-succeeded, got.Quantity)
}

func TestUpdateQuantityRejectsNegative(t *testing.T) {
	fs, svc, cat := productFixture(t)
	p := fs.seedProduct(models.Product{Name: "Diver 200m", Brand: "Seiko", Price: 250, Quantity: 5, CategoryID: cat.ID})

	err := svc.UpdateQuantity(context.Background(), p.ID, -1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, svc.UpdateQuantity(context.Background(), p.ID, 0))
	got, _ := fs.GetProductByID(context.Background(), p.ID)
	assert.Equal(t, 0, got.Quantity)
}

func TestProductFinders(t *testing.T) {
	fs, svc, cat := productFixture(t)
	fs.seedProduct(models.Product{Name: "Diver 200m", Brand: "Seiko", Price: 250, Quantity: 10, CategoryID: cat.ID})
	fs.seedProduct(models.Product{Name: "Field Watch", Brand: "Hamilton", Price: 400, Quantity: 0, CategoryID: cat.ID})

	byCat, err := svc.GetByCategory(context.Background(), cat.ID)
	require.NoError(t, err)
	assert.Len(t, byCat, 2)

	byBrand, err := svc.GetByBrand(context.Background(), "Seiko")
	require.NoError(t, err)
	assert.Len(t, byBrand, 1)

	available, err := svc.GetAvailable(context.Background())
	require.NoError(t, err)
	assert.Len(t, available, 1)

	_, err = svc.GetByBrand(context.Background(), "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteProduct(t *testing.T) {
	fs, svc, cat := productFixture(t)
	p := fs.seedProduct(models.Product{Name: "Diver 200m", Brand: "Seiko", Price: 250, Quantity: 10, CategoryID: cat.ID})

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	var nf *NotFoundError
	err := svc.Delete(context.Background(), p.ID)
	assert.ErrorAs(t, err, &nf)
}
