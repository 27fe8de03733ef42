package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/northwind-api/internal/domain/auth"
	"github.com/xenking/northwind-api/internal/domain/category"
	"github.com/xenking/northwind-api/internal/domain/order"
	"github.com/xenking/northwind-api/internal/domain/product"
	"github.com/xenking/northwind-api/internal/domain/supplier"
)

// --- In-memory stores ---

type stubOrderRepo struct {
	byID   map[int]*order.Order
	nextID int
}

func (s *stubOrderRepo) List(_ context.Context) ([]order.Order, error) {
	out := make([]order.Order, 0, len(s.byID))
	for _, o := range s.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id int) (*order.Order, error) {
	o, ok := s.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrderRepo) Create(_ context.Context, o *order.Order) (int, error) {
	s.nextID++
	o.ID = s.nextID
	for i := range o.Details {
		o.Details[i].OrderID = o.ID
	}
	s.byID[o.ID] = o
	return o.ID, nil
}

func (s *stubOrderRepo) Update(_ context.Context, o *order.Order) (bool, error) {
	if _, ok := s.byID[o.ID]; !ok {
		return false, nil
	}
	s.byID[o.ID] = o
	return true, nil
}

func (s *stubOrderRepo) Delete(_ context.Context, id int) (bool, error) {
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok, nil
}

type stubCategoryRepo struct {
	byID   map[int]*category.Category
	nextID int
}

func (s *stubCategoryRepo) List(_ context.Context) ([]category.Category, error) {
	out := make([]category.Category, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCategoryRepo) GetByID(_ context.Context, id int) (*category.Category, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, category.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubCategoryRepo) GetByName(_ context.Context, name string) (*category.Category, error) {
	for _, c := range s.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, category.ErrNotFound
}

func (s *stubCategoryRepo) Create(_ context.Context, c *category.Category) (int, error) {
	s.nextID++
	c.ID = s.nextID
	s.byID[c.ID] = c
	return c.ID, nil
}

func (s *stubCategoryRepo) Update(_ context.Context, c *category.Category) (bool, error) {
	if _, ok := s.byID[c.ID]; !ok {
		return false, nil
	}
	s.byID[c.ID] = c
	return true, nil
}

func (s *stubCategoryRepo) Delete(_ context.Context, id int) (bool, error) {
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok, nil
}

type stubProductRepo struct {
	byID   map[int]*product.Product
	nextID int
}

func (s *stubProductRepo) List(_ context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id int) (*product.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) Create(_ context.Context, p *product.Product) (int, error) {
	s.nextID++
	p.ID = s.nextID
	s.byID[p.ID] = p
	return p.ID, nil
}

func (s *stubProductRepo) Update(_ context.Context, p *product.Product) (bool, error) {
	if _, ok := s.byID[p.ID]; !ok {
		return false, nil
	}
	s.byID[p.ID] = p
	return true, nil
}

func (s *stubProductRepo) Delete(_ context.Context, id int) (bool, error) {
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok, nil
}

type stubSupplierRepo struct {
	byID   map[int]*supplier.Supplier
	nextID int
}

func (s *stubSupplierRepo) List(_ context.Context) ([]supplier.Supplier, error) {
	out := make([]supplier.Supplier, 0, len(s.byID))
	for _, sp := range s.byID {
		out = append(out, *sp)
	}
	return out, nil
}

func (s *stubSupplierRepo) GetByID(_ context.Context, id int) (*supplier.Supplier, error) {
	sp, ok := s.byID[id]
	if !ok {
		return nil, supplier.ErrNotFound
	}
	cp := *sp
	return &cp, nil
}

func (s *stubSupplierRepo) Create(_ context.Context, sp *supplier.Supplier) (int, error) {
	s.nextID++
	sp.ID = s.nextID
	s.byID[sp.ID] = sp
	return sp.ID, nil
}

func (s *stubSupplierRepo) Update(_ context.Context, sp *supplier.Supplier) (bool, error) {
	if _, ok := s.byID[sp.ID]; !ok {
		return false, nil
	}
	s.byID[sp.ID] = sp
	return true, nil
}

func (s *stubSupplierRepo) Delete(_ context.Context, id int) (bool, error) {
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok, nil
}

// --- Harness ---

type testAPI struct {
	mux   *http.ServeMux
	token string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	authSvc := auth.NewService(auth.Config{
		Username: "admin",
		Password: "s3cret",
		Key:      "test-signing-key",
		TTL:      time.Hour,
	})

	h := NewHandler(
		order.NewService(&stubOrderRepo{byID: map[int]*order.Order{}}),
		category.NewService(&stubCategoryRepo{byID: map[int]*category.Category{}}),
		product.NewService(&stubProductRepo{byID: map[int]*product.Product{}}),
		supplier.NewService(&stubSupplierRepo{byID: map[int]*supplier.Supplier{}}),
		authSvc,
	)

	mux := http.NewServeMux()
	h.Register(mux)

	tok, err := authSvc.Login("admin", "s3cret")
	require.NoError(t, err)

	return &testAPI{mux: mux, token: tok.Value}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+a.token)
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

// --- Tests ---

func TestLoginAndAuth(t *testing.T) {
	api := newTestAPI(t)

	// No token at all.
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	w = httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong credentials on login.
	w = httptest.NewRecorder()
	api.mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Good login returns a token that opens protected routes.
	w = httptest.NewRecorder()
	api.mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"s3cret"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody[map[string]any](t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/orders", `{
		"customerId": "VINET",
		"employeeId": 5,
		"orderDate": "2024-07-04T12:00:00Z",
		"shipVia": 3,
		"freight": 32.38,
		"shipName": "Vins et alcools Chevalier",
		"details": [
			{"productId": 11, "unitPrice": 14.0, "quantity": 12},
			{"productId": 42, "unitPrice": 9.8, "quantity": 10, "discount": 0.05}
		]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[createdResponse](t, w)
	require.Positive(t, created.ID)

	w = api.do(t, http.MethodGet, "/api/orders/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[orderResponse](t, w)
	assert.Equal(t, "VINET", got.CustomerID)
	require.Len(t, got.Details, 2)
	assert.Equal(t, created.ID, got.Details[0].OrderID)

	// List omits line data.
	w = api.do(t, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]orderResponse](t, w)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Details)

	w = api.do(t, http.MethodPut, "/api/orders/1", `{
		"customerId": "VINET",
		"employeeId": 5,
		"orderDate": "2024-07-04T12:00:00Z",
		"shippedDate": "2024-07-16T00:00:00Z",
		"shipVia": 3,
		"freight": 41.34
	}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodGet, "/api/orders/1", "")
	got = decodeBody[orderResponse](t, w)
	require.NotNil(t, got.ShippedDate)
	assert.InDelta(t, 41.34, got.Freight, 1e-9)

	w = api.do(t, http.MethodDelete, "/api/orders/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodGet, "/api/orders/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderNotFoundAndValidation(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/orders/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPut, "/api/orders/404", `{"customerId":"HANAR","orderDate":"2024-07-04T12:00:00Z"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodDelete, "/api/orders/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Non-numeric identifier.
	w = api.do(t, http.MethodGet, "/api/orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed body.
	w = api.do(t, http.MethodPost, "/api/orders", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Line without a product.
	w = api.do(t, http.MethodPost, "/api/orders", `{
		"customerId": "VINET",
		"orderDate": "2024-07-04T12:00:00Z",
		"details": [{"productId": 0, "quantity": 5}]
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody[errorResponse](t, w)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCategoryConflict(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/categories", `{"categoryName":"Beverages","description":"Drinks"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same name again is a conflict.
	w = api.do(t, http.MethodPost, "/api/categories", `{"categoryName":"Beverages"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Empty name is invalid.
	w = api.do(t, http.MethodPost, "/api/categories", `{"categoryName":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/categories", `{"categoryName":"Condiments"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Renaming onto a taken name conflicts; keeping its own name does not.
	w = api.do(t, http.MethodPut, "/api/categories/2", `{"categoryName":"Beverages"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPut, "/api/categories/2", `{"categoryName":"Condiments","description":"updated"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodPut, "/api/categories/404", `{"categoryName":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductCRUD(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/products", `{
		"productName": "Chai",
		"supplierId": 1,
		"categoryId": 1,
		"quantityPerUnit": "10 boxes x 20 bags",
		"unitPrice": 18.0,
		"unitsInStock": 39
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodGet, "/api/products/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[map[string]any](t, w)
	assert.Equal(t, "Chai", got["productName"])
	assert.InDelta(t, 18.0, got["unitPrice"], 1e-9)

	w = api.do(t, http.MethodPut, "/api/products/1", `{"productName":"Chai","unitPrice":19.0,"discontinued":true}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodDelete, "/api/products/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodGet, "/api/products/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSupplierCRUD(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/suppliers", `{
		"companyName": "Exotic Liquids",
		"contactName": "Charlotte Cooper",
		"city": "London",
		"country": "UK"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodGet, "/api/suppliers", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Exotic Liquids", list[0]["companyName"])

	w = api.do(t, http.MethodDelete, "/api/suppliers/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
