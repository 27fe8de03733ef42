// Package handler exposes the catalog and order services over HTTP.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/northwind-api/internal/domain/auth"
	"github.com/xenking/northwind-api/internal/domain/category"
	"github.com/xenking/northwind-api/internal/domain/order"
	"github.com/xenking/northwind-api/internal/domain/product"
	"github.com/xenking/northwind-api/internal/domain/supplier"
)

// Handler maps HTTP requests to the domain services.
type Handler struct {
	orders     *order.Service
	categories *category.Service
	products   *product.Service
	suppliers  *supplier.Service
	auth       *auth.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	orders *order.Service,
	categories *category.Service,
	products *product.Service,
	suppliers *supplier.Service,
	authSvc *auth.Service,
) *Handler {
	return &Handler{
		orders:     orders,
		categories: categories,
		products:   products,
		suppliers:  suppliers,
		auth:       authSvc,
	}
}

// Register mounts all API routes on the mux. Everything except login sits
// behind the bearer-token check.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.Login)

	protected := func(fn http.HandlerFunc) http.HandlerFunc {
		return h.requireAuth(fn)
	}

	mux.HandleFunc("GET /api/orders", protected(h.ListOrders))
	mux.HandleFunc("POST /api/orders", protected(h.CreateOrder))
	mux.HandleFunc("GET /api/orders/{id}", protected(h.GetOrder))
	mux.HandleFunc("PUT /api/orders/{id}", protected(h.UpdateOrder))
	mux.HandleFunc("DELETE /api/orders/{id}", protected(h.DeleteOrder))

	mux.HandleFunc("GET /api/categories", protected(h.ListCategories))
	mux.HandleFunc("POST /api/categories", protected(h.CreateCategory))
	mux.HandleFunc("GET /api/categories/{id}", protected(h.GetCategory))
	mux.HandleFunc("PUT /api/categories/{id}", protected(h.UpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", protected(h.DeleteCategory))

	mux.HandleFunc("GET /api/products", protected(h.ListProducts))
	mux.HandleFunc("POST /api/products", protected(h.CreateProduct))
	mux.HandleFunc("GET /api/products/{id}", protected(h.GetProduct))
	mux.HandleFunc("PUT /api/products/{id}", protected(h.UpdateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", protected(h.DeleteProduct))

	mux.HandleFunc("GET /api/suppliers", protected(h.ListSuppliers))
	mux.HandleFunc("POST /api/suppliers", protected(h.CreateSupplier))
	mux.HandleFunc("GET /api/suppliers/{id}", protected(h.GetSupplier))
	mux.HandleFunc("PUT /api/suppliers/{id}", protected(h.UpdateSupplier))
	mux.HandleFunc("DELETE /api/suppliers/{id}", protected(h.DeleteSupplier))
}

// requireAuth rejects requests without a valid bearer token.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := h.auth.Verify(token); err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

// errorResponse is the JSON error body for all endpoints.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// createdResponse is the JSON body for successful creates.
type createdResponse struct {
	ID int `json:"id"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Code: status, Message: message})
}

// respondInternal logs the underlying failure and hides it from the client.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "internal error")
}

// pathID parses the {id} path segment. A malformed value reports 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
