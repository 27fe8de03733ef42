package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/northwind-api/internal/domain/product"
)

type productRequest struct {
	ProductName     string  `json:"productName"`
	SupplierID      int     `json:"supplierId"`
	CategoryID      int     `json:"categoryId"`
	QuantityPerUnit string  `json:"quantityPerUnit"`
	UnitPrice       float64 `json:"unitPrice"`
	UnitsInStock    int     `json:"unitsInStock"`
	UnitsOnOrder    int     `json:"unitsOnOrder"`
	ReorderLevel    int     `json:"reorderLevel"`
	Discontinued    bool    `json:"discontinued"`
}

type productResponse struct {
	ProductID       int     `json:"productId"`
	ProductName     string  `json:"productName"`
	SupplierID      int     `json:"supplierId"`
	CategoryID      int     `json:"categoryId"`
	QuantityPerUnit string  `json:"quantityPerUnit"`
	UnitPrice       float64 `json:"unitPrice"`
	UnitsInStock    int     `json:"unitsInStock"`
	UnitsOnOrder    int     `json:"unitsOnOrder"`
	ReorderLevel    int     `json:"reorderLevel"`
	Discontinued    bool    `json:"discontinued"`
}

// ListProducts returns the whole catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetProduct returns one product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(*p))
}

// CreateProduct adds a product to the catalog.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductName == "" {
		respondError(w, http.StatusBadRequest, "productName required")
		return
	}

	id, err := h.products.Create(r.Context(), product.CreateInput{
		Name:            req.ProductName,
		SupplierID:      req.SupplierID,
		CategoryID:      req.CategoryID,
		QuantityPerUnit: req.QuantityPerUnit,
		UnitPrice:       decimal.NewFromFloat(req.UnitPrice),
		UnitsInStock:    req.UnitsInStock,
		UnitsOnOrder:    req.UnitsOnOrder,
		ReorderLevel:    req.ReorderLevel,
		Discontinued:    req.Discontinued,
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// UpdateProduct rewrites a product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	matched, err := h.products.Update(r.Context(), id, product.UpdateInput{
		Name:            req.ProductName,
		SupplierID:      req.SupplierID,
		CategoryID:      req.CategoryID,
		QuantityPerUnit: req.QuantityPerUnit,
		UnitPrice:       decimal.NewFromFloat(req.UnitPrice),
		UnitsInStock:    req.UnitsInStock,
		UnitsOnOrder:    req.UnitsOnOrder,
		ReorderLevel:    req.ReorderLevel,
		Discontinued:    req.Discontinued,
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if !matched {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existed, err := h.products.Delete(r.Context(), id)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if !existed {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ProductID:       p.ID,
		ProductName:     p.Name,
		SupplierID:      p.SupplierID,
		CategoryID:      p.CategoryID,
		QuantityPerUnit: p.QuantityPerUnit,
		UnitPrice:       p.UnitPrice.InexactFloat64(),
		UnitsInStock:    p.UnitsInStock,
		UnitsOnOrder:    p.UnitsOnOrder,
		ReorderLevel:    p.ReorderLevel,
		Discontinued:    p.Discontinued,
	}
}
