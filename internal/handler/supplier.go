package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/northwind-api/internal/domain/supplier"
)

type supplierRequest struct {
	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName"`
	ContactTitle string `json:"contactTitle"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	Fax          string `json:"fax"`
	HomePage     string `json:"homePage"`
}

type supplierResponse struct {
	SupplierID   int    `json:"supplierId"`
	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName"`
	ContactTitle string `json:"contactTitle"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	Fax          string `json:"fax"`
	HomePage     string `json:"homePage"`
}

// ListSuppliers returns all suppliers.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	resp := make([]supplierResponse, len(suppliers))
	for i, s := range suppliers {
		resp[i] = toSupplierResponse(s)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetSupplier returns one supplier.
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s, err := h.suppliers.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, supplier.ErrNotFound) {
			respondError(w, http.StatusNotFound, "supplier not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toSupplierResponse(*s))
}

// CreateSupplier adds a supplier.
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CompanyName == "" {
		respondError(w, http.StatusBadRequest, "companyName required")
		return
	}

	id, err := h.suppliers.Create(r.Context(), supplier.CreateInput{
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		ContactTitle: req.ContactTitle,
		Address:      req.Address,
		City:         req.City,
		Region:       req.Region,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
		Fax:          req.Fax,
		HomePage:     req.HomePage,
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// UpdateSupplier rewrites a supplier.
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req supplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	matched, err := h.suppliers.Update(r.Context(), id, supplier.UpdateInput{
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		ContactTitle: req.ContactTitle,
		Address:      req.Address,
		City:         req.City,
		Region:       req.Region,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
		Fax:          req.Fax,
		HomePage:     req.HomePage,
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if !matched {
		respondError(w, http.StatusNotFound, "supplier not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSupplier removes a supplier.
func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existed, err := h.suppliers.Delete(r.Context(), id)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if !existed {
		respondError(w, http.StatusNotFound, "supplier not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toSupplierResponse(s supplier.Supplier) supplierResponse {
	return supplierResponse{
		SupplierID:   s.ID,
		CompanyName:  s.CompanyName,
		ContactName:  s.ContactName,
		ContactTitle: s.ContactTitle,
		Address:      s.Address,
		City:         s.City,
		Region:       s.Region,
		PostalCode:   s.PostalCode,
		Country:      s.Country,
		Phone:        s.Phone,
		Fax:          s.Fax,
		HomePage:     s.HomePage,
	}
}
