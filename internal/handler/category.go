package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/northwind-api/internal/domain/category"
)

// categoryRequest is the inbound shape for creating and updating categories.
// Picture is base64 in JSON.
type categoryRequest struct {
	CategoryName string `json:"categoryName"`
	Description  string `json:"description"`
	Picture      []byte `json:"picture,omitempty"`
}

type categoryResponse struct {
	CategoryID   int    `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Description  string `json:"description"`
	Picture      []byte `json:"picture,omitempty"`
}

// ListCategories returns all categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetCategory returns one category.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := h.categories.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryResponse(*c))
}

// CreateCategory creates a category. A name already in use is a conflict.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CategoryName == "" {
		respondError(w, http.StatusBadRequest, "categoryName required")
		return
	}

	id, err := h.categories.Create(r.Context(), category.CreateInput{
		Name:        req.CategoryName,
		Description: req.Description,
		Picture:     req.Picture,
	})
	if err != nil {
		if errors.Is(err, category.ErrDuplicateName) {
			respondError(w, http.StatusConflict, "category name already exists")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// UpdateCategory rewrites a category. Keeping its own name is allowed;
// taking another category's name is a conflict.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	matched, err := h.categories.Update(r.Context(), id, category.UpdateInput{
		Name:        req.CategoryName,
		Description: req.Description,
		Picture:     req.Picture,
	})
	if err != nil {
		if errors.Is(err, category.ErrDuplicateName) {
			respondError(w, http.StatusConflict, "category name already exists")
			return
		}
		respondInternal(w, r, err)
		return
	}
	if !matched {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategory removes a category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existed, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if !existed {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toCategoryResponse(c category.Category) categoryResponse {
	return categoryResponse{
		CategoryID:   c.ID,
		CategoryName: c.Name,
		Description:  c.Description,
		Picture:      c.Picture,
	}
}
