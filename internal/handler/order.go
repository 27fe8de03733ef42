package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/northwind-api/internal/domain/order"
)

// orderLineRequest is one inbound order line.
type orderLineRequest struct {
	ProductID int     `json:"productId"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Discount  float64 `json:"discount"`
}

// orderRequest is the inbound shape for creating and updating orders. The
// details field is ignored on update: lines are fixed at creation.
type orderRequest struct {
	CustomerID     string             `json:"customerId"`
	EmployeeID     int                `json:"employeeId"`
	OrderDate      time.Time          `json:"orderDate"`
	RequiredDate   *time.Time         `json:"requiredDate,omitempty"`
	ShippedDate    *time.Time         `json:"shippedDate,omitempty"`
	ShipVia        int                `json:"shipVia"`
	Freight        float64            `json:"freight"`
	ShipName       string             `json:"shipName"`
	ShipAddress    string             `json:"shipAddress"`
	ShipCity       string             `json:"shipCity"`
	ShipRegion     string             `json:"shipRegion"`
	ShipPostalCode string             `json:"shipPostalCode"`
	ShipCountry    string             `json:"shipCountry"`
	Details        []orderLineRequest `json:"details,omitempty"`
}

type orderLineResponse struct {
	OrderID   int     `json:"orderId"`
	ProductID int     `json:"productId"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Discount  float64 `json:"discount"`
}

type orderResponse struct {
	OrderID        int                 `json:"orderId"`
	CustomerID     string              `json:"customerId"`
	EmployeeID     int                 `json:"employeeId"`
	OrderDate      time.Time           `json:"orderDate"`
	RequiredDate   *time.Time          `json:"requiredDate,omitempty"`
	ShippedDate    *time.Time          `json:"shippedDate,omitempty"`
	ShipVia        int                 `json:"shipVia"`
	Freight        float64             `json:"freight"`
	ShipName       string              `json:"shipName"`
	ShipAddress    string              `json:"shipAddress"`
	ShipCity       string              `json:"shipCity"`
	ShipRegion     string              `json:"shipRegion"`
	ShipPostalCode string              `json:"shipPostalCode"`
	ShipCountry    string              `json:"shipCountry"`
	Details        []orderLineResponse `json:"details,omitempty"`
}

// ListOrders returns all orders without line data.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = toOrderResponse(&orders[i], false)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetOrder returns one order with its lines.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(o, true))
}

// CreateOrder places a new order and returns its identifier.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	for _, d := range req.Details {
		if d.ProductID <= 0 || d.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "each line needs a product and a positive quantity")
			return
		}
	}

	in := order.CreateInput{
		CustomerID:     req.CustomerID,
		EmployeeID:     req.EmployeeID,
		OrderDate:      req.OrderDate,
		RequiredDate:   req.RequiredDate,
		ShippedDate:    req.ShippedDate,
		ShipVia:        req.ShipVia,
		Freight:        decimal.NewFromFloat(req.Freight),
		ShipName:       req.ShipName,
		ShipAddress:    req.ShipAddress,
		ShipCity:       req.ShipCity,
		ShipRegion:     req.ShipRegion,
		ShipPostalCode: req.ShipPostalCode,
		ShipCountry:    req.ShipCountry,
		Details:        make([]order.LineInput, len(req.Details)),
	}
	for i, d := range req.Details {
		in.Details[i] = order.LineInput{
			ProductID: d.ProductID,
			UnitPrice: decimal.NewFromFloat(d.UnitPrice),
			Quantity:  d.Quantity,
			Discount:  d.Discount,
		}
	}

	id, err := h.orders.Create(r.Context(), in)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// UpdateOrder rewrites an order's scalar fields.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req orderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	matched, err := h.orders.Update(r.Context(), id, order.UpdateInput{
		CustomerID:     req.CustomerID,
		EmployeeID:     req.EmployeeID,
		OrderDate:      req.OrderDate,
		RequiredDate:   req.RequiredDate,
		ShippedDate:    req.ShippedDate,
		ShipVia:        req.ShipVia,
		Freight:        decimal.NewFromFloat(req.Freight),
		ShipName:       req.ShipName,
		ShipAddress:    req.ShipAddress,
		ShipCity:       req.ShipCity,
		ShipRegion:     req.ShipRegion,
		ShipPostalCode: req.ShipPostalCode,
		ShipCountry:    req.ShipCountry,
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if !matched {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteOrder removes an order and its lines.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existed, err := h.orders.Delete(r.Context(), id)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if !existed {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toOrderResponse(o *order.Order, withDetails bool) orderResponse {
	resp := orderResponse{
		OrderID:        o.ID,
		CustomerID:     o.CustomerID,
		EmployeeID:     o.EmployeeID,
		OrderDate:      o.OrderDate,
		RequiredDate:   o.RequiredDate,
		ShippedDate:    o.ShippedDate,
		ShipVia:        o.ShipVia,
		Freight:        o.Freight.InexactFloat64(),
		ShipName:       o.ShipName,
		ShipAddress:    o.ShipAddress,
		ShipCity:       o.ShipCity,
		ShipRegion:     o.ShipRegion,
		ShipPostalCode: o.ShipPostalCode,
		ShipCountry:    o.ShipCountry,
	}
	if withDetails {
		resp.Details = make([]orderLineResponse, len(o.Details))
		for i, d := range o.Details {
			resp.Details[i] = orderLineResponse{
				OrderID:   d.OrderID,
				ProductID: d.ProductID,
				UnitPrice: d.UnitPrice.InexactFloat64(),
				Quantity:  d.Quantity,
				Discount:  d.Discount,
			}
		}
	}
	return resp
}
