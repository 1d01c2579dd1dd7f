// internal/property/handler.go
package property

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type propertyRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Address     string          `json:"address"`
	Area        float64         `json:"area"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	PhotoURLs   []string        `json:"photoUrls"`
}

func validType(t string) bool {
	return t == TypeLot || t == TypeHouseAndLot || t == TypeCondo
}

// GET /properties
// Client-facing browse; supports ?status=&type=&min_price=&max_price=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{
		Status: q.Get("status"),
		Type:   q.Get("type"),
	}
	if v := q.Get("min_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MinPrice = d
		}
	}
	if v := q.Get("max_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MaxPrice = d
		}
	}

	properties, err := h.Repo.List(f)
	if err != nil {
		http.Error(w, "failed to list properties", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(properties)
}

// GET /properties/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// POST /properties (staff)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Code == "" || req.Name == "" || !validType(req.Type) {
		http.Error(w, "code, name and a valid type are required", http.StatusBadRequest)
		return
	}
	if !req.Price.IsPositive() {
		http.Error(w, "price must be greater than zero", http.StatusBadRequest)
		return
	}

	p := Property{
		Code:        req.Code,
		Name:        req.Name,
		Type:        req.Type,
		Address:     req.Address,
		Area:        req.Area,
		Price:       req.Price,
		Status:      StatusAvailable,
		Description: req.Description,
		PhotoURLs:   req.PhotoURLs,
	}

	if err := h.Repo.Create(&p); err != nil {
		http.Error(w, "failed to create property", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// PUT /properties/{id} (staff)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	existing, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if !validType(req.Type) {
		http.Error(w, "invalid property type", http.StatusBadRequest)
		return
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Type = req.Type
	existing.Address = req.Address
	existing.Area = req.Area
	existing.Price = req.Price
	existing.Description = req.Description
	existing.PhotoURLs = req.PhotoURLs

	if err := h.Repo.Update(existing); err != nil {
		http.Error(w, "failed to update property", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(existing)
}

// DELETE /properties/{id} (staff)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}
	if p.Status != StatusAvailable {
		http.Error(w, "only available properties can be removed", http.StatusConflict)
		return
	}

	if err := h.Repo.DeleteByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "property not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete property", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
