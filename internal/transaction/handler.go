// internal/transaction/handler.go
package transaction

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// GET /contracts/{id}/transactions (staff)
func (h *Handler) ListByContract(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contract ID", http.StatusBadRequest)
		return
	}

	out, err := h.Repo.ListByContractID(uint(id))
	if err != nil {
		http.Error(w, "failed to list transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// GET /transactions/{reference} (staff)
func (h *Handler) GetByReference(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["reference"]

	t, err := h.Repo.FindByReference(ref)
	if err != nil {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}
