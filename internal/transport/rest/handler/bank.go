package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"qbank/internal/model"
	"qbank/internal/service"
	"qbank/internal/transport/rest/middleware"
)

// BankHandler handles question-bank endpoints
type BankHandler struct {
	bankSvc *service.BankService
}

// NewBankHandler creates a new bank handler
func NewBankHandler(bankSvc *service.BankService) *BankHandler {
	return &BankHandler{bankSvc: bankSvc}
}

// CreateBankRequest is the request body for creating a bank
type CreateBankRequest struct {
	Name      string                 `json:"name"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Questions []model.Question       `json:"questions,omitempty"`
}

// Create handles POST /v1/banks
func (h *BankHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bank := &model.Bank{
		HostID:    hostID,
		Name:      req.Name,
		Metadata:  req.Metadata,
		Questions: req.Questions,
	}

	id, err := h.bankSvc.Create(r.Context(), bank)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"bankId": id})
}

// Get handles GET /v1/banks/{bankId}
func (h *BankHandler) Get(w http.ResponseWriter, r *http.Request) {
	bankID := mux.Vars(r)["bankId"]

	bank, err := h.bankSvc.GetByID(r.Context(), bankID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bank == nil {
		writeError(w, http.StatusNotFound, "bank not found")
		return
	}

	writeJSON(w, http.StatusOK, bank)
}

// List handles GET /v1/banks
func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	banks, err := h.bankSvc.GetByHostID(r.Context(), hostID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"banks": banks})
}

// Delete handles DELETE /v1/banks/{bankId}
func (h *BankHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bankID := mux.Vars(r)["bankId"]

	if err := h.bankSvc.Delete(r.Context(), bankID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": bankID})
}
