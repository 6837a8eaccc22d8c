package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"qbank/internal/service"
)

// ExportHandler handles bank export endpoints
type ExportHandler struct {
	bankSvc   *service.BankService
	exportSvc *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(bankSvc *service.BankService, exportSvc *service.ExportService) *ExportHandler {
	return &ExportHandler{
		bankSvc:   bankSvc,
		exportSvc: exportSvc,
	}
}

// Export handles GET /v1/banks/{bankId}/export?format=qti|csv|json
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	bankID := mux.Vars(r)["bankId"]
	format := service.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = service.FormatJSON
	}

	bank, err := h.bankSvc.GetByID(r.Context(), bankID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bank == nil {
		writeError(w, http.StatusNotFound, "bank not found")
		return
	}

	data, err := h.exportSvc.Export(bank.Questions, bank.Metadata, format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", h.exportSvc.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+bank.Name+`.`+string(format)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
