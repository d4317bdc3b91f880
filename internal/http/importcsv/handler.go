package importcsv

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/budgetivoire/budgetivoire/internal/http/respond"
	"github.com/budgetivoire/budgetivoire/internal/http/transaction"
	"github.com/budgetivoire/budgetivoire/internal/importer"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported     int                    `json:"imported"`
	Skipped      int                    `json:"skipped"`
	Transactions []transaction.Response `json:"transactions"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Error(w, http.StatusBadRequest, errors.New("failed to parse form: "+err.Error()))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, errors.New("file field is required"))
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), file)
	if err != nil {
		if errors.Is(err, importer.ErrUnreadable) {
			respond.Error(w, http.StatusBadRequest, err)
			return
		}

		respond.Error(w, http.StatusInternalServerError, err)

		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(result))
}

func toResponse(res *ledger.ImportResult) importResponse {
	resp := importResponse{
		Imported:     len(res.Imported),
		Skipped:      len(res.Skipped),
		Transactions: make([]transaction.Response, 0, len(res.Imported)),
	}

	for _, tx := range res.Imported {
		resp.Transactions = append(resp.Transactions, transaction.ToResponse(tx))
	}

	return resp
}
