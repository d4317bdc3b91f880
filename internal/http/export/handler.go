package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/budgetivoire/budgetivoire/internal/export"
	"github.com/budgetivoire/budgetivoire/internal/http/respond"
)

var ErrUnknownFormat = errors.New("format must be csv or xlsx")

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

type format struct {
	contentType string
	write       func(context.Context, io.Writer) error
}

func (h *Handler) formats() map[string]format {
	return map[string]format{
		"csv":  {contentType: "text/csv; charset=utf-8", write: h.svc.WriteCSV},
		"xlsx": {contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", write: h.svc.WriteXLSX},
	}
}

// download streams the ledger. The format query parameter defaults to csv.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = "csv"
	}

	f, ok := h.formats()[name]
	if !ok {
		respond.Error(w, http.StatusBadRequest, ErrUnknownFormat)
		return
	}

	var buf bytes.Buffer
	if err := f.write(r.Context(), &buf); err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", f.contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"ledger-%s.%s\"", time.Now().Format("20060102"), name))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
