package progress

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/models"
)

// SchemaErrorMessage tells operators the database is behind the code.
const SchemaErrorMessage = "Database schema not updated. Please run the database migration."

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]

	resp, err := h.service.GetProgress(r.Context(), deviceID)
	if err != nil {
		if errors.Is(err, ErrMissingDevice) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Device ID is required"})
			return
		}
		WriteStoreError(w, "[progress] GetProgress", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.Levels(r.Context())
	if err != nil {
		WriteStoreError(w, "[progress] ListLevels", err)
		return
	}
	if levels == nil {
		levels = []models.Level{}
	}
	writeJSON(w, http.StatusOK, models.LevelsResponse{Levels: levels})
}

// WriteStoreError logs err and writes a 500, singling out schema drift so an
// operator knows a migration is needed.
func WriteStoreError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s error: %v", op, err)
	if database.IsSchemaError(err) {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: SchemaErrorMessage, Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error", Details: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
