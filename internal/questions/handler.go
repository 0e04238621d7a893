package questions

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/quizladder/backend/internal/middleware"
	"github.com/quizladder/backend/internal/models"
	"github.com/quizladder/backend/internal/progress"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var levelID int64
	if v := r.URL.Query().Get("level"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid level"})
			return
		}
		levelID = id
	}

	questions, err := h.service.List(r.Context(), levelID)
	if err != nil {
		progress.WriteStoreError(w, "[questions] List", err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}

	writeJSON(w, http.StatusOK, models.QuestionsResponse{Success: true, Questions: questions})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	q, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, "[questions] Create", err)
		return
	}
	log.Printf("[questions] %s created question %d for level %d", adminName(r), q.ID, q.LevelID)

	writeJSON(w, http.StatusCreated, models.QuestionMutationResponse{Success: true, Message: "Question created", Data: q})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	var in models.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	q, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, "[questions] Update", err)
		return
	}
	log.Printf("[questions] %s updated question %d", adminName(r), q.ID)

	writeJSON(w, http.StatusOK, models.QuestionMutationResponse{Success: true, Message: "Question updated", Data: q})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		progress.WriteStoreError(w, "[questions] Delete", err)
		return
	}
	log.Printf("[questions] %s deleted question %d", adminName(r), id)

	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Question deleted"})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Generate(r.Context(), req)
	if err != nil {
		var inputErr *InputError
		switch {
		case errors.As(err, &inputErr):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: inputErr.Message})
		case errors.Is(err, ErrGeneratorUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Question generation is not configured"})
		default:
			log.Printf("[questions] Generate error: %v", err)
			writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Generation failed", Details: err.Error()})
		}
		return
	}

	log.Printf("[questions] %s generated %d drafts (%d rejected, %d saved)",
		adminName(r), len(resp.Drafts), len(resp.Rejected), len(resp.Saved))

	status := http.StatusOK
	if len(resp.Saved) > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// adminName is the authenticated admin for audit lines.
func adminName(r *http.Request) string {
	if name, ok := middleware.AdminFromContext(r.Context()); ok {
		return name
	}
	return "unknown admin"
}

func questionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question ID"})
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	var inputErr *InputError
	switch {
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Incomplete question data", Details: inputErr.Message})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
	default:
		progress.WriteStoreError(w, op, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
