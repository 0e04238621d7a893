package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/quizladder/backend/internal/database/dbtest"
	"github.com/quizladder/backend/internal/models"
)

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/progress/{deviceId}", h.GetProgress).Methods("GET")
	r.HandleFunc("/api/levels", h.ListLevels).Methods("GET")
	return r
}

func TestHandler_GetProgress(t *testing.T) {
	h := NewHandler(NewService(dbtest.Open(t)))
	router := newRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/progress/dev-123", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.ProgressResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Progress) != 12 || resp.UserID == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandler_GetProgress_BlankDevice(t *testing.T) {
	h := NewHandler(NewService(dbtest.Open(t)))

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/progress/%20", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_GetProgress_SchemaError(t *testing.T) {
	db := dbtest.Open(t)
	if _, err := db.ExecContext(context.Background(), `DROP TABLE user_progress`); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	h := NewHandler(NewService(db))

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/progress/dev-1", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), SchemaErrorMessage) {
		t.Errorf("expected schema error message, got %s", rec.Body.String())
	}
}

func TestHandler_ListLevels(t *testing.T) {
	h := NewHandler(NewService(dbtest.Open(t)))

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/levels", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.LevelsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Levels) != 12 {
		t.Fatalf("expected 12 levels, got %d", len(resp.Levels))
	}
	if resp.Levels[0].LevelNumber != 1 || resp.Levels[11].LevelNumber != 12 {
		t.Errorf("levels not ordered by number: %+v", resp.Levels)
	}
}
