package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arjun/quiz-api/internal/models"
)

// ErrNotFound is returned by stores when no quiz matches a query.
var ErrNotFound = errors.New("quiz not found")

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// QuizStore defines the interface for quiz persistence.
type QuizStore interface {
	Insert(ctx context.Context, q *models.Quiz) (*models.Quiz, error)
	// FindActive returns the first quiz whose window contains now, or
	// ErrNotFound. Ordering among simultaneous matches is store-defined.
	FindActive(ctx context.Context, now time.Time) (*models.Quiz, error)
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
	ListAll(ctx context.Context) ([]models.Quiz, error)
}

// Handler holds quiz HTTP handlers.
type Handler struct {
	store QuizStore
	now   func() time.Time
}

func NewHandler(store QuizStore) *Handler {
	return &Handler{store: store, now: time.Now}
}

// statusFor derives the denormalized status label from the window.
func statusFor(q *models.Quiz, now time.Time) string {
	if now.After(q.EndDate) {
		return models.StatusFinished
	}
	return models.StatusActive
}

// validateCreate rejects malformed quiz payloads before they reach the
// store: empty question, fewer than two options, an answer index
// outside the options, or an inverted date range.
func validateCreate(req *models.CreateQuizRequest) string {
	switch {
	case req.Question == "":
		return "question is required"
	case len(req.Options) < 2:
		return "at least two options are required"
	case req.RightAnswer < 0 || req.RightAnswer >= len(req.Options):
		return "rightAnswer must index into options"
	case req.StartDate.IsZero() || req.EndDate.IsZero():
		return "startDate and endDate are required"
	case req.EndDate.Before(req.StartDate):
		return "endDate must not precede startDate"
	}
	return ""
}

// Create validates and stores a new quiz.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if msg := validateCreate(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	now := h.now()
	q := &models.Quiz{
		Question:    req.Question,
		Options:     req.Options,
		RightAnswer: req.RightAnswer,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	// Any client-supplied status is ignored; the window is the source
	// of truth and the stored label is just a cache of it.
	q.Status = statusFor(q, now)

	created, err := h.store.Insert(r.Context(), q)
	if err != nil {
		log.Printf("create quiz error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetActive returns the quiz whose window contains the current time.
func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	q, err := h.store.FindActive(r.Context(), h.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no active quiz currently"})
			return
		}
		log.Printf("get active quiz error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// GetResult resolves a quiz's correct answer text by id. The answer
// index never leaves the server.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	q, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "quiz not found"})
			return
		}
		log.Printf("get quiz result error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	// Creation validates the index, but records may predate that or
	// come from elsewhere; never index blindly.
	if q.RightAnswer < 0 || q.RightAnswer >= len(q.Options) {
		log.Printf("quiz %s has out-of-range answer index %d (%d options)", id, q.RightAnswer, len(q.Options))
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.QuizResult{CorrectAnswer: q.Options[q.RightAnswer]})
}

// GetAll returns every stored quiz in store order.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.store.ListAll(r.Context())
	if err != nil {
		log.Printf("get all quizzes error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}
	writeJSON(w, http.StatusOK, quizzes)
}
