package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	formFieldDescription = "description"
	formFieldDuration    = "duration"
	formFieldDate        = "date"
	queryFrom            = "from"
	queryTo              = "to"
	queryLimit           = "limit"
	msgUserNotFound      = "user not found"
	msgExportNotFound    = "export not found"
)

// ExerciseResponse is returned after an exercise has been logged.
type ExerciseResponse struct {
	Username    string         `json:"username"`
	Description string         `json:"description"`
	Duration    types.Duration `json:"duration"`
	Date        string         `json:"date"`
	UserID      string         `json:"userId"`
}

// ExerciseHandler provides HTTP handlers for exercises and logs.
type ExerciseHandler struct {
	exerciseService *services.ExerciseService
	exporter        *services.LogExporter
}

func NewExerciseHandler(exerciseService *services.ExerciseService, exporter *services.LogExporter) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		exporter:        exporter,
	}
}

func (h *ExerciseHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.Create(r.Context(), services.CreateExerciseInput{
		UserID:      chi.URLParam(r, "userID"),
		Description: fields[formFieldDescription],
		Duration:    fields[formFieldDuration],
		Date:        fields[formFieldDate],
	})
	if err != nil {
		writeServiceError(w, err, msgUserNotFound, "failed to create exercise")
		return
	}

	writeJSON(w, http.StatusCreated, ExerciseResponse{
		Username:    exercise.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        types.DisplayDate(exercise.Date),
		UserID:      exercise.UserID,
	})
}

func (h *ExerciseHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	log, err := h.exerciseService.GetLog(r.Context(), logQuery(r))
	if err != nil {
		writeServiceError(w, err, msgUserNotFound, "failed to fetch exercise log")
		return
	}

	writeJSON(w, http.StatusOK, log)
}

func (h *ExerciseHandler) ExportLog(w http.ResponseWriter, r *http.Request) {
	export, err := h.exporter.Export(r.Context(), logQuery(r))
	if err != nil {
		writeServiceError(w, err, msgUserNotFound, "failed to export exercise log")
		return
	}

	writeJSON(w, http.StatusCreated, export)
}

func (h *ExerciseHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	exports, err := h.exporter.ListExports(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, err, msgUserNotFound, "failed to list exports")
		return
	}

	writeJSON(w, http.StatusOK, exports)
}

// GetExport streams a stored export back as JSON.
func (h *ExerciseHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	body, err := h.exporter.OpenExport(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "exportName"))
	if err != nil {
		writeExportError(w, err, "failed to fetch export")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

func (h *ExerciseHandler) DeleteExport(w http.ResponseWriter, r *http.Request) {
	err := h.exporter.DeleteExport(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "exportName"))
	if err != nil {
		writeExportError(w, err, "failed to delete export")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeExportError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, services.ErrExportNotFound) {
		writeError(w, http.StatusNotFound, msgExportNotFound)
		return
	}
	writeServiceError(w, err, msgUserNotFound, fallback)
}

func logQuery(r *http.Request) services.LogQuery {
	query := r.URL.Query()
	return services.LogQuery{
		UserID: chi.URLParam(r, "userID"),
		From:   query.Get(queryFrom),
		To:     query.Get(queryTo),
		Limit:  query.Get(queryLimit),
	}
}
