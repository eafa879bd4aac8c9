package handlers

import (
	"net/http"

	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

const formFieldUsername = "username"

// UserResponse is the public shape of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserHandler provides HTTP handlers for users.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers user, exercise and log routes on the given router.
// Export routes are registered only when exporter is non-nil.
func UserRouter(
	r chi.Router,
	userService *services.UserService,
	exerciseService *services.ExerciseService,
	exporter *services.LogExporter,
) {
	users := NewUserHandler(userService)
	exercises := NewExerciseHandler(exerciseService, exporter)

	r.Get("/", users.ListUsers)
	r.Post("/", users.CreateUser)
	r.Route("/{userID}", func(r chi.Router) {
		r.Post("/exercises", exercises.CreateExercise)
		r.Get("/logs", exercises.GetLog)
		if exporter != nil {
			r.Post("/logs/export", exercises.ExportLog)
			r.Get("/logs/exports", exercises.ListExports)
			r.Get("/logs/exports/{exportName}", exercises.GetExport)
			r.Delete("/logs/exports/{exportName}", exercises.DeleteExport)
		}
	})
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.Create(r.Context(), fields[formFieldUsername])
	if err != nil {
		writeServiceError(w, err, msgUserNotFound, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{ID: user.ID, Username: user.Username})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, msgUserNotFound, "failed to list users")
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, UserResponse{ID: user.ID, Username: user.Username})
	}
	writeJSON(w, http.StatusOK, resp)
}
