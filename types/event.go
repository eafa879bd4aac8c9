package types

import "time"

// ExerciseLoggedEvent is published after an exercise has been stored.
type ExerciseLoggedEvent struct {
	// EventID uniquely identifies this event.
	EventID string `json:"event_id"`

	// ExerciseID, UserID and Username identify the stored exercise and its owner.
	ExerciseID string `json:"exercise_id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`

	Description string   `json:"description"`
	Duration    Duration `json:"duration"`
	Date        string   `json:"date"`

	// OccurredAt is when the exercise was stored.
	OccurredAt time.Time `json:"occurred_at"`
}

// LogExport describes a log snapshot written to object storage.
type LogExport struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	// Name is the last path element of Key. Exports are fetched and
	// deleted by name.
	Name  string `json:"name"`
	Count int    `json:"count"`
	Size  int64  `json:"size"`
}

// ExportInfo is a stored export as returned by a listing.
type ExportInfo struct {
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
