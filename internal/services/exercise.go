package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/exercise-tracker/apiserver/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ExerciseLoggedChannel is the event channel that receives a message for
// every stored exercise.
const ExerciseLoggedChannel = "exercise.logged"

// ExerciseRepository defines persistence operations for exercises.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error)
	ListLog(ctx context.Context, filter types.LogFilter) ([]types.LogEntry, error)
}

// EventPublisher sends an encoded event to a channel. *mq.MQ satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// ExerciseService encapsulates exercise logging and log queries.
type ExerciseService struct {
	users     UserRepository
	exercises ExerciseRepository
	events    EventPublisher
	logger    logrus.FieldLogger
	recorder  Recorder
	strict    bool
	now       func() time.Time
}

type ExerciseOption func(*ExerciseService)

// WithStrictDuration rejects durations that do not start with an integer.
func WithStrictDuration(strict bool) ExerciseOption {
	return func(s *ExerciseService) { s.strict = strict }
}

func WithEvents(events EventPublisher) ExerciseOption {
	return func(s *ExerciseService) { s.events = events }
}

func WithRecorder(recorder Recorder) ExerciseOption {
	return func(s *ExerciseService) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) ExerciseOption {
	return func(s *ExerciseService) { s.now = now }
}

func NewExerciseService(users UserRepository, exercises ExerciseRepository, logger logrus.FieldLogger, opts ...ExerciseOption) *ExerciseService {
	s := &ExerciseService{
		users:     users,
		exercises: exercises,
		logger:    logger,
		recorder:  noopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateExerciseInput carries the raw request fields of a new exercise.
type CreateExerciseInput struct {
	UserID      string
	Description string
	Duration    string
	Date        string
}

// Create logs an exercise against an existing user. The returned exercise
// keeps its date in YYYY-MM-DD form.
func (s *ExerciseService) Create(ctx context.Context, in CreateExerciseInput) (types.Exercise, error) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = types.Today(s.now())
	}

	user, err := s.lookupUser(ctx, in.UserID)
	if err != nil {
		return types.Exercise{}, err
	}

	if strings.TrimSpace(in.Description) == "" {
		return types.Exercise{}, invalid("description", "is required")
	}
	if strings.TrimSpace(in.Duration) == "" {
		return types.Exercise{}, invalid("duration", "is required")
	}
	duration := types.ParseDuration(in.Duration)
	if !duration.Valid && s.strict {
		return types.Exercise{}, invalid("duration", "must be an integer number of minutes")
	}
	if !duration.InRange() {
		return types.Exercise{}, invalid("duration", "is out of range")
	}
	if _, err := types.ParseDate(date); err != nil {
		return types.Exercise{}, invalid("date", "must be a valid YYYY-MM-DD date")
	}

	exercise, err := s.exercises.Create(ctx, types.Exercise{
		UserID:      user.ID,
		Username:    user.Username,
		Description: in.Description,
		Duration:    duration,
		Date:        date,
	})
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("create exercise failed")
		return types.Exercise{}, persistence("create exercise", err)
	}

	s.recorder.ExerciseLogged()
	s.publishLogged(ctx, exercise)
	return exercise, nil
}

func (s *ExerciseService) lookupUser(ctx context.Context, userID string) (types.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return types.User{}, persistence("get user", err)
	}
	return user, nil
}

func (s *ExerciseService) publishLogged(ctx context.Context, exercise types.Exercise) {
	if s.events == nil {
		return
	}

	event := types.ExerciseLoggedEvent{
		EventID:     uuid.NewString(),
		ExerciseID:  exercise.ID,
		UserID:      exercise.UserID,
		Username:    exercise.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date,
		OccurredAt:  exercise.CreatedAt,
	}
	log := s.logger.WithFields(logrus.Fields{
		"channel":     ExerciseLoggedChannel,
		"exercise_id": exercise.ID,
	})

	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("encode exercise event failed")
		s.recorder.EventFailed(ExerciseLoggedChannel)
		return
	}

	attrs := map[string]string{"user_id": exercise.UserID, "event_id": event.EventID}
	if _, err := s.events.Publish(ctx, ExerciseLoggedChannel, data, attrs); err != nil {
		log.WithError(err).Warn("publish exercise event failed")
		s.recorder.EventFailed(ExerciseLoggedChannel)
		return
	}
	s.recorder.EventPublished(ExerciseLoggedChannel)
}

// LogQuery carries the raw query parameters of a log request.
type LogQuery struct {
	UserID string
	From   string
	To     string
	Limit  string
}

func (s *ExerciseService) parseLogQuery(q LogQuery) (types.LogFilter, error) {
	filter := types.LogFilter{
		UserID: q.UserID,
		From:   strings.TrimSpace(q.From),
		To:     strings.TrimSpace(q.To),
	}

	if filter.From == "" {
		filter.From = types.EpochDate
	} else if _, err := types.ParseDate(filter.From); err != nil {
		return types.LogFilter{}, invalid("from", "must be a valid YYYY-MM-DD date")
	}

	if filter.To == "" {
		filter.To = types.Today(s.now())
	} else if _, err := types.ParseDate(filter.To); err != nil {
		return types.LogFilter{}, invalid("to", "must be a valid YYYY-MM-DD date")
	}

	if limit := strings.TrimSpace(q.Limit); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return types.LogFilter{}, invalid("limit", "must be a non-negative integer")
		}
		filter.Limit = n
	}

	return filter, nil
}

// GetLog returns the user's exercises dated within [from, to] in insertion
// order, truncated to limit, with dates in display form.
func (s *ExerciseService) GetLog(ctx context.Context, q LogQuery) (types.ExerciseLog, error) {
	filter, err := s.parseLogQuery(q)
	if err != nil {
		return types.ExerciseLog{}, err
	}

	user, err := s.lookupUser(ctx, q.UserID)
	if err != nil {
		return types.ExerciseLog{}, err
	}

	entries, err := s.exercises.ListLog(ctx, filter)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("list exercise log failed")
		return types.ExerciseLog{}, persistence("list exercise log", err)
	}

	log := make([]types.LogEntry, 0, len(entries))
	for _, entry := range entries {
		entry.Date = types.DisplayDate(entry.Date)
		log = append(log, entry)
	}

	return types.ExerciseLog{
		UserID:   user.ID,
		Username: user.Username,
		Count:    len(log),
		Log:      log,
	}, nil
}
