package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/exercise-tracker/apiserver/internal/storage"
	"github.com/exercise-tracker/apiserver/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	exportContentType = "application/json"
	exportSuffix      = ".json"
)

// ErrExportNotFound is returned when a named export does not exist for the
// user.
var ErrExportNotFound = errors.New("export not found")

// ObjectStore is the subset of object storage needed for exports.
// *storage.Storage satisfies it.
type ObjectStore interface {
	Put(ctx context.Context, obj storage.Object) (storage.ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// LogExporter writes snapshots of a user's exercise log to object storage
// and serves them back.
type LogExporter struct {
	exercises *ExerciseService
	objects   ObjectStore
	logger    logrus.FieldLogger
	recorder  Recorder
	now       func() time.Time
}

func NewLogExporter(exercises *ExerciseService, objects ObjectStore, logger logrus.FieldLogger, recorder Recorder) *LogExporter {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &LogExporter{
		exercises: exercises,
		objects:   objects,
		logger:    logger,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Export runs the same query as GetLog and stores the result as a JSON
// object under logs/<user id>/.
func (e *LogExporter) Export(ctx context.Context, q LogQuery) (types.LogExport, error) {
	log, err := e.exercises.GetLog(ctx, q)
	if err != nil {
		return types.LogExport{}, err
	}

	data, err := json.Marshal(log)
	if err != nil {
		return types.LogExport{}, fmt.Errorf("encode exercise log: %w", err)
	}

	key := exportPrefix(log.UserID) + exportName(e.now())
	info, err := e.objects.Put(ctx, storage.Object{
		Key:         key,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: exportContentType,
		Metadata: map[string]string{
			"user-id": log.UserID,
			"count":   strconv.Itoa(log.Count),
		},
	})
	if err != nil {
		e.logger.WithError(err).WithField("key", key).Error("export exercise log failed")
		return types.LogExport{}, persistence("export exercise log", err)
	}

	e.recorder.LogExported()
	return types.LogExport{
		Bucket: e.objects.Bucket(),
		Key:    key,
		Name:   path.Base(key),
		Count:  log.Count,
		Size:   info.Size,
	}, nil
}

// ListExports returns the user's stored exports, oldest first.
func (e *LogExporter) ListExports(ctx context.Context, userID string) ([]types.ExportInfo, error) {
	if _, err := e.exercises.lookupUser(ctx, userID); err != nil {
		return nil, err
	}

	objects, err := e.objects.List(ctx, exportPrefix(userID))
	if err != nil {
		e.logger.WithError(err).WithField("user_id", userID).Error("list exports failed")
		return nil, persistence("list exports", err)
	}

	exports := make([]types.ExportInfo, 0, len(objects))
	for _, obj := range objects {
		exports = append(exports, types.ExportInfo{
			Name:      path.Base(obj.Key),
			Key:       obj.Key,
			Size:      obj.Size,
			CreatedAt: obj.LastModified,
		})
	}
	return exports, nil
}

// OpenExport returns a reader over a stored export. The caller closes it.
func (e *LogExporter) OpenExport(ctx context.Context, userID, name string) (io.ReadCloser, error) {
	key, err := e.resolveExport(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	body, err := e.objects.Get(ctx, key)
	if err != nil {
		return nil, e.objectError("open export", key, err)
	}
	return body, nil
}

func (e *LogExporter) DeleteExport(ctx context.Context, userID, name string) error {
	key, err := e.resolveExport(ctx, userID, name)
	if err != nil {
		return err
	}

	if err := e.objects.Delete(ctx, key); err != nil {
		return e.objectError("delete export", key, err)
	}
	return nil
}

func (e *LogExporter) resolveExport(ctx context.Context, userID, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || !strings.HasSuffix(name, exportSuffix) {
		return "", invalid("export", "must be the name of a .json export")
	}
	if _, err := e.exercises.lookupUser(ctx, userID); err != nil {
		return "", err
	}
	return exportPrefix(userID) + name, nil
}

func (e *LogExporter) objectError(op, key string, err error) error {
	if errors.Is(err, storage.ErrObjectNotFound) {
		return ErrExportNotFound
	}
	e.logger.WithError(err).WithField("key", key).Errorf("%s failed", op)
	return persistence(op, err)
}

func exportPrefix(userID string) string {
	return "logs/" + userID + "/"
}

func exportName(at time.Time) string {
	return at.UTC().Format("20060102T150405Z") + "-" + uuid.NewString() + exportSuffix
}
