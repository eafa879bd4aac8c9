/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/internal/logging"
	"github.com/exercise-tracker/apiserver/internal/mq"
	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect domain events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log every exercise.logged event until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := logging.New(cfg.LogLevel, cfg.LogFormat)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg)
		if err != nil {
			return err
		}
		if queue == nil {
			return errors.New("MQ_DRIVER is not set")
		}
		defer queue.Close()

		logger.WithField("channel", services.ExerciseLoggedChannel).Info("tailing events")
		err = queue.Subscribe(ctx, services.ExerciseLoggedChannel, logExerciseEvent(logger))
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func logExerciseEvent(logger logrus.FieldLogger) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		var event types.ExerciseLoggedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			// Malformed payloads are acknowledged and dropped.
			logger.WithError(err).WithField("message_id", msg.ID).Warn("skipping malformed event")
			return nil
		}
		logger.WithFields(logrus.Fields{
			"message_id":  msg.ID,
			"event_id":    event.EventID,
			"exercise_id": event.ExerciseID,
			"user_id":     event.UserID,
			"username":    event.Username,
			"description": event.Description,
			"duration":    durationText(event.Duration),
			"date":        event.Date,
		}).Info("exercise logged")
		return nil
	}
}

func durationText(d types.Duration) string {
	if !d.Valid {
		return "null"
	}
	return fmt.Sprintf("%d", d.Minutes)
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
