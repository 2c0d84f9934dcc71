package jobs

import (
	"context"
	"fmt"

	"github.com/Dias221467/PawPack_Tracker/internal/services"
	"github.com/sirupsen/logrus"
)

// DueReminderJob runs one pass over all due reminders: notify the pack,
// then advance the schedule.
type DueReminderJob struct {
	Reminders *services.ReminderService
	Push      *services.PushService
}

// RunSummary reports the outcome of one due-reminder pass.
type RunSummary struct {
	Processed int `json:"processed"`
	Notified  int `json:"notified"`
	Errors    int `json:"errors"`
}

// NewDueReminderJob creates a new instance of DueReminderJob.
func NewDueReminderJob(reminders *services.ReminderService, push *services.PushService) *DueReminderJob {
	return &DueReminderJob{
		Reminders: reminders,
		Push:      push,
	}
}

// RunDueReminderPass processes every currently due reminder. The schedule
// is advanced even when dispatch fails: an undeliverable reminder must not
// re-fire forever. One reminder's error never aborts the rest, and a
// second pass within the same tick finds nothing due because the first
// already advanced everything it processed.
func (j *DueReminderJob) RunDueReminderPass(ctx context.Context) (RunSummary, error) {
	due, err := j.Reminders.FindDue(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to scan due reminders: %v", err)
	}

	var summary RunSummary
	for _, item := range due {
		summary.Processed++

		report, err := j.Push.DispatchForReminder(ctx, item)
		if err != nil {
			summary.Errors++
			logrus.WithError(err).WithField("reminder_id", item.Reminder.ID.Hex()).Warn("Dispatch failed for due reminder")
		} else if report.Success > 0 {
			summary.Notified++
		}

		if err := j.Reminders.AdvanceAfterFiring(ctx, &item.Reminder); err != nil {
			// Left un-advanced, the reminder stays due and is retried on
			// the next pass.
			summary.Errors++
			logrus.WithError(err).WithField("reminder_id", item.Reminder.ID.Hex()).Error("Failed to advance reminder after dispatch")
		}
	}

	logrus.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"notified":  summary.Notified,
		"errors":    summary.Errors,
	}).Info("Due reminder pass completed")
	return summary, nil
}
