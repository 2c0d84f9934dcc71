package cron

import (
	"context"
	"time"

	"github.com/Dias221467/PawPack_Tracker/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartReminderCronJobs schedules the due-reminder pass. The job itself
// never schedules anything; this is the only place wiring it to a clock.
func StartReminderCronJobs(job *jobs.DueReminderJob, loc *time.Location) *cron.Cron {
	c := cron.New(cron.WithLocation(loc))

	// Due reminders are checked every minute.
	c.AddFunc("* * * * *", func() {
		summary, err := job.RunDueReminderPass(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Due reminder pass failed")
			return
		}
		if summary.Processed > 0 {
			logrus.WithFields(logrus.Fields{
				"processed": summary.Processed,
				"notified":  summary.Notified,
				"errors":    summary.Errors,
			}).Info("Scheduled reminder pass finished")
		}
	})

	c.Start()
	return c
}
