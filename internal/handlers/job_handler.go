package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/PawPack_Tracker/internal/jobs"
	log "github.com/sirupsen/logrus"
)

// JobHandler exposes a manual trigger for the due-reminder pass, used by
// external schedulers and for debugging. The pass is idempotent: a second
// call in the same tick finds nothing left to process.
type JobHandler struct {
	Job *jobs.DueReminderJob
}

// NewJobHandler creates a new instance of JobHandler.
func NewJobHandler(job *jobs.DueReminderJob) *JobHandler {
	return &JobHandler{Job: job}
}

// RunDueReminderPassHandler runs one pass and returns its summary.
func (h *JobHandler) RunDueReminderPassHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Job.RunDueReminderPass(r.Context())
	if err != nil {
		log.WithError(err).Error("Manual due reminder pass failed")
		http.Error(w, "Due reminder pass failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
