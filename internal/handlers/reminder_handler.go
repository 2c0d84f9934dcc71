package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/Dias221467/PawPack_Tracker/internal/services"
	"github.com/Dias221467/PawPack_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderHandler handles HTTP requests related to reminders.
type ReminderHandler struct {
	Service *services.ReminderService
}

// NewReminderHandler creates a new instance of ReminderHandler.
func NewReminderHandler(service *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{Service: service}
}

// writeReminderError maps validation failures to 400 and everything else
// to 500.
func writeReminderError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// CreateReminderHandler handles the creation of a new reminder.
func (h *ReminderHandler) CreateReminderHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var reminder models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
		log.WithError(err).Warn("Invalid request payload during reminder creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to convert user ID")
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}
	reminder.CreatedBy = userID

	created, err := h.Service.CreateReminder(r.Context(), &reminder)
	if err != nil {
		log.WithError(err).Error("Failed to create reminder")
		writeReminderError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"userID":     claims.UserID,
		"reminderID": created.ID.Hex(),
	}).Info("Reminder successfully created")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

// GetReminderHandler handles fetching a single reminder by its ID.
func (h *ReminderHandler) GetReminderHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	reminder, err := h.Service.GetReminder(r.Context(), vars["id"])
	if err != nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminder)
}

// UpdateReminderHandler handles editing a reminder. The schedule is
// recomputed on every update.
func (h *ReminderHandler) UpdateReminderHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var updated models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		log.WithError(err).Warn("Invalid request payload during reminder update")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	reminder, err := h.Service.UpdateReminder(r.Context(), vars["id"], &updated)
	if err != nil {
		log.WithError(err).Error("Failed to update reminder")
		writeReminderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminder)
}

// ToggleReminderHandler flips a reminder's active state.
func (h *ReminderHandler) ToggleReminderHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	reminder, err := h.Service.ToggleReminder(r.Context(), vars["id"])
	if err != nil {
		log.WithError(err).Error("Failed to toggle reminder")
		writeReminderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminder)
}

// CompleteReminderHandler records a completed care task from a reminder
// and advances its schedule.
func (h *ReminderHandler) CompleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	vars := mux.Vars(r)

	var body struct {
		Notes string `json:"notes"`
	}
	// Body is optional; an empty completion is fine.
	_ = json.NewDecoder(r.Body).Decode(&body)
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	taskLog, err := h.Service.CompleteReminder(r.Context(), vars["id"], userID, body.Notes)
	if err != nil {
		log.WithError(err).Error("Failed to complete reminder")
		writeReminderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(taskLog)
}

// DeleteReminderHandler removes a reminder.
func (h *ReminderHandler) DeleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.Service.DeleteReminder(r.Context(), vars["id"]); err != nil {
		log.WithError(err).Error("Failed to delete reminder")
		http.Error(w, "Failed to delete reminder", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Reminder deleted"})
}

// GetUpcomingRemindersHandler returns the caller's active reminders due
// within the next N days (default 7), soonest first.
func (h *ReminderHandler) GetUpcomingRemindersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	reminders, err := h.Service.FindUpcoming(r.Context(), userID, days)
	if err != nil {
		log.WithError(err).Error("Failed to fetch upcoming reminders")
		http.Error(w, "Failed to fetch upcoming reminders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminders)
}
