package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/Dias221467/PawPack_Tracker/internal/recurrence"
	"github.com/Dias221467/PawPack_Tracker/pkg/clock"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderService owns every mutation of a reminder's schedule. Nothing
// else writes next_occurrence or is_active.
type ReminderService struct {
	repo       ReminderRepository
	animalRepo AnimalRepository
	packRepo   PackRepository
	logRepo    TaskLogRepository
	calc       *recurrence.Calculator
	clock      clock.Clock
}

// NewReminderService creates a new instance of ReminderService.
func NewReminderService(repo ReminderRepository, animalRepo AnimalRepository, packRepo PackRepository, logRepo TaskLogRepository, calc *recurrence.Calculator, clk clock.Clock) *ReminderService {
	return &ReminderService{
		repo:       repo,
		animalRepo: animalRepo,
		packRepo:   packRepo,
		logRepo:    logRepo,
		calc:       calc,
		clock:      clk,
	}
}

// validate re-checks the frequency-conditional fields. The request layer
// validates upstream too, but the schedule must never be computed from
// inconsistent input.
func (s *ReminderService) validate(r *models.Reminder) error {
	if r.Title == "" {
		return &models.ValidationError{Field: "title", Reason: "is required"}
	}
	if !models.AllowedFrequencies[r.Frequency] {
		return &models.ValidationError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", r.Frequency)}
	}
	if _, _, err := recurrence.ParseTimeOfDay(r.TimeOfDay); err != nil {
		return err
	}
	switch r.Frequency {
	case models.FrequencyOnce:
		if r.SpecificDate == nil {
			return &models.ValidationError{Field: "specific_date", Reason: "required for one-time reminders"}
		}
	case models.FrequencyWeekly:
		if r.DayOfWeek == nil {
			return &models.ValidationError{Field: "day_of_week", Reason: "required for weekly reminders"}
		}
	case models.FrequencyMonthly:
		if r.DayOfMonth == nil {
			return &models.ValidationError{Field: "day_of_month", Reason: "required for monthly reminders"}
		}
	}
	return nil
}

// CreateReminder validates the reminder, computes its initial schedule and
// stores it. New reminders are always active.
func (s *ReminderService) CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	if err := s.validate(reminder); err != nil {
		logrus.WithError(err).Warn("Rejected invalid reminder on create")
		return nil, err
	}

	now := s.clock.Now()
	next, err := s.calc.ComputeNext(reminder, now)
	if err != nil {
		return nil, err
	}
	reminder.IsActive = true
	reminder.NextOccurrence = next

	created, err := s.repo.CreateReminder(ctx, reminder)
	if err != nil {
		logrus.WithError(err).Error("Service failed to create reminder")
		return nil, fmt.Errorf("failed to create reminder: %v", err)
	}

	logrus.WithField("reminder_id", created.ID.Hex()).Info("Reminder created in service layer")
	return created, nil
}

// UpdateReminder applies field changes and recomputes the schedule. The
// recomputation is unconditional: even a title-only edit refreshes
// next_occurrence, matching the dispatch contract.
func (s *ReminderService) UpdateReminder(ctx context.Context, id string, updated *models.Reminder) (*models.Reminder, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder ID: %v", err)
	}

	reminder, err := s.repo.GetReminderByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %v", err)
	}

	reminder.Title = updated.Title
	reminder.Description = updated.Description
	reminder.TaskTypeID = updated.TaskTypeID
	reminder.Frequency = updated.Frequency
	reminder.DayOfWeek = updated.DayOfWeek
	reminder.DayOfMonth = updated.DayOfMonth
	reminder.TimeOfDay = updated.TimeOfDay
	reminder.SpecificDate = updated.SpecificDate

	if err := s.validate(reminder); err != nil {
		logrus.WithError(err).WithField("reminder_id", id).Warn("Rejected invalid reminder on update")
		return nil, err
	}

	next, err := s.calc.ComputeNext(reminder, s.clock.Now())
	if err != nil {
		return nil, err
	}
	reminder.NextOccurrence = next

	if err := s.repo.UpdateReminder(ctx, reminder); err != nil {
		logrus.WithError(err).WithField("reminder_id", id).Error("Failed to update reminder")
		return nil, fmt.Errorf("failed to update reminder: %v", err)
	}
	return reminder, nil
}

// ToggleReminder flips is_active. Re-activating recomputes the schedule;
// deactivating leaves next_occurrence untouched so toggling twice within
// the same instant restores the exact previous state.
func (s *ReminderService) ToggleReminder(ctx context.Context, id string) (*models.Reminder, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder ID: %v", err)
	}

	reminder, err := s.repo.GetReminderByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %v", err)
	}

	reminder.IsActive = !reminder.IsActive
	if reminder.IsActive {
		next, err := s.calc.ComputeNext(reminder, s.clock.Now())
		if err != nil {
			return nil, err
		}
		reminder.NextOccurrence = next
	}

	if err := s.repo.UpdateReminder(ctx, reminder); err != nil {
		logrus.WithError(err).WithField("reminder_id", id).Error("Failed to toggle reminder")
		return nil, fmt.Errorf("failed to toggle reminder: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"reminder_id": id,
		"is_active":   reminder.IsActive,
	}).Info("Reminder toggled")
	return reminder, nil
}

// AdvanceAfterFiring moves a reminder past the occurrence that just fired
// (or was completed manually). One-time reminders retire themselves:
// is_active drops and the occurrence is cleared, regardless of prior
// state. All other frequencies roll to the next occurrence.
func (s *ReminderService) AdvanceAfterFiring(ctx context.Context, reminder *models.Reminder) error {
	if reminder.Frequency == models.FrequencyOnce {
		reminder.IsActive = false
		reminder.NextOccurrence = nil
	} else {
		next, err := s.calc.ComputeNext(reminder, s.clock.Now())
		if err != nil {
			return err
		}
		reminder.NextOccurrence = next
	}

	if err := s.repo.UpdateReminder(ctx, reminder); err != nil {
		logrus.WithError(err).WithField("reminder_id", reminder.ID.Hex()).Error("Failed to advance reminder")
		return fmt.Errorf("failed to advance reminder: %v", err)
	}
	return nil
}

// CompleteReminder records a task log for the reminder's animal and
// advances the schedule.
func (s *ReminderService) CompleteReminder(ctx context.Context, id string, userID primitive.ObjectID, notes string) (*models.TaskLog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder ID: %v", err)
	}

	reminder, err := s.repo.GetReminderByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %v", err)
	}

	log, err := s.logRepo.CreateTaskLog(ctx, &models.TaskLog{
		AnimalID:   reminder.AnimalID,
		TaskTypeID: reminder.TaskTypeID,
		ReminderID: &reminder.ID,
		DoneBy:     userID,
		DoneAt:     s.clock.Now(),
		Notes:      notes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record task log: %v", err)
	}

	if err := s.AdvanceAfterFiring(ctx, reminder); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"reminder_id": id,
		"user_id":     userID.Hex(),
	}).Info("Reminder completed")
	return log, nil
}

// DeleteReminder removes a reminder. The repository detaches any task logs
// referencing it instead of deleting them.
func (s *ReminderService) DeleteReminder(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid reminder ID: %v", err)
	}
	if err := s.repo.DeleteReminder(ctx, objID); err != nil {
		return fmt.Errorf("failed to delete reminder: %v", err)
	}
	return nil
}

// GetReminder retrieves a reminder by its ID.
func (s *ReminderService) GetReminder(ctx context.Context, id string) (*models.Reminder, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder ID: %v", err)
	}
	reminder, err := s.repo.GetReminderByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %v", err)
	}
	return reminder, nil
}

// FindDue returns every active reminder whose next occurrence has passed,
// each paired with its animal so the dispatcher can address the pack.
func (s *ReminderService) FindDue(ctx context.Context) ([]models.DueReminder, error) {
	reminders, err := s.repo.FindDue(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due reminders: %v", err)
	}

	due := make([]models.DueReminder, 0, len(reminders))
	for _, reminder := range reminders {
		animal, err := s.animalRepo.GetAnimalByID(ctx, reminder.AnimalID)
		if err != nil {
			logrus.WithError(err).WithField("reminder_id", reminder.ID.Hex()).Warn("Skipping due reminder with unresolvable animal")
			continue
		}
		due = append(due, models.DueReminder{Reminder: reminder, Animal: *animal})
	}
	return due, nil
}

// FindUpcoming returns the user's active reminders across all their packs
// whose next occurrence falls within the given number of days, ascending.
func (s *ReminderService) FindUpcoming(ctx context.Context, userID primitive.ObjectID, withinDays int) ([]models.Reminder, error) {
	packs, err := s.packRepo.GetPacksByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch packs: %v", err)
	}
	if len(packs) == 0 {
		return []models.Reminder{}, nil
	}

	packIDs := make([]primitive.ObjectID, 0, len(packs))
	for _, p := range packs {
		packIDs = append(packIDs, p.ID)
	}

	animals, err := s.animalRepo.GetAnimalsByPacks(ctx, packIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch animals: %v", err)
	}
	if len(animals) == 0 {
		return []models.Reminder{}, nil
	}

	animalIDs := make([]primitive.ObjectID, 0, len(animals))
	for _, a := range animals {
		animalIDs = append(animalIDs, a.ID)
	}

	now := s.clock.Now()
	until := now.Add(time.Duration(withinDays) * 24 * time.Hour)
	reminders, err := s.repo.FindUpcoming(ctx, animalIDs, now, until)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming reminders: %v", err)
	}
	return reminders, nil
}
