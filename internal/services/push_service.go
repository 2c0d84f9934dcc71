package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/Dias221467/PawPack_Tracker/internal/push"
	"github.com/Dias221467/PawPack_Tracker/pkg/clock"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryReport summarizes one dispatch call. Success + Failure always
// equals the number of subscriptions attempted, and every expired endpoint
// is also counted as a failure.
type DeliveryReport struct {
	Success          int      `json:"success"`
	Failure          int      `json:"failure"`
	ExpiredEndpoints []string `json:"expired_endpoints,omitempty"`
}

// PushMessage is a generic notification addressed to a single user.
type PushMessage struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

type pushPayload struct {
	Title   string          `json:"title"`
	Body    string          `json:"body"`
	Icon    string          `json:"icon,omitempty"`
	Badge   string          `json:"badge,omitempty"`
	Data    payloadData     `json:"data"`
	Actions []payloadAction `json:"actions,omitempty"`
}

type payloadData struct {
	Type       string `json:"type"`
	ReminderID string `json:"reminder_id,omitempty"`
	AnimalID   string `json:"animal_id,omitempty"`
	URL        string `json:"url"`
}

type payloadAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// PushService fans out Web Push notifications to every subscription of a
// target audience and cleans up endpoints the push service has declared
// dead. Deleting expired subscriptions is the only write it performs.
type PushService struct {
	subs      SubscriptionRepository
	transport push.Transport
	clock     clock.Clock
	workers   int
}

// NewPushService creates a new instance of PushService. workers bounds how
// many sends of one dispatch run concurrently.
func NewPushService(subs SubscriptionRepository, transport push.Transport, clk clock.Clock, workers int) *PushService {
	if workers <= 0 {
		workers = 4
	}
	return &PushService{
		subs:      subs,
		transport: transport,
		clock:     clk,
		workers:   workers,
	}
}

// DispatchForReminder notifies every subscription of the pack caring for
// the reminder's animal.
func (s *PushService) DispatchForReminder(ctx context.Context, due models.DueReminder) (*DeliveryReport, error) {
	subs, err := s.subs.FindByPackMembers(ctx, due.Animal.PackID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pack subscriptions: %v", err)
	}

	payload, err := json.Marshal(pushPayload{
		Title: due.Reminder.Title,
		Body:  fmt.Sprintf("%s is due for %s", due.Animal.Name, due.Reminder.Title),
		Icon:  "/icons/icon-192.png",
		Badge: "/icons/badge-72.png",
		Data: payloadData{
			Type:       "reminder_due",
			ReminderID: due.Reminder.ID.Hex(),
			AnimalID:   due.Animal.ID.Hex(),
			URL:        fmt.Sprintf("/animals/%s", due.Animal.ID.Hex()),
		},
		Actions: []payloadAction{
			{Action: "complete", Title: "Mark done"},
			{Action: "snooze", Title: "Snooze"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build reminder payload: %v", err)
	}

	report := s.fanOut(ctx, subs, payload)
	logrus.WithFields(logrus.Fields{
		"reminder_id": due.Reminder.ID.Hex(),
		"success":     report.Success,
		"failure":     report.Failure,
		"expired":     len(report.ExpiredEndpoints),
	}).Info("Dispatched reminder notification")
	return report, nil
}

// DispatchToUser notifies every subscription of a single user.
func (s *PushService) DispatchToUser(ctx context.Context, userID primitive.ObjectID, msg PushMessage) (*DeliveryReport, error) {
	subs, err := s.subs.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user subscriptions: %v", err)
	}

	payload, err := json.Marshal(pushPayload{
		Title: msg.Title,
		Body:  msg.Body,
		Icon:  "/icons/icon-192.png",
		Badge: "/icons/badge-72.png",
		Data: payloadData{
			Type: msg.Type,
			URL:  msg.URL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %v", err)
	}

	report := s.fanOut(ctx, subs, payload)
	logrus.WithFields(logrus.Fields{
		"user_id": userID.Hex(),
		"success": report.Success,
		"failure": report.Failure,
	}).Info("Dispatched user notification")
	return report, nil
}

// fanOut submits one delivery attempt per subscription through a bounded
// worker pool, aggregates the results behind a mutex, then deletes expired
// endpoints before returning. Cleanup is part of the same call so a
// returned report never references a subscription that still exists.
func (s *PushService) fanOut(ctx context.Context, subs []models.PushSubscription, payload []byte) *DeliveryReport {
	report := &DeliveryReport{}
	var delivered []string

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i := range subs {
		sub := subs[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			res := s.transport.Send(ctx, &sub, payload)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case res.Accepted:
				report.Success++
				delivered = append(delivered, sub.Endpoint)
			case res.PermanentlyGone:
				report.Failure++
				report.ExpiredEndpoints = append(report.ExpiredEndpoints, sub.Endpoint)
			default:
				report.Failure++
				logrus.WithError(res.Err).WithField("endpoint", sub.Endpoint).Warn("Transient push delivery failure")
			}
		}()
	}
	wg.Wait()

	for _, endpoint := range report.ExpiredEndpoints {
		deleted, err := s.subs.DeleteByEndpoint(ctx, endpoint)
		if err != nil {
			logrus.WithError(err).WithField("endpoint", endpoint).Error("Failed to delete expired subscription")
			continue
		}
		if deleted {
			logrus.WithField("endpoint", endpoint).Info("Removed expired push subscription")
		}
	}

	if len(delivered) > 0 {
		if err := s.subs.TouchEndpoints(ctx, delivered, s.clock.Now()); err != nil {
			logrus.WithError(err).Warn("Failed to update subscription last-used timestamps")
		}
	}
	return report
}
