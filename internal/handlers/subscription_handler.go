package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/PawPack_Tracker/internal/services"
	"github.com/Dias221467/PawPack_Tracker/pkg/middleware"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionHandler handles HTTP requests related to push subscriptions.
type SubscriptionHandler struct {
	Repo services.SubscriptionRepository
	Push *services.PushService
}

// NewSubscriptionHandler creates a new instance of SubscriptionHandler.
func NewSubscriptionHandler(repo services.SubscriptionRepository, push *services.PushService) *SubscriptionHandler {
	return &SubscriptionHandler{Repo: repo, Push: push}
}

// subscribeRequest mirrors the browser PushSubscription JSON shape.
type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// SubscribeHandler stores (or refreshes) the caller's push subscription.
func (h *SubscriptionHandler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid subscription payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		http.Error(w, "Endpoint and keys are required", http.StatusBadRequest)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	sub, err := h.Repo.Upsert(r.Context(), userID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		log.WithError(err).Error("Failed to store push subscription")
		http.Error(w, "Failed to store subscription", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sub)
}

// UnsubscribeHandler removes the subscription with the given endpoint.
func (h *SubscriptionHandler) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		http.Error(w, "Endpoint is required", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	deleted, err := h.Repo.DeleteByEndpoint(r.Context(), req.Endpoint)
	if err != nil {
		log.WithError(err).Error("Failed to delete push subscription")
		http.Error(w, "Failed to delete subscription", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Subscription not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Unsubscribed"})
}

// TestPushHandler sends a test notification to every subscription of the
// caller and returns the delivery report.
func (h *SubscriptionHandler) TestPushHandler(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.Push.DispatchToUser(r.Context(), userID, services.PushMessage{
		Type:  "test",
		Title: "PawPack Tracker",
		Body:  "Push notifications are working!",
		URL:   "/settings/notifications",
	})
	if err != nil {
		log.WithError(err).Error("Failed to send test notification")
		http.Error(w, "Failed to send test notification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
