package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/Dias221467/PawPack_Tracker/internal/services"
	"github.com/Dias221467/PawPack_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PackHandler handles HTTP requests related to packs and their animals.
type PackHandler struct {
	Service *services.PackService
}

// NewPackHandler creates a new instance of PackHandler.
func NewPackHandler(service *services.PackService) *PackHandler {
	return &PackHandler{Service: service}
}

// CreatePackHandler creates a pack owned by the caller.
func (h *PackHandler) CreatePackHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	pack, err := h.Service.CreatePack(r.Context(), req.Name, ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to create pack")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pack)
}

// GetPackHandler fetches one pack.
func (h *PackHandler) GetPackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	pack, err := h.Service.GetPack(r.Context(), vars["id"])
	if err != nil {
		http.Error(w, "Pack not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pack)
}

// AddMemberHandler adds a user to the pack.
func (h *PackHandler) AddMemberHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.AddMember(r.Context(), vars["id"], req.UserID); err != nil {
		log.WithError(err).Error("Failed to add pack member")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Member added"})
}

// CreateAnimalHandler registers an animal in a pack.
func (h *PackHandler) CreateAnimalHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var animal models.Animal
	if err := json.NewDecoder(r.Body).Decode(&animal); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.CreateAnimal(r.Context(), &animal)
	if err != nil {
		log.WithError(err).Error("Failed to create animal")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

// GetAnimalHandler fetches one animal.
func (h *PackHandler) GetAnimalHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	animal, err := h.Service.GetAnimal(r.Context(), vars["id"])
	if err != nil {
		http.Error(w, "Animal not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(animal)
}

// GetAnimalLogsHandler returns an animal's care history.
func (h *PackHandler) GetAnimalLogsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	logs, err := h.Service.GetAnimalLogs(r.Context(), vars["id"])
	if err != nil {
		log.WithError(err).Error("Failed to fetch animal logs")
		http.Error(w, "Failed to fetch logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}
