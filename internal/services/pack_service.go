package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PackService encapsulates pack membership and animal management.
type PackService struct {
	packRepo   PackRepository
	animalRepo AnimalRepository
	logRepo    TaskLogRepository
}

// NewPackService creates a new instance of PackService.
func NewPackService(packRepo PackRepository, animalRepo AnimalRepository, logRepo TaskLogRepository) *PackService {
	return &PackService{
		packRepo:   packRepo,
		animalRepo: animalRepo,
		logRepo:    logRepo,
	}
}

// CreatePack creates a pack owned by the given user, who becomes its first
// member.
func (s *PackService) CreatePack(ctx context.Context, name string, ownerID primitive.ObjectID) (*models.Pack, error) {
	if name == "" {
		return nil, fmt.Errorf("pack name is required")
	}

	pack := &models.Pack{
		Name:      name,
		OwnerID:   ownerID,
		MemberIDs: []primitive.ObjectID{ownerID},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	created, err := s.packRepo.CreatePack(ctx, pack)
	if err != nil {
		logrus.WithError(err).Error("Failed to create pack")
		return nil, fmt.Errorf("failed to create pack: %v", err)
	}

	logrus.WithField("pack_id", created.ID.Hex()).Info("Pack created")
	return created, nil
}

// AddMember adds a user to the pack.
func (s *PackService) AddMember(ctx context.Context, packID, userID string) error {
	packObjID, err := primitive.ObjectIDFromHex(packID)
	if err != nil {
		return fmt.Errorf("invalid pack ID: %v", err)
	}
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %v", err)
	}

	if err := s.packRepo.AddMember(ctx, packObjID, userObjID); err != nil {
		return fmt.Errorf("failed to add pack member: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"pack_id": packID,
		"user_id": userID,
	}).Info("Member added to pack")
	return nil
}

// GetPack retrieves a pack by its ID.
func (s *PackService) GetPack(ctx context.Context, id string) (*models.Pack, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid pack ID: %v", err)
	}
	pack, err := s.packRepo.GetPackByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pack: %v", err)
	}
	return pack, nil
}

// CreateAnimal registers an animal in a pack.
func (s *PackService) CreateAnimal(ctx context.Context, animal *models.Animal) (*models.Animal, error) {
	if animal.Name == "" {
		return nil, fmt.Errorf("animal name is required")
	}
	if animal.PackID.IsZero() {
		return nil, fmt.Errorf("animal must belong to a pack")
	}

	created, err := s.animalRepo.CreateAnimal(ctx, animal)
	if err != nil {
		logrus.WithError(err).Error("Failed to create animal")
		return nil, fmt.Errorf("failed to create animal: %v", err)
	}

	logrus.WithField("animal_id", created.ID.Hex()).Info("Animal created")
	return created, nil
}

// GetAnimal retrieves an animal by its ID.
func (s *PackService) GetAnimal(ctx context.Context, id string) (*models.Animal, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid animal ID: %v", err)
	}
	animal, err := s.animalRepo.GetAnimalByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get animal: %v", err)
	}
	return animal, nil
}

// GetAnimalLogs returns the care history of one animal.
func (s *PackService) GetAnimalLogs(ctx context.Context, animalID string) ([]models.TaskLog, error) {
	objID, err := primitive.ObjectIDFromHex(animalID)
	if err != nil {
		return nil, fmt.Errorf("invalid animal ID: %v", err)
	}
	logs, err := s.logRepo.GetLogsByAnimal(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task logs: %v", err)
	}
	return logs, nil
}
