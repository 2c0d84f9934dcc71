package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/Dias221467/PawPack_Tracker/internal/push"
	"github.com/Dias221467/PawPack_Tracker/internal/recurrence"
	"github.com/Dias221467/PawPack_Tracker/internal/services"
	"github.com/Dias221467/PawPack_Tracker/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The job is exercised end to end: real ReminderService and PushService
// over in-memory stores and a canned transport.

type memReminderStore struct {
	reminders map[primitive.ObjectID]*models.Reminder
}

func (m *memReminderStore) CreateReminder(ctx context.Context, r *models.Reminder) (*models.Reminder, error) {
	r.ID = primitive.NewObjectID()
	cp := *r
	m.reminders[r.ID] = &cp
	return r, nil
}

func (m *memReminderStore) GetReminderByID(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	r, ok := m.reminders[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *r
	return &cp, nil
}

func (m *memReminderStore) UpdateReminder(ctx context.Context, r *models.Reminder) error {
	cp := *r
	m.reminders[r.ID] = &cp
	return nil
}

func (m *memReminderStore) DeleteReminder(ctx context.Context, id primitive.ObjectID) error {
	delete(m.reminders, id)
	return nil
}

func (m *memReminderStore) FindDue(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	var due []models.Reminder
	for _, r := range m.reminders {
		if r.IsActive && r.NextOccurrence != nil && !r.NextOccurrence.After(now) {
			due = append(due, *r)
		}
	}
	return due, nil
}

func (m *memReminderStore) FindUpcoming(ctx context.Context, animalIDs []primitive.ObjectID, from, to time.Time) ([]models.Reminder, error) {
	return nil, nil
}

type memAnimalStore struct {
	animals map[primitive.ObjectID]*models.Animal
}

func (m *memAnimalStore) CreateAnimal(ctx context.Context, a *models.Animal) (*models.Animal, error) {
	m.animals[a.ID] = a
	return a, nil
}

func (m *memAnimalStore) GetAnimalByID(ctx context.Context, id primitive.ObjectID) (*models.Animal, error) {
	a, ok := m.animals[id]
	if !ok {
		return nil, errors.New("animal not found")
	}
	return a, nil
}

func (m *memAnimalStore) GetAnimalsByPacks(ctx context.Context, packIDs []primitive.ObjectID) ([]models.Animal, error) {
	return nil, nil
}

type stubPackStore struct{}

func (stubPackStore) CreatePack(ctx context.Context, p *models.Pack) (*models.Pack, error) {
	return p, nil
}
func (stubPackStore) GetPackByID(ctx context.Context, id primitive.ObjectID) (*models.Pack, error) {
	return nil, errors.New("pack not found")
}
func (stubPackStore) GetPacksByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Pack, error) {
	return nil, nil
}
func (stubPackStore) AddMember(ctx context.Context, packID, userID primitive.ObjectID) error {
	return nil
}

type stubTaskLogStore struct{}

func (stubTaskLogStore) CreateTaskLog(ctx context.Context, log *models.TaskLog) (*models.TaskLog, error) {
	return log, nil
}
func (stubTaskLogStore) GetLogsByAnimal(ctx context.Context, animalID primitive.ObjectID) ([]models.TaskLog, error) {
	return nil, nil
}

// memSubscriptionStore keys pack audiences by pack ID and can be told to
// fail lookups for a specific pack.
type memSubscriptionStore struct {
	byPack   map[primitive.ObjectID][]models.PushSubscription
	failPack primitive.ObjectID
}

func (m *memSubscriptionStore) Upsert(ctx context.Context, userID primitive.ObjectID, endpoint, p256dh, auth string) (*models.PushSubscription, error) {
	return nil, nil
}

func (m *memSubscriptionStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PushSubscription, error) {
	return nil, nil
}

func (m *memSubscriptionStore) FindByPackMembers(ctx context.Context, packID primitive.ObjectID) ([]models.PushSubscription, error) {
	if packID == m.failPack {
		return nil, errors.New("subscription lookup failed")
	}
	return m.byPack[packID], nil
}

func (m *memSubscriptionStore) DeleteByEndpoint(ctx context.Context, endpoint string) (bool, error) {
	return false, nil
}

func (m *memSubscriptionStore) TouchEndpoints(ctx context.Context, endpoints []string, at time.Time) error {
	return nil
}

// okTransport accepts every send and counts attempts.
type okTransport struct {
	sent int
}

func (t *okTransport) Send(ctx context.Context, sub *models.PushSubscription, payload []byte) push.Result {
	t.sent++
	return push.Result{Accepted: true}
}

type jobFixture struct {
	job       *DueReminderJob
	reminders *memReminderStore
	animals   *memAnimalStore
	subs      *memSubscriptionStore
	transport *okTransport
	packID    primitive.ObjectID
	animalID  primitive.ObjectID
}

func newJobFixture(now time.Time) *jobFixture {
	reminders := &memReminderStore{reminders: make(map[primitive.ObjectID]*models.Reminder)}
	animals := &memAnimalStore{animals: make(map[primitive.ObjectID]*models.Animal)}
	subs := &memSubscriptionStore{byPack: make(map[primitive.ObjectID][]models.PushSubscription)}
	transport := &okTransport{}

	packID := primitive.NewObjectID()
	animalID := primitive.NewObjectID()
	animals.animals[animalID] = &models.Animal{ID: animalID, PackID: packID, Name: "Rex"}
	subs.byPack[packID] = []models.PushSubscription{
		{ID: primitive.NewObjectID(), Endpoint: "https://push.example/ep-1", P256dh: "key", Auth: "auth"},
	}

	clk := clock.Fixed{T: now}
	reminderSvc := services.NewReminderService(reminders, animals, stubPackStore{}, stubTaskLogStore{}, recurrence.NewCalculator(time.UTC), clk)
	pushSvc := services.NewPushService(subs, transport, clk, 2)

	return &jobFixture{
		job:       NewDueReminderJob(reminderSvc, pushSvc),
		reminders: reminders,
		animals:   animals,
		subs:      subs,
		transport: transport,
		packID:    packID,
		animalID:  animalID,
	}
}

func (f *jobFixture) seedReminder(r *models.Reminder) primitive.ObjectID {
	r.ID = primitive.NewObjectID()
	r.AnimalID = f.animalID
	f.reminders.reminders[r.ID] = r
	return r.ID
}

func TestRunDueReminderPass_DailyNotifiesAndAdvances(t *testing.T) {
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	f := newJobFixture(now)

	due := time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)
	id := f.seedReminder(&models.Reminder{
		Title:          "Morning feed",
		Frequency:      models.FrequencyDaily,
		TimeOfDay:      "09:00",
		IsActive:       true,
		NextOccurrence: &due,
	})

	summary, err := f.job.RunDueReminderPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, RunSummary{Processed: 1, Notified: 1, Errors: 0}, summary)
	assert.Equal(t, 1, f.transport.sent)

	stored := f.reminders.reminders[id]
	assert.True(t, stored.IsActive)
	require.NotNil(t, stored.NextOccurrence)
	assert.Equal(t, time.Date(2025, time.January, 16, 9, 0, 0, 0, time.UTC), *stored.NextOccurrence)
}

func TestRunDueReminderPass_SecondPassFindsNothing(t *testing.T) {
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	f := newJobFixture(now)

	due := time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)
	f.seedReminder(&models.Reminder{
		Title:          "Morning feed",
		Frequency:      models.FrequencyDaily,
		TimeOfDay:      "09:00",
		IsActive:       true,
		NextOccurrence: &due,
	})

	first, err := f.job.RunDueReminderPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	second, err := f.job.RunDueReminderPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RunSummary{}, second)
	assert.Equal(t, 1, f.transport.sent)
}

func TestRunDueReminderPass_OnceRetiresAfterFiring(t *testing.T) {
	now := time.Date(2025, time.June, 20, 10, 30, 0, 0, time.UTC)
	f := newJobFixture(now)

	date := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, time.June, 20, 10, 0, 0, 0, time.UTC)
	id := f.seedReminder(&models.Reminder{
		Title:          "Vet visit",
		Frequency:      models.FrequencyOnce,
		TimeOfDay:      "10:00",
		SpecificDate:   &date,
		IsActive:       true,
		NextOccurrence: &due,
	})

	summary, err := f.job.RunDueReminderPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RunSummary{Processed: 1, Notified: 1, Errors: 0}, summary)

	stored := f.reminders.reminders[id]
	assert.False(t, stored.IsActive)
	assert.Nil(t, stored.NextOccurrence)
}

func TestRunDueReminderPass_DispatchErrorStillAdvances(t *testing.T) {
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	f := newJobFixture(now)
	f.subs.failPack = f.packID

	due := time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)
	id := f.seedReminder(&models.Reminder{
		Title:          "Morning feed",
		Frequency:      models.FrequencyDaily,
		TimeOfDay:      "09:00",
		IsActive:       true,
		NextOccurrence: &due,
	})

	summary, err := f.job.RunDueReminderPass(context.Background())
	require.NoError(t, err)

	// The failure is counted, but the schedule moved on anyway so the
	// reminder does not re-fire every minute.
	assert.Equal(t, RunSummary{Processed: 1, Notified: 0, Errors: 1}, summary)

	stored := f.reminders.reminders[id]
	require.NotNil(t, stored.NextOccurrence)
	assert.Equal(t, time.Date(2025, time.January, 16, 9, 0, 0, 0, time.UTC), *stored.NextOccurrence)
}

func TestRunDueReminderPass_OneFailureDoesNotAbortOthers(t *testing.T) {
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	f := newJobFixture(now)

	// A second animal in a pack whose subscription lookup fails.
	badPack := primitive.NewObjectID()
	badAnimal := primitive.NewObjectID()
	f.animals.animals[badAnimal] = &models.Animal{ID: badAnimal, PackID: badPack, Name: "Mittens"}
	f.subs.failPack = badPack

	due := time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)
	goodID := f.seedReminder(&models.Reminder{
		Title:          "Morning feed",
		Frequency:      models.FrequencyDaily,
		TimeOfDay:      "09:00",
		IsActive:       true,
		NextOccurrence: &due,
	})

	badDue := due
	badID := primitive.NewObjectID()
	f.reminders.reminders[badID] = &models.Reminder{
		ID:             badID,
		AnimalID:       badAnimal,
		Title:          "Evening walk",
		Frequency:      models.FrequencyDaily,
		TimeOfDay:      "09:00",
		IsActive:       true,
		NextOccurrence: &badDue,
	}

	summary, err := f.job.RunDueReminderPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Notified)
	assert.Equal(t, 1, summary.Errors)

	// Both advanced regardless of the dispatch outcome.
	next := time.Date(2025, time.January, 16, 9, 0, 0, 0, time.UTC)
	require.NotNil(t, f.reminders.reminders[goodID].NextOccurrence)
	assert.Equal(t, next, *f.reminders.reminders[goodID].NextOccurrence)
	require.NotNil(t, f.reminders.reminders[badID].NextOccurrence)
	assert.Equal(t, next, *f.reminders.reminders[badID].NextOccurrence)
}
