package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ratesense/ratesense/internal/adapter/storage/postgres"
	"github.com/ratesense/ratesense/internal/domain"
)

func TestDatabase_OccupancyUpsert(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Gorm == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	repo := postgres.NewOccupancyRepository(env.Gorm, env.Logger)
	ctx := context.Background()

	night1 := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	night2 := night1.AddDate(0, 0, 1)

	records := []domain.OccupancyRecord{
		domain.NewOccupancyRecord("hotel-1", 640240, night1, false),
		domain.NewOccupancyRecord("hotel-1", 640240, night2, false),
	}
	if err := repo.SaveBatch(ctx, records); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	// Re-importing the same night flips the occupied flag instead of
	// inserting a duplicate row.
	update := []domain.OccupancyRecord{
		domain.NewOccupancyRecord("hotel-1", 640240, night1, true),
	}
	if err := repo.SaveBatch(ctx, update); err != nil {
		t.Fatalf("SaveBatch upsert failed: %v", err)
	}

	count, err := repo.CountByHotel(ctx, "hotel-1")
	if err != nil {
		t.Fatalf("CountByHotel failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 records after upsert, got %d", count)
	}

	page, err := repo.FindPage(ctx, "hotel-1", 10, 0)
	if err != nil {
		t.Fatalf("FindPage failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("Expected 2 records in page, got %d", len(page))
	}
	if !page[0].Occupied {
		t.Error("Expected first night to be occupied after upsert")
	}
	if page[0].Weekday != 0 {
		t.Errorf("Expected Monday index 0 for 2024-06-03, got %d", page[0].Weekday)
	}
}

func TestDatabase_OccupancyPagination(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Gorm == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	repo := postgres.NewOccupancyRepository(env.Gorm, env.Logger)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []domain.OccupancyRecord
	for i := 0; i < 25; i++ {
		records = append(records, domain.NewOccupancyRecord("hotel-1", 640240, start.AddDate(0, 0, i), i%2 == 0))
	}
	// A record for another hotel must not leak into hotel-1 pages.
	records = append(records, domain.NewOccupancyRecord("hotel-2", 537702, start, true))

	if err := repo.SaveBatch(ctx, records); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	page1, err := repo.FindPage(ctx, "hotel-1", 10, 0)
	if err != nil {
		t.Fatalf("FindPage page 1 failed: %v", err)
	}
	if len(page1) != 10 {
		t.Errorf("Expected 10 records on page 1, got %d", len(page1))
	}

	page3, err := repo.FindPage(ctx, "hotel-1", 10, 20)
	if err != nil {
		t.Fatalf("FindPage page 3 failed: %v", err)
	}
	if len(page3) != 5 {
		t.Errorf("Expected 5 records on page 3, got %d", len(page3))
	}

	for i := 1; i < len(page1); i++ {
		if page1[i].Date.Before(page1[i-1].Date) {
			t.Fatal("Expected page ordered by date ascending")
		}
	}
}

func TestDatabase_PayloadRoundtrip(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Gorm == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	repo := postgres.NewPayloadRepository(env.Gorm, env.Logger)
	ctx := context.Background()

	missing, err := repo.FindByKey(ctx, domain.PayloadKey("hotel-1"))
	if err != nil {
		t.Fatalf("FindByKey on empty table failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil payload for missing key")
	}

	body, _ := json.Marshal(map[string]int{"count": 12})
	computedAt := time.Now().UTC().Truncate(time.Second)
	stored := &domain.StoredPayload{
		Key:        domain.PayloadKey("hotel-1"),
		Payload:    body,
		ComputedAt: computedAt,
	}
	if err := repo.Save(ctx, stored); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Saving the same key again replaces the row.
	stored.ComputedAt = computedAt.Add(time.Hour)
	if err := repo.Save(ctx, stored); err != nil {
		t.Fatalf("Save overwrite failed: %v", err)
	}

	found, err := repo.FindByKey(ctx, "hotel-1_recommendations")
	if err != nil {
		t.Fatalf("FindByKey failed: %v", err)
	}
	if found == nil {
		t.Fatal("Expected stored payload, got nil")
	}
	if !found.ComputedAt.UTC().Equal(computedAt.Add(time.Hour)) {
		t.Errorf("Expected overwritten ComputedAt, got %v", found.ComputedAt)
	}

	var decoded map[string]int
	if err := json.Unmarshal(found.Payload, &decoded); err != nil {
		t.Fatalf("Failed to decode stored payload: %v", err)
	}
	if decoded["count"] != 12 {
		t.Errorf("Expected count 12 in payload, got %d", decoded["count"])
	}
}

func TestDatabase_DecisionLog(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Gorm == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	repo := postgres.NewDecisionRepository(env.Gorm, env.Logger)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	decisions := []domain.Decision{
		{
			ID:               uuid.New().String(),
			RecommendationID: "2025-05-08_640240",
			Type:             domain.AdjustmentMarkup,
			Decision:         domain.DecisionApproved,
			DecidedAt:        now.Add(-time.Hour),
		},
		{
			ID:               uuid.New().String(),
			RecommendationID: "2025-05-08_640240",
			Type:             domain.AdjustmentMarkup,
			Decision:         domain.DecisionRejected,
			DecidedAt:        now,
		},
		{
			ID:               uuid.New().String(),
			RecommendationID: "2025-05-09_537702",
			Type:             domain.AdjustmentDiscount,
			Decision:         domain.DecisionModified,
			UserChange:       -5,
			DecidedAt:        now.Add(-30 * time.Minute),
		},
	}
	for i := range decisions {
		if err := repo.Save(ctx, &decisions[i]); err != nil {
			t.Fatalf("Save decision failed: %v", err)
		}
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 decisions, got %d", len(all))
	}

	byRec, err := repo.FindByRecommendationID(ctx, "2025-05-08_640240")
	if err != nil {
		t.Fatalf("FindByRecommendationID failed: %v", err)
	}
	if len(byRec) != 2 {
		t.Fatalf("Expected 2 decisions for recommendation, got %d", len(byRec))
	}
	if byRec[0].Decision != domain.DecisionRejected {
		t.Errorf("Expected newest decision first, got %s", byRec[0].Decision)
	}
}

func TestDatabase_RoomKindCatalog(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Gorm == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	repo := postgres.NewRoomKindRepository(env.Gorm, env.Logger)
	ctx := context.Background()

	kinds := domain.DefaultRoomKinds()
	if err := repo.SaveAll(ctx, kinds); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	// A refreshed catalog with the same IDs updates in place.
	kinds[0].Name = "101a"
	if err := repo.SaveAll(ctx, kinds); err != nil {
		t.Fatalf("SaveAll refresh failed: %v", err)
	}

	found, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(found) != len(kinds) {
		t.Fatalf("Expected %d room kinds, got %d", len(kinds), len(found))
	}
	for _, kind := range found {
		if kind.ID == kinds[0].ID && kind.Name != "101a" {
			t.Errorf("Expected refreshed name 101a, got %s", kind.Name)
		}
	}
}
