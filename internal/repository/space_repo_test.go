package repository

import (
	"context"
	"testing"

	"spacebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func makeSpace(name string, owner int64) *domain.Space {
	return &domain.Space{
		OwnerID:                   owner,
		Name:                      name,
		SpaceType:                 domain.SpaceStudio,
		Capacity:                  8,
		PricePerHour:              10,
		MinBookingDurationMinutes: 30,
		MaxBookingDurationMinutes: 600,
		Status:                    domain.SpaceAvailable,
	}
}

func TestSpaceRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewSpaceRepository(db)
	ctx := context.Background()

	wifi := &domain.Amenity{Name: "WiFi"}
	require.NoError(t, repo.CreateAmenity(ctx, wifi))
	projector := &domain.Amenity{Name: "Projector"}
	require.NoError(t, repo.CreateAmenity(ctx, projector))

	s := makeSpace("Loft 12", 7)
	s.Amenities = []domain.Amenity{{ID: wifi.ID}, {ID: projector.ID}}
	require.NoError(t, repo.Create(ctx, s))
	require.NotZero(t, s.ID)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loft 12", got.Name)
	require.Len(t, got.Amenities, 2)
	assert.Equal(t, "Projector", got.Amenities[0].Name, "amenities come back name-sorted")
}

func TestSpaceRepository_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewSpaceRepository(db)
	ctx := context.Background()

	s := makeSpace("Loft 12", 7)
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.SoftDelete(ctx, s.ID))

	_, err := repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	spaces, total, err := repo.Search(ctx, SpaceFilters{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, spaces)
	assert.EqualValues(t, 0, total)

	// the row itself survives for historical bookings
	var cnt int64
	require.NoError(t, db.Model(&spaceRow{}).Where("id = ?", s.ID).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)
}

func TestSpaceRepository_SearchFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewSpaceRepository(db)
	ctx := context.Background()

	small := makeSpace("Small Room", 7)
	small.Capacity = 2
	small.PricePerHour = 5
	require.NoError(t, repo.Create(ctx, small))

	big := makeSpace("Big Hall", 7)
	big.Capacity = 50
	big.PricePerHour = 80
	big.SpaceType = domain.SpaceEventHall
	require.NoError(t, repo.Create(ctx, big))

	spaces, total, err := repo.Search(ctx, SpaceFilters{MinCapacity: 10, Limit: 10})
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Big Hall", spaces[0].Name)

	spaces, _, err = repo.Search(ctx, SpaceFilters{MaxPricePerHour: 10, Limit: 10})
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, "Small Room", spaces[0].Name)

	spaces, _, err = repo.Search(ctx, SpaceFilters{Keyword: "hall", Limit: 10})
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, "Big Hall", spaces[0].Name)

	spaces, _, err = repo.Search(ctx, SpaceFilters{SpaceType: "event_hall", Limit: 10})
	require.NoError(t, err)
	require.Len(t, spaces, 1)
}

func TestSpaceRepository_SearchAmenityContainment(t *testing.T) {
	db := newTestDB(t)
	repo := NewSpaceRepository(db)
	ctx := context.Background()

	wifi := &domain.Amenity{Name: "WiFi"}
	require.NoError(t, repo.CreateAmenity(ctx, wifi))
	projector := &domain.Amenity{Name: "Projector"}
	require.NoError(t, repo.CreateAmenity(ctx, projector))

	both := makeSpace("Both", 7)
	both.Amenities = []domain.Amenity{{ID: wifi.ID}, {ID: projector.ID}}
	require.NoError(t, repo.Create(ctx, both))

	wifiOnly := makeSpace("WifiOnly", 7)
	wifiOnly.Amenities = []domain.Amenity{{ID: wifi.ID}}
	require.NoError(t, repo.Create(ctx, wifiOnly))

	// requesting {wifi, projector} must match supersets only
	spaces, _, err := repo.Search(ctx, SpaceFilters{AmenityIDs: []int64{wifi.ID, projector.ID}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, "Both", spaces[0].Name)

	// requesting {wifi} matches both
	spaces, _, err = repo.Search(ctx, SpaceFilters{AmenityIDs: []int64{wifi.ID}, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, spaces, 2)
}

func TestSpaceRepository_SearchStableOrderAndPaging(t *testing.T) {
	db := newTestDB(t)
	repo := NewSpaceRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Charlie", "Alpha", "Bravo"} {
		require.NoError(t, repo.Create(ctx, makeSpace(name, 7)))
	}

	first, total, err := repo.Search(ctx, SpaceFilters{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, first, 2)
	assert.Equal(t, "Alpha", first[0].Name)
	assert.Equal(t, "Bravo", first[1].Name)

	second, _, err := repo.Search(ctx, SpaceFilters{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Charlie", second[0].Name)
}

func TestSpaceRepository_UpdateReplacesAmenities(t *testing.T) {
	db := newTestDB(t)
	repo := NewSpaceRepository(db)
	ctx := context.Background()

	wifi := &domain.Amenity{Name: "WiFi"}
	require.NoError(t, repo.CreateAmenity(ctx, wifi))
	projector := &domain.Amenity{Name: "Projector"}
	require.NoError(t, repo.CreateAmenity(ctx, projector))

	s := makeSpace("Loft 12", 7)
	s.Amenities = []domain.Amenity{{ID: wifi.ID}}
	require.NoError(t, repo.Create(ctx, s))

	s.Name = "Loft 12b"
	s.Amenities = []domain.Amenity{{ID: projector.ID}}
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loft 12b", got.Name)
	require.Len(t, got.Amenities, 1)
	assert.Equal(t, "Projector", got.Amenities[0].Name)
}
