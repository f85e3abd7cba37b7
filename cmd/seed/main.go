package main

import (
	"context"
	"log"
	"time"

	"spacebook/internal/database"
	"spacebook/internal/domain"
	"spacebook/internal/repository"
)

func main() {
	db, err := database.Connect("spacebook.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (link tables first)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM booking_services")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM space_amenities")
	db.Exec("DELETE FROM spaces")
	db.Exec("DELETE FROM amenities")
	db.Exec("DELETE FROM addon_services")

	ctx := context.Background()
	spaceRepo := repository.NewSpaceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	addonRepo := repository.NewAddonServiceRepository(db)

	// ================== AMENITIES ==================
	log.Println("Creating amenities...")
	amenities := map[string]*domain.Amenity{}
	for _, name := range []string{"WiFi", "Projector", "Whiteboard", "Coffee machine", "Parking"} {
		a := &domain.Amenity{Name: name}
		if err := spaceRepo.CreateAmenity(ctx, a); err != nil {
			log.Fatal("Create amenity failed:", err)
		}
		amenities[name] = a
	}

	// ================== ADD-ON SERVICES ==================
	log.Println("Creating add-on services...")
	addons := []domain.AddonService{
		{Name: "Catering (per person)", Unit: "person", PricePerUnit: 12.5, IsActive: true},
		{Name: "Extra cleaning", Unit: "visit", PricePerUnit: 30, IsActive: true},
		{Name: "AV technician", Unit: "hour", PricePerUnit: 25, IsActive: true},
		{Name: "Retired service", Unit: "hour", PricePerUnit: 5, IsActive: false},
	}
	for i := range addons {
		if err := addonRepo.Create(ctx, &addons[i]); err != nil {
			log.Fatal("Create add-on service failed:", err)
		}
	}

	// ================== SPACES ==================
	log.Println("Creating spaces...")
	day := 400.0
	spaces := []*domain.Space{
		{
			OwnerID:                   1,
			Name:                      "Downtown Meeting Room A",
			Description:               "Bright 8-person meeting room with street view",
			City:                      "Almaty",
			SpaceType:                 domain.SpaceMeetingRoom,
			Capacity:                  8,
			PricePerHour:              20,
			OpenTime:                  "08:00",
			CloseTime:                 "20:00",
			MinBookingDurationMinutes: 30,
			MaxBookingDurationMinutes: 480,
			CancellationNoticeHours:   24,
			CleaningDurationMinutes:   15,
			BufferMinutes:             15,
			Status:                    domain.SpaceAvailable,
			Amenities: []domain.Amenity{
				{ID: amenities["WiFi"].ID},
				{ID: amenities["Projector"].ID},
				{ID: amenities["Whiteboard"].ID},
			},
		},
		{
			OwnerID:                   1,
			Name:                      "Grand Event Hall",
			Description:               "200-person hall for conferences and receptions",
			City:                      "Almaty",
			SpaceType:                 domain.SpaceEventHall,
			Capacity:                  200,
			PricePerHour:              150,
			PricePerDay:               &day,
			MinBookingDurationMinutes: 120,
			MaxBookingDurationMinutes: domain.MaxBookingDurationLimit,
			CancellationNoticeHours:   72,
			CleaningDurationMinutes:   60,
			BufferMinutes:             30,
			Status:                    domain.SpaceAvailable,
			Amenities: []domain.Amenity{
				{ID: amenities["WiFi"].ID},
				{ID: amenities["Parking"].ID},
			},
		},
		{
			OwnerID:                   2,
			Name:                      "Photo Studio North",
			SpaceType:                 domain.SpaceStudio,
			Capacity:                  6,
			PricePerHour:              35,
			MinBookingDurationMinutes: 60,
			MaxBookingDurationMinutes: 600,
			CancellationNoticeHours:   12,
			CleaningDurationMinutes:   30,
			Status:                    domain.SpaceAvailable,
			Amenities:                 []domain.Amenity{{ID: amenities["WiFi"].ID}},
		},
	}
	for _, s := range spaces {
		s.CreatedAt = time.Now().UTC()
		s.UpdatedAt = time.Now().UTC()
		if err := spaceRepo.Create(ctx, s); err != nil {
			log.Fatal("Create space failed:", err)
		}
	}

	// ================== BOOKINGS ==================
	log.Println("Creating sample bookings...")
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	b := &domain.Booking{
		SpaceID:        spaces[0].ID,
		Requester:      domain.RegisteredRequester(100),
		StartTime:      start,
		EndTime:        start.Add(2 * time.Hour),
		BlockedUntil:   start.Add(2 * time.Hour).Add(spaces[0].BlackoutDuration()),
		NumberOfPeople: 4,
		Status:         domain.BookingConfirmed,
		TotalPrice:     40,
		BookingCode:    "SEED0001",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := bookingRepo.CreateWithOverlapCheck(ctx, b); err != nil {
		log.Fatal("Create booking failed:", err)
	}

	log.Println("Seed complete.")
}
