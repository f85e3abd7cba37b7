package repository

import "gorm.io/gorm"

// Migrate creates the engine's tables and indexes. Row models are private
// to this package, so migration lives here too.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&spaceRow{},
		&amenityRow{},
		&spaceAmenityRow{},
		&bookingRow{},
		&bookingServiceRow{},
		&addonServiceRow{},
	)
}
