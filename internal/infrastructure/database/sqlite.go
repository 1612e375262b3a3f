package database

import (
	"fmt"

	"clinic-scheduler/internal/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteConnection opens an embedded database with the schema created by
// gorm. It backs local runs without PostgreSQL and the test suites; it has no
// exclusion constraints, so the booking lock is the only overlap guard.
func NewSQLiteConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates the schema from the entities and seeds the staff roles.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Role{},
		&entity.Specialization{},
		&entity.Doctor{},
		&entity.User{},
		&entity.Patient{},
		&entity.Room{},
		&entity.Treatment{},
		&entity.Appointment{},
		&entity.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin, Description: "Clinic administrator"},
		{ID: entity.RoleIDReceptionist, RoleName: entity.RoleReceptionist, Description: "Front desk staff"},
		{ID: entity.RoleIDDoctor, RoleName: entity.RoleDoctor, Description: "Practitioner"},
	}
	for i := range roles {
		if err := db.Where(entity.Role{ID: roles[i].ID}).FirstOrCreate(&roles[i]).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roles[i].RoleName, err)
		}
	}
	return nil
}
