package config

import (
	"fmt"
	"time"

	"barberqueue-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ServingChannel is the Postgres NOTIFY channel raised when the serving state changes.
const ServingChannel = "serving_state_changed"

func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	return db, nil
}

// Migrate creates the tables, seeds the serving state record and installs the
// trigger that publishes serving changes on ServingChannel.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.WaitlistEntry{},
		&models.ServingState{},
		&models.Appointment{},
		&models.NotificationLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	state := models.ServingState{ID: models.ServingStateID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&state).Error; err != nil {
		return fmt.Errorf("seed serving state: %w", err)
	}

	statements := []string{
		`CREATE OR REPLACE FUNCTION notify_serving_state() RETURNS trigger AS $$
BEGIN
	IF NEW.announced_at IS DISTINCT FROM OLD.announced_at THEN
		PERFORM pg_notify('` + ServingChannel + `', json_build_object('now_serving', NEW.now_serving)::text);
	END IF;
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS serving_state_notify ON serving_states`,
		`CREATE TRIGGER serving_state_notify AFTER UPDATE ON serving_states
	FOR EACH ROW EXECUTE FUNCTION notify_serving_state()`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install serving trigger: %w", err)
		}
	}
	return nil
}
