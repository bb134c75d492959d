// Package testdb opens an in-memory SQLite database with the full schema for
// repository and service tests.
package testdb

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	advanceDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/advance"
	leaveDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/leave"
	notificationDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/notification"
	pushDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/push"
	serviceDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/servicerequest"
	userDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/user"
)

func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// each new connection to :memory: is a separate, empty database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&advanceDatamodel.AdvanceRequest{},
		&leaveDatamodel.LeaveRequest{},
		&serviceDatamodel.ServiceRequest{},
		&notificationDatamodel.Notification{},
		&pushDatamodel.Subscription{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
