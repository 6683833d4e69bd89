package database

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"leavedesk/config"
	"leavedesk/models"
)

// Store-layer sentinel errors. Both correspond to UNIQUE constraints in the
// schema, so they hold under concurrent writers as well as sequential ones.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateDate     = errors.New("leave request already exists for this date")
)

// Open connects to the SQLite database and migrates the schema. Error
// translation is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey and can be mapped to the sentinels above.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.User{}, &models.LeaveRequest{}); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureAdmin creates the configured admin account if it does not exist yet.
// An existing account is left untouched, so a redeploy never resets the
// admin password.
func EnsureAdmin(users *UserStore, cfg config.AdminConfig) error {
	existing, err := users.GetByUsername(cfg.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := users.Create(cfg.Username, string(hash), models.RoleAdmin); err != nil {
		return err
	}
	logrus.Infof("Admin user %q created", cfg.Username)
	return nil
}
