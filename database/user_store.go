package database

import (
	"errors"

	"gorm.io/gorm"

	"leavedesk/models"
)

// UserStore persists user identities. No update or delete operations exist;
// accounts are immutable once created.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. The username UNIQUE index is the authority on
// duplicates; a violation comes back as ErrDuplicateUsername.
func (s *UserStore) Create(username, passwordHash, role string) (*models.User, error) {
	user := &models.User{
		Username: username,
		Password: passwordHash,
		Role:     role,
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return user, nil
}

// GetByUsername returns the user with the given username, or nil if absent.
func (s *UserStore) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with the given id, or nil if absent.
func (s *UserStore) GetByID(id int) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
