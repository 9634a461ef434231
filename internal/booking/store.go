package booking

import (
	"errors"

	"github.com/dkmwangi/cabride-backend/internal/models"
	"gorm.io/gorm"
)

// GormStore persists bookings through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(b *models.Booking) error {
	return s.db.Create(b).Error
}

func (s *GormStore) Get(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) Save(b *models.Booking) error {
	return s.db.Save(b).Error
}

func (s *GormStore) Delete(id uint) error {
	return s.db.Delete(&models.Booking{}, id).Error
}

func (s *GormStore) List() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.Order("id").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
