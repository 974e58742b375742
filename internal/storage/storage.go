package storage

import (
	"log"

	"gorm.io/gorm"

	"pairchat/backend/internal/models"
)

// Service writes closed-room records to PostgreSQL. It is a write-behind
// archive: the in-memory room registry stays the source of truth and archive
// failures never reach callers.
type Service struct {
	DB *gorm.DB
}

// NewService wraps an open GORM connection.
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Migrate creates the archive table.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(&models.RoomArchive{})
}

// SaveClosedRoom archives the metadata of a closed room. Message content is
// never written; there is no message log.
func (s *Service) SaveClosedRoom(room *models.ChatRoom) error {
	record := models.RoomArchive{
		RoomID:    room.RoomID,
		StartedAt: room.StartedAt,
		EndedAt:   room.EndedAt,
	}
	for _, u := range []*models.User{room.User1, room.User2} {
		if u == nil {
			continue
		}
		record.Occupants = append(record.Occupants, u.ID)
		record.DisplayNames = append(record.DisplayNames, u.Name())
	}

	if err := s.DB.Create(&record).Error; err != nil {
		log.Printf("storage: failed to archive room %s: %v", room.RoomID, err)
		return err
	}
	return nil
}

// ClosedRoomCount returns how many rooms have been archived.
func (s *Service) ClosedRoomCount() (int64, error) {
	var n int64
	err := s.DB.Model(&models.RoomArchive{}).Count(&n).Error
	return n, err
}
