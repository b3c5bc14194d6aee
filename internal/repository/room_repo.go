package repository

import (
	"context"

	"koskita/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) ListByProperty(ctx context.Context, propertyID int64) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("room_number").
		Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// SetActive flips the manual listing switch. The occupancy flag is not
// touched here; the booking lifecycle owns it.
func (r *RoomRepository) SetActive(ctx context.Context, roomID int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("id = ?", roomID).
		Update("is_active", active).Error
}

// GetOwnerID resolves the owning adminkos user for a room via its property.
func (r *RoomRepository) GetOwnerID(ctx context.Context, roomID int64) (int64, error) {
	var ownerID int64
	q := `
SELECT p.owner_id
FROM rooms r
JOIN properties p ON p.id = r.property_id
WHERE r.id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, roomID).Scan(&ownerID)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return ownerID, nil
}
