package catalog

import (
	"context"
	"errors"

	"koskita/internal/domain"
	"koskita/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrInvalidDeposit = errors.New("invalid deposit configuration")
)

// Actor mirrors the identity middleware output.
type Actor struct {
	UserID int64
	Role   domain.Role
}

type Service struct {
	properties *repository.PropertyRepository
	rooms      *repository.RoomRepository
}

func NewService(properties *repository.PropertyRepository, rooms *repository.RoomRepository) *Service {
	return &Service{properties: properties, rooms: rooms}
}

/* ---------- PROPERTY ---------- */

func (s *Service) CreateProperty(ctx context.Context, actor Actor, req CreatePropertyRequest) (*domain.Property, error) {
	ownerID := actor.UserID
	switch actor.Role {
	case domain.RoleAdminKos:
		// owns what they create
	case domain.RoleSuperadmin:
		if req.OwnerID != nil {
			ownerID = *req.OwnerID
		}
	default:
		return nil, ErrForbidden
	}

	p := &domain.Property{
		OwnerID: ownerID,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateProperty(ctx context.Context, actor Actor, propertyID int64, req UpdatePropertyRequest) (*domain.Property, error) {
	p, err := s.ownedProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.Address = req.Address
	p.City = req.City
	if err := s.properties.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProperties(ctx context.Context, actor Actor) ([]domain.Property, error) {
	if actor.Role == domain.RoleAdminKos {
		return s.properties.ListByOwner(ctx, actor.UserID)
	}
	return s.properties.ListAll(ctx)
}

/* ---------- ROOM ---------- */

func (s *Service) CreateRoom(ctx context.Context, actor Actor, req CreateRoomRequest) (*domain.Room, error) {
	if _, err := s.ownedProperty(ctx, actor, req.PropertyID); err != nil {
		return nil, err
	}
	policy := req.DepositPolicy
	if policy == "" {
		policy = domain.DepositNone
	}
	if err := validateDeposit(policy, req.DepositValue); err != nil {
		return nil, err
	}

	room := &domain.Room{
		PropertyID:     req.PropertyID,
		RoomNumber:     req.RoomNumber,
		Floor:          req.Floor,
		RoomType:       req.RoomType,
		PriceDaily:     req.PriceDaily,
		PriceWeekly:    req.PriceWeekly,
		PriceMonthly:   req.PriceMonthly,
		PriceQuarterly: req.PriceQuarterly,
		PriceYearly:    req.PriceYearly,
		DepositPolicy:  policy,
		DepositValue:   req.DepositValue,
		IsActive:       true,
		IsAvailable:    true,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) UpdateRoom(ctx context.Context, actor Actor, roomID int64, req UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.ownedProperty(ctx, actor, room.PropertyID); err != nil {
		return nil, err
	}
	policy := req.DepositPolicy
	if policy == "" {
		policy = domain.DepositNone
	}
	if err := validateDeposit(policy, req.DepositValue); err != nil {
		return nil, err
	}

	room.RoomNumber = req.RoomNumber
	room.Floor = req.Floor
	room.RoomType = req.RoomType
	room.PriceDaily = req.PriceDaily
	room.PriceWeekly = req.PriceWeekly
	room.PriceMonthly = req.PriceMonthly
	room.PriceQuarterly = req.PriceQuarterly
	room.PriceYearly = req.PriceYearly
	room.DepositPolicy = policy
	room.DepositValue = req.DepositValue

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// SetRoomActive manually opens or closes a room, e.g. for maintenance.
// Closed rooms are refused at booking creation; the occupancy flag that
// bookings flip on check-in and check-out is separate and untouched here.
func (s *Service) SetRoomActive(ctx context.Context, actor Actor, roomID int64, active bool) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.ownedProperty(ctx, actor, room.PropertyID); err != nil {
		return nil, err
	}
	if err := s.rooms.SetActive(ctx, roomID, active); err != nil {
		return nil, err
	}
	room.IsActive = active
	return room, nil
}

func (s *Service) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, propertyID int64) ([]domain.Room, error) {
	return s.rooms.ListByProperty(ctx, propertyID)
}

func (s *Service) ownedProperty(ctx context.Context, actor Actor, propertyID int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	switch actor.Role {
	case domain.RoleSuperadmin:
		return p, nil
	case domain.RoleAdminKos:
		if p.OwnerID != actor.UserID {
			return nil, ErrForbidden
		}
		return p, nil
	default:
		return nil, ErrForbidden
	}
}

func validateDeposit(policy domain.DepositPolicy, value int64) error {
	switch policy {
	case domain.DepositNone:
		return nil
	case domain.DepositFixed:
		if value <= 0 {
			return ErrInvalidDeposit
		}
		return nil
	case domain.DepositPercentage:
		if value <= 0 || value > 100 {
			return ErrInvalidDeposit
		}
		return nil
	default:
		return ErrInvalidDeposit
	}
}
