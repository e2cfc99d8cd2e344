package service

import (
	"context"
	stderrors "errors"
	"slot-swapper/core/database"
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"slot-swapper/core/logger"
	"slot-swapper/core/params"
	"slot-swapper/modules/slot/dto"
	"slot-swapper/modules/slot/entity"
	"slot-swapper/modules/slot/mapper"
	"slot-swapper/modules/slot/repository"

	"github.com/google/uuid"
)

// IdentityResolver looks up display data for user ids.
type IdentityResolver interface {
	ResolveIdentities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]coreEntity.Identity, error)
}

type SlotServiceInterface interface {
	CreateSlot(ctx context.Context, identity *coreEntity.Identity, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError)
	GetSlot(ctx context.Context, identity *coreEntity.Identity, id uuid.UUID) (*dto.SlotResponse, *errors.AppError)
	ListMySlots(ctx context.Context, identity *coreEntity.Identity, params params.QueryParams) (*dto.PaginatedSlotResponse, *errors.AppError)
	UpdateSlot(ctx context.Context, identity *coreEntity.Identity, id uuid.UUID, req *dto.UpdateSlotRequest) (*dto.SlotResponse, *errors.AppError)
	UpdateSlotStatus(ctx context.Context, identity *coreEntity.Identity, id uuid.UUID, status string) (*dto.SlotResponse, *errors.AppError)
	DeleteSlot(ctx context.Context, identity *coreEntity.Identity, id uuid.UUID) *errors.AppError
	ListSwappableSlots(ctx context.Context, identity *coreEntity.Identity) ([]dto.SlotResponse, *errors.AppError)
}

type SlotService struct {
	repo       repository.SlotRepositoryInterface
	registry   Registry
	transactor database.Transactor
	users      IdentityResolver
}

func NewSlotService(repo repository.SlotRepositoryInterface, registry Registry, transactor database.Transactor, users IdentityResolver) *SlotService {
	return &SlotService{
		repo:       repo,
		registry:   registry,
		transactor: transactor,
		users:      users,
	}
}

func (s *SlotService) owners(ctx context.Context, slots ...entity.Slot) map[uuid.UUID]coreEntity.Identity {
	owners, err := s.users.ResolveIdentities(ctx, mapper.OwnerIDs(slots...))
	if err != nil {
		// owner names are decoration; the slot data is still correct without them
		logger.Warn("SlotService:owners:ResolveIdentities:Error", "error", err)
		return nil
	}
	return owners
}

func (s *SlotService) toDTO(ctx context.Context, slot *entity.Slot) *dto.SlotResponse {
	return mapper.ToSlotDTO(slot, s.owners(ctx, *slot))
}

func (s *SlotService) CreateSlot(ctx context.Context, identity *coreEntity.Identity, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	status := entity.StatusBusy
	if req.Status != "" {
		parsed, ok := entity.ParseStatus(req.Status)
		if !ok || parsed == entity.StatusSwapPending {
			return nil, errors.NewAppError(errors.ErrInvalidStatus, "status must be BUSY or SWAPPABLE", nil)
		}
		status = parsed
	}

	created, err := s.repo.Create(ctx, &entity.Slot{
		OwnerID:   identity.ID,
		Title:     req.Title,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		Status:    status,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create slot", err)
	}

	logger.Info("SlotService:CreateSlot:Success", "slot_id", created.ID, "owner_id", identity.ID)
	return s.toDTO(ctx, created), nil
}

// ownedSlot returns the slot if identity owns it. Foreign slots are reported as
// missing so their existence does not leak.
func (s *SlotService) ownedSlot(ctx context.Context, identity *coreEntity.Identity, id uuid.UUID) (*entity.Slot, *errors.AppError) {
	slot, appErr := s.registry.GetSlot(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if slot.OwnerID != identity.ID {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}
	return slot, nil
}

func (s *SlotService) GetSlot(ctx context.Context, identity *coreEntity.Identity, id uuid.UUID) (*dto.SlotResponse, *errors.AppError) {
	slot, appErr := s.ownedSlot(ctx, identity, id)
	if appErr != nil {
		return nil, appErr
	}
	return s.toDTO(ctx, slot), nil
}

func (s *SlotService) ListMySlots(ctx context.Context, identity *coreEntity.Identity, params params.QueryParams) (*dto.PaginatedSlotResponse, *errors.AppError) {
	page, err := s.repo.ListByOwner(ctx, identity.ID, params)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list slots", err)
	}

	owners := map[uuid.UUID]coreEntity.Identity{identity.ID: *identity}
	return &dto.PaginatedSlotResponse{
		Items:      mapper.ToSlotDTOs(page.Items, owners),
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}, nil
}

// UpdateSlot replaces title and times, and optionally the status under the owner rules.
// A slot locked in a pending swap cannot be edited.
func (s *SlotService) UpdateSlot(ctx context.Context, identity *coreEntity.Identity, id uuid.UUID, req *dto.UpdateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	var status *entity.SlotStatus
	if req.Status != "" {
		parsed, ok := entity.ParseStatus(req.Status)
		if !ok {
			return nil, errors.NewAppError(errors.ErrInvalidStatus, "invalid status", nil)
		}
		status = &parsed
	}

	var result *entity.Slot
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		slot, appErr := s.ownedSlot(ctx, identity, id)
		if appErr != nil {
			return appErr
		}
		if slot.Status == entity.StatusSwapPending {
			return errors.NewAppError(errors.ErrInvalidTransition, "slot is locked by a pending swap request", nil)
		}

		updated, err := s.repo.UpdateDetails(ctx, slot, req.Title, req.StartTime.UTC(), req.EndTime.UTC())
		if err != nil {
			return err
		}
		result = updated

		if status != nil {
			updated, appErr := s.registry.SetStatusAsOwner(ctx, id, identity.ID, *status)
			if appErr != nil {
				return appErr
			}
			result = updated
		}
		return nil
	})
	if err != nil {
		return nil, s.mapError("SlotService:UpdateSlot", err)
	}
	return s.toDTO(ctx, result), nil
}

// UpdateSlotStatus lets the owner toggle a slot between BUSY and SWAPPABLE.
func (s *SlotService) UpdateSlotStatus(ctx context.Context, identity *coreEntity.Identity, id uuid.UUID, status string) (*dto.SlotResponse, *errors.AppError) {
	parsed, ok := entity.ParseStatus(status)
	if !ok {
		return nil, errors.NewAppError(errors.ErrInvalidStatus, "invalid status", nil)
	}

	slot, appErr := s.registry.SetStatusAsOwner(ctx, id, identity.ID, parsed)
	if appErr != nil {
		return nil, appErr
	}

	logger.Info("SlotService:UpdateSlotStatus:Success", "slot_id", id, "status", parsed)
	return s.toDTO(ctx, slot), nil
}

func (s *SlotService) DeleteSlot(ctx context.Context, identity *coreEntity.Identity, id uuid.UUID) *errors.AppError {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		slot, appErr := s.ownedSlot(ctx, identity, id)
		if appErr != nil {
			return appErr
		}
		if slot.Status == entity.StatusSwapPending {
			return errors.NewAppError(errors.ErrInvalidTransition, "slot is locked by a pending swap request", nil)
		}
		return s.repo.Delete(ctx, slot)
	})
	if err != nil {
		return s.mapError("SlotService:DeleteSlot", err)
	}
	return nil
}

func (s *SlotService) ListSwappableSlots(ctx context.Context, identity *coreEntity.Identity) ([]dto.SlotResponse, *errors.AppError) {
	slots, err := s.registry.ListSwappable(ctx, identity.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list swappable slots", err)
	}
	return mapper.ToSlotDTOs(slots, s.owners(ctx, slots...)), nil
}

func (s *SlotService) mapError(step string, err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	if stderrors.Is(err, database.ErrConflict) {
		return errors.NewAppError(errors.ErrTransactionFailed, "slot was modified concurrently, retry", err)
	}
	logger.Error(step+":Error", "error", err)
	return errors.NewAppError(errors.ErrInternalServer, "internal server error", err)
}
