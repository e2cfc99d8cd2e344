package repository

import (
	"context"
	"database/sql"
	"errors"
	"slot-swapper/core/database"
	"slot-swapper/core/logger"
	"slot-swapper/core/params"
	"slot-swapper/modules/slot/entity"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SlotRepositoryInterface stores slots. Every write is a compare-and-set on the
// slot's version and returns database.ErrConflict when the row moved underneath it.
type SlotRepositoryInterface interface {
	Create(ctx context.Context, slot *entity.Slot) (*entity.Slot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Slot, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params params.QueryParams) (*entity.PaginatedSlotEntity, error)
	ListSwappable(ctx context.Context, excludingOwner uuid.UUID) ([]entity.Slot, error)
	UpdateDetails(ctx context.Context, snapshot *entity.Slot, title string, start, end time.Time) (*entity.Slot, error)
	CompareAndSetStatus(ctx context.Context, snapshot *entity.Slot, status entity.SlotStatus) (*entity.Slot, error)
	CompareAndSetOwner(ctx context.Context, snapshot *entity.Slot, owner uuid.UUID, status entity.SlotStatus) (*entity.Slot, error)
	Delete(ctx context.Context, snapshot *entity.Slot) error
}

type SlotRepository struct {
	DB database.IDatabase
}

func NewSlotRepository(db database.IDatabase) *SlotRepository {
	return &SlotRepository{DB: db}
}

const slotColumns = `id, owner_id, title, start_time, end_time, status, version, created_at, updated_at`

func (r *SlotRepository) Create(ctx context.Context, slot *entity.Slot) (*entity.Slot, error) {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	query := `
		INSERT INTO slots (id, owner_id, title, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + slotColumns

	var created entity.Slot
	err := r.DB.GetContext(ctx, &created, query,
		slot.ID, slot.OwnerID, slot.Title, slot.StartTime, slot.EndTime, slot.Status)
	if err != nil {
		logger.Error("SlotRepository:Create:Error", "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	var slot entity.Slot
	err := r.DB.GetContext(ctx, &slot, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("SlotRepository:GetByID:Error", "error", err)
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Slot, error) {
	if len(ids) == 0 {
		return []entity.Slot{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+slotColumns+` FROM slots WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.SQLx().Rebind(query)

	var slots []entity.Slot
	if err := r.DB.SelectContext(ctx, &slots, query, args...); err != nil {
		logger.Error("SlotRepository:GetByIDs:Error", "error", err)
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params params.QueryParams) (*entity.PaginatedSlotEntity, error) {
	baseQuery := `FROM slots WHERE owner_id = $1`
	args := []any{ownerID}
	if params.Search != "" {
		baseQuery += ` AND title ILIKE $2`
		args = append(args, "%"+params.Search+"%")
	}

	var totalItems int
	if err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		logger.Error("SlotRepository:ListByOwner:Count:Error", "error", err)
		return nil, err
	}

	n := len(args)
	query := `SELECT ` + slotColumns + ` ` + baseQuery +
		` ORDER BY start_time ASC, id ASC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, params.PageSize, params.Offset())

	slots := []entity.Slot{}
	if err := r.DB.SelectContext(ctx, &slots, query, args...); err != nil {
		logger.Error("SlotRepository:ListByOwner:Select:Error", "error", err)
		return nil, err
	}

	return &entity.PaginatedSlotEntity{
		Items:      slots,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *SlotRepository) ListSwappable(ctx context.Context, excludingOwner uuid.UUID) ([]entity.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE status = $1 AND owner_id <> $2
		ORDER BY start_time ASC, id ASC`

	slots := []entity.Slot{}
	if err := r.DB.SelectContext(ctx, &slots, query, entity.StatusSwappable, excludingOwner); err != nil {
		logger.Error("SlotRepository:ListSwappable:Error", "error", err)
		return nil, err
	}
	return slots, nil
}

// casUpdate runs an UPDATE ... RETURNING guarded by id and version. No row means the
// snapshot is stale.
func (r *SlotRepository) casUpdate(ctx context.Context, query string, args ...any) (*entity.Slot, error) {
	var slot entity.Slot
	err := r.DB.GetContext(ctx, &slot, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrConflict
		}
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) UpdateDetails(ctx context.Context, snapshot *entity.Slot, title string, start, end time.Time) (*entity.Slot, error) {
	query := `
		UPDATE slots
		SET title = $3, start_time = $4, end_time = $5, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + slotColumns
	return r.casUpdate(ctx, query, snapshot.ID, snapshot.Version, title, start, end)
}

func (r *SlotRepository) CompareAndSetStatus(ctx context.Context, snapshot *entity.Slot, status entity.SlotStatus) (*entity.Slot, error) {
	query := `
		UPDATE slots
		SET status = $4, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND status = $3
		RETURNING ` + slotColumns
	return r.casUpdate(ctx, query, snapshot.ID, snapshot.Version, snapshot.Status, status)
}

func (r *SlotRepository) CompareAndSetOwner(ctx context.Context, snapshot *entity.Slot, owner uuid.UUID, status entity.SlotStatus) (*entity.Slot, error) {
	query := `
		UPDATE slots
		SET owner_id = $4, status = $5, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND owner_id = $3
		RETURNING ` + slotColumns
	return r.casUpdate(ctx, query, snapshot.ID, snapshot.Version, snapshot.OwnerID, owner, status)
}

func (r *SlotRepository) Delete(ctx context.Context, snapshot *entity.Slot) error {
	res, err := r.DB.NamedExecContext(ctx,
		`DELETE FROM slots WHERE id = :id AND version = :version`,
		map[string]any{"id": snapshot.ID, "version": snapshot.Version})
	if err != nil {
		logger.Error("SlotRepository:Delete:Error", "error", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return database.ErrConflict
	}
	return nil
}
