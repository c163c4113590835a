package driverrepo

import (
	"context"
	"errors"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/ports"
	"orderapi/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.DriverRepository = (*GormDriverRepository)(nil)

// GormDriverRepository implements DriverRepository using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// Add saves a new driver. The driver id is the primary key, so a second
// insert for the same driver fails with errs.ErrObjectAlreadyExists.
func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("driver", aggregate.ID(), err)
		}
		return err
	}

	return nil
}

func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("driver_id = ?", dto.DriverID).
		Select("*").
		Omit("driver_id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundErrorWithCause("driver", aggregate.ID(), gorm.ErrRecordNotFound)
	}

	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, driverID string) (*driver.Driver, error) {
	return r.get(ctx, r.db, driverID)
}

func (r *GormDriverRepository) GetForUpdate(ctx context.Context, driverID string) (*driver.Driver, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), driverID)
}

// ListAvailable returns available drivers, most recent location report first.
func (r *GormDriverRepository) ListAvailable(ctx context.Context) ([]*driver.Driver, error) {
	var dtos []DriverDTO
	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("last_location_update DESC NULLS LAST").
		Order("driver_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}

	return drivers, nil
}

func (r *GormDriverRepository) get(ctx context.Context, db *gorm.DB, driverID string) (*driver.Driver, error) {
	if driverID == "" {
		return nil, driver.ErrDriverIDIsRequired
	}

	var dto DriverDTO
	if err := db.WithContext(ctx).First(&dto, "driver_id = ?", driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", driverID)
		}
		return nil, err
	}

	return toDomain(dto)
}
