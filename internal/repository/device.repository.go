package repository

import (
	"context"
	"errors"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/pkg/pg"
	"gorm.io/gorm"
)

// ErrDeviceNotFound is returned when a device does not exist.
var ErrDeviceNotFound = errors.New("device not found")

type DeviceRepository struct {
	*pg.DB
}

func NewDeviceRepository(db *pg.DB) *DeviceRepository {
	return &DeviceRepository{
		db,
	}
}

func (r *DeviceRepository) Create(ctx context.Context, d *model.Device) (*model.Device, error) {
	entity := toDeviceEntity(d)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toDeviceModel(entity), nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, id int64) (*model.Device, error) {
	var entity DeviceEntity
	err := r.Read(ctx).WithContext(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDeviceModel(&entity), nil
}
