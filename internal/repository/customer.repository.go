package repository

import (
	"context"
	"errors"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/pkg/pg"
	"gorm.io/gorm"
)

// ErrCustomerNotFound is returned when a customer does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).First(&entity, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// UpsertByPhone reuses the row matching the normalized phone, refreshing the
// name when it changed, and creates one otherwise. Phone must already be
// normalized by the caller.
func (r *CustomerRepository) UpsertByPhone(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Write(ctx).WithContext(ctx).First(&entity, "phone = ?", c.Phone).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entity = *toCustomerEntity(c)
		entity.ID = 0
		if err := r.Write(ctx).WithContext(ctx).Create(&entity).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if c.Name != "" && c.Name != entity.Name {
			entity.Name = c.Name
			if err := r.Write(ctx).WithContext(ctx).
				Model(&CustomerEntity{}).
				Where("id = ?", entity.ID).
				Update("name", entity.Name).Error; err != nil {
				return nil, err
			}
		}
	}
	return toCustomerModel(&entity), nil
}
