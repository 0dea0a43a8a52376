package repository

import (
	"context"
	"errors"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/pkg/pg"
	"gorm.io/gorm"
)

// ErrBranchNotFound is returned when a branch does not exist.
var ErrBranchNotFound = errors.New("branch not found")

type BranchRepository struct {
	*pg.DB
}

func NewBranchRepository(db *pg.DB) *BranchRepository {
	return &BranchRepository{
		db,
	}
}

func (r *BranchRepository) Create(ctx context.Context, b *model.Branch) (*model.Branch, error) {
	entity := toBranchEntity(b)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toBranchModel(entity), nil
}

func (r *BranchRepository) GetByID(ctx context.Context, id int64) (*model.Branch, error) {
	var entity BranchEntity
	err := r.Read(ctx).WithContext(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, err
	}
	return toBranchModel(&entity), nil
}

func (r *BranchRepository) List(ctx context.Context) ([]*model.Branch, error) {
	var entities []*BranchEntity
	if err := r.Read(ctx).WithContext(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toBranchModels(entities), nil
}
