package repository

import "github.com/memocorner/repair-desk/internal/model"

type BranchEntity struct {
	ID   int64  `db:"id"   gorm:"primaryKey;autoIncrement;column:id"`
	Name string `db:"name" gorm:"column:name;not null"`
	Code string `db:"code" gorm:"column:code;not null;uniqueIndex"`
}

func (BranchEntity) TableName() string { return "branches" }

func toBranchEntity(b *model.Branch) *BranchEntity {
	if b == nil {
		return nil
	}
	return &BranchEntity{ID: b.ID, Name: b.Name, Code: b.Code}
}

func toBranchModel(e *BranchEntity) *model.Branch {
	if e == nil {
		return nil
	}
	return &model.Branch{ID: e.ID, Name: e.Name, Code: e.Code}
}

func toBranchModels(entities []*BranchEntity) []*model.Branch {
	if entities == nil {
		return nil
	}
	models := make([]*model.Branch, len(entities))
	for i, e := range entities {
		models[i] = toBranchModel(e)
	}
	return models
}
