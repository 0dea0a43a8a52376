package repository

import "github.com/memocorner/repair-desk/internal/model"

type UserEntity struct {
	ID       int64  `db:"id"        gorm:"primaryKey;autoIncrement;column:id"`
	BranchID int64  `db:"branch_id" gorm:"column:branch_id;not null;index"`
	Username string `db:"username"  gorm:"column:username;not null;uniqueIndex"`
	Password string `db:"password"  gorm:"column:password;not null"`
	Role     string `db:"role"      gorm:"column:role;not null"`
}

func (UserEntity) TableName() string { return "users" }

func toUserEntity(u *model.User) *UserEntity {
	if u == nil {
		return nil
	}
	return &UserEntity{
		ID:       u.ID,
		BranchID: u.BranchID,
		Username: u.Username,
		Password: u.Password,
		Role:     u.Role,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:       e.ID,
		BranchID: e.BranchID,
		Username: e.Username,
		Password: e.Password,
		Role:     e.Role,
	}
}
