package repository

import (
	"errors"

	"gorm.io/gorm"

	"aptigenius-backend/internal/db"
	"aptigenius-backend/internal/model"
)

type UserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id string) (*model.User, error)
	GetAllUsers() ([]model.User, error)
	DeleteUser(id string) error
	CountByRole(role model.Role) (int64, error)
}

type userRepository struct {
	db *gorm.DB
	qe *db.QueryExecutor
}

func NewUserRepository(gdb *gorm.DB) UserRepository {
	return &userRepository{db: gdb, qe: db.NewQueryExecutor(gdb)}
}

func (r *userRepository) CreateUser(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetUserByEmail(email string) (*model.User, error) {
	return r.first("email = ?", email)
}

func (r *userRepository) GetUserByID(id string) (*model.User, error) {
	return r.first("id = ?", id)
}

func (r *userRepository) first(cond string, arg interface{}) (*model.User, error) {
	var user model.User
	err := r.db.Where(cond, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetAllUsers() ([]model.User, error) {
	users := []model.User{}
	err := r.db.Order("created_at desc").Find(&users).Error
	return users, err
}

// DeleteUser removes the user only. Their results stay behind, orphaned.
func (r *userRepository) DeleteUser(id string) error {
	res := r.db.Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) CountByRole(role model.Role) (int64, error) {
	return r.qe.Count("users", map[string]interface{}{"role": role})
}
