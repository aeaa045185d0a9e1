// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
)

// UserRepository 接口定义了用户数据的持久化操作。
type UserRepository interface {
	Create(user *model.User) error
	Update(user *model.User) error
	FindByID(userID string) (*model.User, error)
	FindActiveByID(userID string) (*model.User, error)
	FindAll() ([]model.User, error)
	FindWithPagination(search model.UserSearch, offset, limit int) ([]model.User, int64, error)
}

// userRepository 是 UserRepository 接口的 GORM 实现。
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建一个新的 UserRepository 实例。
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 在数据库中创建一个新的用户记录。
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// Update 更新数据库中一个已存在的用户记录。
func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// FindByID 根据账号 ID 查找用户，不区分使用状态。
func (r *userRepository) FindByID(userID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveByID 根据账号 ID 查找有效用户（use_yn = 'Y'）。
func (r *userRepository) FindActiveByID(userID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("user_id = ? AND use_yn = ?", userID, model.UseYnActive).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll 检索全部有效用户，按账号 ID 排序。
func (r *userRepository) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Where("use_yn = ?", model.UseYnActive).Order("user_id").Find(&users).Error
	return users, err
}

// FindWithPagination 按检索条件分页查询用户。
// 空的条件字段不参与过滤；返回用户列表、总记录数和可能发生的错误。
func (r *userRepository) FindWithPagination(search model.UserSearch, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.Model(&model.User{}).Where("use_yn = ?", model.UseYnActive)
	if search.UserID != "" {
		db = db.Where("user_id LIKE ?", "%"+search.UserID+"%")
	}
	if search.UserName != "" {
		db = db.Where("user_name LIKE ?", "%"+search.UserName+"%")
	}
	if search.CorCd != "" {
		db = db.Where("cor_cd = ?", search.CorCd)
	}
	if search.DeptCd != "" {
		db = db.Where("dept_cd = ?", search.DeptCd)
	}
	if search.TeamCd != "" {
		db = db.Where("team_cd = ?", search.TeamCd)
	}

	// 首先计算总记录数
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 然后根据偏移量和限制获取当前页的数据
	err := db.Order("user_id").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
