package repository

import (
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
)

// AdminRelRepository 接口定义了用户-菜单担当关系的持久化操作。
type AdminRelRepository interface {
	FindByUserID(userID string) ([]model.AdminRel, error)
	FindMenuIDsByUserID(userID string) ([]uint, error)
	FindUserIDsByMenuID(menuID uint) ([]string, error)
	// ReplaceForUser 在事务中整体替换某用户的担当菜单集合。
	ReplaceForUser(userID string, menuIDs []uint, operator string) error
}

type adminRelRepository struct {
	db *gorm.DB
}

// NewAdminRelRepository 创建一个新的 AdminRelRepository 实例。
func NewAdminRelRepository(db *gorm.DB) AdminRelRepository {
	return &adminRelRepository{db: db}
}

func (r *adminRelRepository) FindByUserID(userID string) ([]model.AdminRel, error) {
	var rels []model.AdminRel
	err := r.db.Where("user_id = ?", userID).Order("menu_id").Find(&rels).Error
	return rels, err
}

func (r *adminRelRepository) FindMenuIDsByUserID(userID string) ([]uint, error) {
	var menuIDs []uint
	err := r.db.Model(&model.AdminRel{}).
		Where("user_id = ?", userID).Order("menu_id").
		Pluck("menu_id", &menuIDs).Error
	return menuIDs, err
}

func (r *adminRelRepository) FindUserIDsByMenuID(menuID uint) ([]string, error) {
	var userIDs []string
	err := r.db.Model(&model.AdminRel{}).
		Where("menu_id = ?", menuID).Order("user_id").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

// ReplaceForUser 先删后插：删除该用户全部担当关系，再写入新的集合。
// 两步在同一事务内，中途失败时原有关系保持不变。
func (r *adminRelRepository) ReplaceForUser(userID string, menuIDs []uint, operator string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.AdminRel{}).Error; err != nil {
			return err
		}
		for _, menuID := range menuIDs {
			rel := model.AdminRel{
				UserID:    userID,
				MenuID:    menuID,
				RoleType:  "MAIN",
				RegUserID: operator,
			}
			if err := tx.Create(&rel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
