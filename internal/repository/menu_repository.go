package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"csr-portal-go/internal/model"
)

// MenuRepository 接口定义了菜单数据的持久化操作。
type MenuRepository interface {
	InTx(fn func(txRepo MenuRepository) error) error
	// FindAll 检索全部菜单；activeOnly 为 true 时只返回 use_yn = 'Y' 的行。
	FindAll(activeOnly bool) ([]model.Menu, error)
	FindByID(menuID uint) (*model.Menu, error)
	FindByIDs(menuIDs []uint) ([]model.Menu, error)
	Create(menu *model.Menu) error
	Update(menu *model.Menu) error
	SoftDelete(menuID uint, operator string) error
	CountChildren(menuID uint) (int64, error)
	LockByID(menuID uint) (*model.Menu, error)
	LockPrevSibling(menu *model.Menu) (*model.Menu, error)
	LockNextSibling(menu *model.Menu) (*model.Menu, error)
	UpdateSortOrder(menuID uint, sortOrder int) error
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository 创建一个新的 MenuRepository 实例。
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) InTx(fn func(txRepo MenuRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&menuRepository{db: tx})
	})
}

func (r *menuRepository) FindAll(activeOnly bool) ([]model.Menu, error) {
	var menus []model.Menu
	db := r.db
	if activeOnly {
		db = db.Where("use_yn = ?", model.UseYnActive)
	}
	err := db.Order("sort_order, menu_id").Find(&menus).Error
	return menus, err
}

func (r *menuRepository) FindByID(menuID uint) (*model.Menu, error) {
	var menu model.Menu
	err := r.db.First(&menu, menuID).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// FindByIDs 按主键集合批量检索有效菜单，用于装配用户的担当菜单列表。
func (r *menuRepository) FindByIDs(menuIDs []uint) ([]model.Menu, error) {
	if len(menuIDs) == 0 {
		return []model.Menu{}, nil
	}
	var menus []model.Menu
	err := r.db.Where("menu_id IN ? AND use_yn = ?", menuIDs, model.UseYnActive).
		Order("sort_order, menu_id").Find(&menus).Error
	return menus, err
}

func (r *menuRepository) Create(menu *model.Menu) error {
	return r.db.Create(menu).Error
}

func (r *menuRepository) Update(menu *model.Menu) error {
	return r.db.Save(menu).Error
}

// SoftDelete 将菜单标记为不可用，并记录操作人与时间。
func (r *menuRepository) SoftDelete(menuID uint, operator string) error {
	now := time.Now()
	return r.db.Model(&model.Menu{}).Where("menu_id = ?", menuID).
		Updates(map[string]any{
			"use_yn":         model.UseYnInactive,
			"update_user_id": operator,
			"update_date":    now,
		}).Error
}

func (r *menuRepository) CountChildren(menuID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Menu{}).
		Where("parent_id = ? AND use_yn = ?", menuID, model.UseYnActive).
		Count(&count).Error
	return count, err
}

func (r *menuRepository) LockByID(menuID uint) (*model.Menu, error) {
	var menu model.Menu
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("use_yn = ?", model.UseYnActive).First(&menu, menuID).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) siblingScope(menu *model.Menu) *gorm.DB {
	db := r.db.Where("use_yn = ?", model.UseYnActive)
	if menu.ParentID == nil {
		return db.Where("parent_id IS NULL")
	}
	return db.Where("parent_id = ?", *menu.ParentID)
}

// LockPrevSibling 锁定排序值小于当前节点的最近兄弟。
func (r *menuRepository) LockPrevSibling(menu *model.Menu) (*model.Menu, error) {
	var sibling model.Menu
	err := r.siblingScope(menu).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sort_order < ?", menu.SortOrder).
		Order("sort_order DESC, menu_id DESC").
		First(&sibling).Error
	if err != nil {
		return nil, err
	}
	return &sibling, nil
}

// LockNextSibling 锁定排序值大于当前节点的最近兄弟。
func (r *menuRepository) LockNextSibling(menu *model.Menu) (*model.Menu, error) {
	var sibling model.Menu
	err := r.siblingScope(menu).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sort_order > ?", menu.SortOrder).
		Order("sort_order ASC, menu_id ASC").
		First(&sibling).Error
	if err != nil {
		return nil, err
	}
	return &sibling, nil
}

func (r *menuRepository) UpdateSortOrder(menuID uint, sortOrder int) error {
	return r.db.Model(&model.Menu{}).Where("menu_id = ?", menuID).
		Update("sort_order", sortOrder).Error
}
