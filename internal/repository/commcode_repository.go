package repository

import (
	"time"

	"gorm.io/gorm"

	"csr-portal-go/internal/model"
)

// CommCodeRepository 接口定义了公共代码数据的持久化操作。
type CommCodeRepository interface {
	FindAll() ([]model.CommCode, error)
	FindByID(codeID uint) (*model.CommCode, error)
	// FindByParentID 检索某个代码组下的有效明细行，按排序值排序。
	FindByParentID(parentID uint) ([]model.CommCode, error)
	// FindGroupByName 按组名查找顶级代码组行。
	FindGroupByName(codeNm string) (*model.CommCode, error)
	Create(code *model.CommCode) error
	Update(code *model.CommCode) error
	SoftDelete(codeID uint, operator string) error
	CountChildren(codeID uint) (int64, error)
}

type commCodeRepository struct {
	db *gorm.DB
}

// NewCommCodeRepository 创建一个新的 CommCodeRepository 实例。
func NewCommCodeRepository(db *gorm.DB) CommCodeRepository {
	return &commCodeRepository{db: db}
}

func (r *commCodeRepository) FindAll() ([]model.CommCode, error) {
	var codes []model.CommCode
	err := r.db.Where("use_yn = ?", model.UseYnActive).
		Order("sort_order, code_id").Find(&codes).Error
	return codes, err
}

func (r *commCodeRepository) FindByID(codeID uint) (*model.CommCode, error) {
	var code model.CommCode
	err := r.db.Where("use_yn = ?", model.UseYnActive).First(&code, codeID).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *commCodeRepository) FindByParentID(parentID uint) ([]model.CommCode, error) {
	var codes []model.CommCode
	err := r.db.Where("parent_id = ? AND use_yn = ?", parentID, model.UseYnActive).
		Order("sort_order, code_id").Find(&codes).Error
	return codes, err
}

// FindGroupByName 查找名称匹配的顶级代码组（parent_id 为哨兵值 0 的行）。
func (r *commCodeRepository) FindGroupByName(codeNm string) (*model.CommCode, error) {
	var code model.CommCode
	err := r.db.
		Where("code_nm = ? AND parent_id = ? AND use_yn = ?",
			codeNm, model.CommCodeRootParent, model.UseYnActive).
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *commCodeRepository) Create(code *model.CommCode) error {
	return r.db.Create(code).Error
}

func (r *commCodeRepository) Update(code *model.CommCode) error {
	return r.db.Save(code).Error
}

func (r *commCodeRepository) SoftDelete(codeID uint, operator string) error {
	now := time.Now()
	return r.db.Model(&model.CommCode{}).Where("code_id = ?", codeID).
		Updates(map[string]any{
			"use_yn":         model.UseYnInactive,
			"update_user_id": operator,
			"update_date":    now,
		}).Error
}

func (r *commCodeRepository) CountChildren(codeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.CommCode{}).
		Where("parent_id = ? AND use_yn = ?", codeID, model.UseYnActive).
		Count(&count).Error
	return count, err
}
