package repository

import (
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
)

// CorpRepository 接口定义了法人主数据的持久化操作。
type CorpRepository interface {
	// FindAll 检索法人列表；keyword 非空时按代码或名称模糊匹配。
	FindAll(keyword string) ([]model.Corp, error)
	FindByCd(corCd string) (*model.Corp, error)
	Create(corp *model.Corp) error
	Update(corp *model.Corp) error
}

type corpRepository struct {
	db *gorm.DB
}

// NewCorpRepository 创建一个新的 CorpRepository 实例。
func NewCorpRepository(db *gorm.DB) CorpRepository {
	return &corpRepository{db: db}
}

// FindAll 检索法人，按法人代码排序。
func (r *corpRepository) FindAll(keyword string) ([]model.Corp, error) {
	var corps []model.Corp
	db := r.db.Order("cor_cd")
	if keyword != "" {
		pattern := "%" + keyword + "%"
		db = db.Where("cor_cd LIKE ? OR cor_nm LIKE ?", pattern, pattern)
	}
	err := db.Find(&corps).Error
	return corps, err
}

// FindByCd 根据法人代码查找一条法人记录。
func (r *corpRepository) FindByCd(corCd string) (*model.Corp, error) {
	var corp model.Corp
	err := r.db.Where("cor_cd = ?", corCd).First(&corp).Error
	if err != nil {
		return nil, err
	}
	return &corp, nil
}

func (r *corpRepository) Create(corp *model.Corp) error {
	return r.db.Create(corp).Error
}

func (r *corpRepository) Update(corp *model.Corp) error {
	return r.db.Save(corp).Error
}
