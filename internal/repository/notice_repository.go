package repository

import (
	"time"

	"gorm.io/gorm"

	"csr-portal-go/internal/model"
)

// NoticeRepository 接口定义了公告与附件数据的持久化操作。
type NoticeRepository interface {
	InTx(fn func(txRepo NoticeRepository) error) error
	Create(notice *model.Notice) error
	Update(notice *model.Notice) error
	SoftDelete(noticeID uint, operator string) error
	// FindByID 返回一条有效公告，不含附件。
	FindByID(noticeID uint) (*model.Notice, error)
	FindWithPagination(keyword, noticeType, corCd string, offset, limit int) ([]model.Notice, int64, error)
	CreateFile(file *model.NoticeFile) error
	FindFileByID(fileID uint) (*model.NoticeFile, error)
	FindFilesByNoticeID(noticeID uint) ([]model.NoticeFile, error)
	SoftDeleteFile(fileID uint) error
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository 创建一个新的 NoticeRepository 实例。
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

// InTx 在单个数据库事务中执行 fn，公告与附件的写入保持原子性。
func (r *noticeRepository) InTx(fn func(txRepo NoticeRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&noticeRepository{db: tx})
	})
}

func (r *noticeRepository) Create(notice *model.Notice) error {
	return r.db.Create(notice).Error
}

func (r *noticeRepository) Update(notice *model.Notice) error {
	return r.db.Save(notice).Error
}

// SoftDelete 将公告标记为不可用，附件行保持原状。
func (r *noticeRepository) SoftDelete(noticeID uint, operator string) error {
	now := time.Now()
	return r.db.Model(&model.Notice{}).Where("id = ?", noticeID).
		Updates(map[string]any{
			"use_yn":         model.UseYnInactive,
			"update_user_id": operator,
			"update_date":    now,
		}).Error
}

func (r *noticeRepository) FindByID(noticeID uint) (*model.Notice, error) {
	var notice model.Notice
	err := r.db.Where("use_yn = ?", model.UseYnActive).First(&notice, noticeID).Error
	if err != nil {
		return nil, err
	}
	return &notice, nil
}

// FindWithPagination 按标题关键字、公告类型与法人过滤，按登记时间倒序分页。
func (r *noticeRepository) FindWithPagination(keyword, noticeType, corCd string, offset, limit int) ([]model.Notice, int64, error) {
	var notices []model.Notice
	var total int64

	db := r.db.Model(&model.Notice{}).Where("use_yn = ?", model.UseYnActive)
	if keyword != "" {
		db = db.Where("title LIKE ?", "%"+keyword+"%")
	}
	if noticeType != "" {
		db = db.Where("notice_type = ?", noticeType)
	}
	if corCd != "" {
		db = db.Where("cor_cd = ?", corCd)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("reg_date DESC, id DESC").Offset(offset).Limit(limit).Find(&notices).Error
	if err != nil {
		return nil, 0, err
	}

	return notices, total, nil
}

func (r *noticeRepository) CreateFile(file *model.NoticeFile) error {
	return r.db.Create(file).Error
}

func (r *noticeRepository) FindFileByID(fileID uint) (*model.NoticeFile, error) {
	var file model.NoticeFile
	err := r.db.Where("use_yn = ?", model.UseYnActive).First(&file, fileID).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *noticeRepository) FindFilesByNoticeID(noticeID uint) ([]model.NoticeFile, error) {
	var files []model.NoticeFile
	err := r.db.Where("notice_id = ? AND use_yn = ?", noticeID, model.UseYnActive).
		Order("file_id").Find(&files).Error
	return files, err
}

// SoftDeleteFile 将附件标记为不可用，对象存储中的物理文件保留。
func (r *noticeRepository) SoftDeleteFile(fileID uint) error {
	return r.db.Model(&model.NoticeFile{}).Where("file_id = ?", fileID).
		Update("use_yn", model.UseYnInactive).Error
}
