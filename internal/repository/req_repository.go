package repository

import (
	"time"

	"gorm.io/gorm"

	"csr-portal-go/internal/model"
)

// ReqRepository 接口定义了请求单、历史与附件数据的持久化操作。
// 所有跨表写入（当前态 + 历史 + 附件）都应在 InTx 的事务内完成。
type ReqRepository interface {
	InTx(fn func(txRepo ReqRepository) error) error
	Create(info *model.ReqInfo) error
	Update(info *model.ReqInfo) error
	SoftDelete(reqID uint, operator string) error
	// FindByID 按主键返回请求单当前态，不过滤使用状态（逻辑删除的单仍可按编号查到）。
	FindByID(reqID uint) (*model.ReqInfo, error)
	// FindActiveByID 只返回有效请求单，变更操作前的存在性检查用它。
	FindActiveByID(reqID uint) (*model.ReqInfo, error)
	FindWithPagination(search model.ReqSearch, offset, limit int) ([]model.ReqInfo, int64, error)
	CreateHistory(hist *model.ReqHist) error
	// FindHistoryByReqID 按历史主键降序返回全部变更历史（最新在前）。
	FindHistoryByReqID(reqID uint) ([]model.ReqHist, error)
	CreateFile(file *model.ReqFile) error
	FindFileByID(fileID uint) (*model.ReqFile, error)
	FindFilesByReqID(reqID uint) ([]model.ReqFile, error)
	SoftDeleteFile(fileID uint) error
}

type reqRepository struct {
	db *gorm.DB
}

// NewReqRepository 创建一个新的 ReqRepository 实例。
func NewReqRepository(db *gorm.DB) ReqRepository {
	return &reqRepository{db: db}
}

// InTx 在单个数据库事务中执行 fn，fn 收到的是绑定事务连接的仓库。
func (r *reqRepository) InTx(fn func(txRepo ReqRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&reqRepository{db: tx})
	})
}

func (r *reqRepository) Create(info *model.ReqInfo) error {
	return r.db.Create(info).Error
}

func (r *reqRepository) Update(info *model.ReqInfo) error {
	return r.db.Save(info).Error
}

// SoftDelete 将请求单标记为不可用，历史与附件行保持原状。
func (r *reqRepository) SoftDelete(reqID uint, operator string) error {
	now := time.Now()
	return r.db.Model(&model.ReqInfo{}).Where("req_id = ?", reqID).
		Updates(map[string]any{
			"use_yn":         model.UseYnInactive,
			"update_user_id": operator,
			"update_date":    now,
		}).Error
}

func (r *reqRepository) FindByID(reqID uint) (*model.ReqInfo, error) {
	var info model.ReqInfo
	err := r.db.First(&info, reqID).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *reqRepository) FindActiveByID(reqID uint) (*model.ReqInfo, error) {
	var info model.ReqInfo
	err := r.db.Where("use_yn = ?", model.UseYnActive).First(&info, reqID).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// FindWithPagination 按检索条件分页查询有效请求单，按登记时间倒序。
func (r *reqRepository) FindWithPagination(search model.ReqSearch, offset, limit int) ([]model.ReqInfo, int64, error) {
	var infos []model.ReqInfo
	var total int64

	db := r.db.Model(&model.ReqInfo{}).Where("use_yn = ?", model.UseYnActive)
	if search.Keyword != "" {
		db = db.Where("title LIKE ?", "%"+search.Keyword+"%")
	}
	if search.ProcStatus != "" {
		db = db.Where("proc_status = ?", search.ProcStatus)
	}
	if search.ReqType != "" {
		db = db.Where("req_type = ?", search.ReqType)
	}
	if search.SystemCd != "" {
		db = db.Where("system_cd = ?", search.SystemCd)
	}
	if search.ReqUserID != "" {
		db = db.Where("req_user_id = ?", search.ReqUserID)
	}
	if search.ResUserID != "" {
		db = db.Where("res_user_id = ?", search.ResUserID)
	}
	if search.CorCd != "" {
		db = db.Where("cor_cd = ?", search.CorCd)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("reg_date DESC, req_id DESC").Offset(offset).Limit(limit).Find(&infos).Error
	if err != nil {
		return nil, 0, err
	}

	return infos, total, nil
}

// CreateHistory 插入一条变更历史，历史行只增不改。
func (r *reqRepository) CreateHistory(hist *model.ReqHist) error {
	return r.db.Create(hist).Error
}

func (r *reqRepository) FindHistoryByReqID(reqID uint) ([]model.ReqHist, error) {
	var hists []model.ReqHist
	err := r.db.Where("req_id = ?", reqID).
		Order("history_id DESC").Find(&hists).Error
	return hists, err
}

func (r *reqRepository) CreateFile(file *model.ReqFile) error {
	return r.db.Create(file).Error
}

func (r *reqRepository) FindFileByID(fileID uint) (*model.ReqFile, error) {
	var file model.ReqFile
	err := r.db.Where("use_yn = ?", model.UseYnActive).First(&file, fileID).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *reqRepository) FindFilesByReqID(reqID uint) ([]model.ReqFile, error) {
	var files []model.ReqFile
	err := r.db.Where("req_id = ? AND use_yn = ?", reqID, model.UseYnActive).
		Order("file_id").Find(&files).Error
	return files, err
}

// SoftDeleteFile 将附件标记为不可用，对象存储中的物理文件保留。
func (r *reqRepository) SoftDeleteFile(fileID uint) error {
	return r.db.Model(&model.ReqFile{}).Where("file_id = ?", fileID).
		Update("use_yn", model.UseYnInactive).Error
}
