package service

import (
	"context"
	"path/filepath"
	"time"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
	"csr-portal-go/pkg/kafka"
	"csr-portal-go/pkg/log"
	"csr-portal-go/pkg/storage"
	"csr-portal-go/pkg/tasks"
)

// ReqService 接口定义了请求单工作流的业务操作。
// 每一次变更（创建、更新、删除）都在单个事务内同时写入当前态和
// 恰好一条带变更类型标记的历史快照。
type ReqService interface {
	CreateReq(ctx context.Context, info *model.ReqInfo, files []FileUpload, operator string) error
	UpdateReq(ctx context.Context, info *model.ReqInfo, addFiles []FileUpload, removeFileIDs []uint, operator string) error
	// DeleteReq 逻辑删除请求单，历史与附件行保留以供追溯。
	DeleteReq(ctx context.Context, reqID uint, operator string) error
	// GetReq 返回请求单当前态、有效附件及按最新在前排列的全部历史。
	// 逻辑删除的请求单仍可按编号读取，UseYn 反映删除状态。
	GetReq(reqID uint) (*model.ReqInfo, error)
	ListReqs(search model.ReqSearch, pageNumber, pageSize int) (model.PagedResult[model.ReqInfo], error)
	// GetFileURL 返回附件的原始文件名与临时下载链接。
	GetFileURL(ctx context.Context, fileID uint) (string, string, error)
}

type reqService struct {
	reqRepo  repository.ReqRepository
	store    storage.ObjectStore
	producer kafka.AuditProducer
}

// NewReqService 创建一个新的 ReqService 实例。
func NewReqService(reqRepo repository.ReqRepository, store storage.ObjectStore, producer kafka.AuditProducer) ReqService {
	return &reqService{
		reqRepo:  reqRepo,
		store:    store,
		producer: producer,
	}
}

// newHistory 从请求单当前态生成一条历史快照。
func newHistory(info *model.ReqInfo, changeType, operator string) *model.ReqHist {
	return &model.ReqHist{
		ReqID:       info.ReqID,
		ReqSnapshot: info.ReqSnapshot,
		ChangeType:  changeType,
		RegUserID:   operator,
		UseYn:       model.UseYnActive,
	}
}

// produceAudit 在事务提交后尽力投递审计任务，失败只记日志。
func (s *reqService) produceAudit(hist *model.ReqHist) {
	if s.producer == nil {
		return
	}
	task := tasks.ReqAuditTask{
		HistoryID:  hist.HistoryID,
		ReqID:      hist.ReqID,
		ChangeType: hist.ChangeType,
		Title:      hist.Title,
		ProcStatus: hist.ProcStatus,
		Operator:   hist.RegUserID,
		ChangedAt:  time.Now(),
	}
	if err := s.producer.ProduceAuditTask(task); err != nil {
		log.Errorf("投递审计任务失败: reqID=%d, historyID=%d, %v", task.ReqID, task.HistoryID, err)
	}
}

// CreateReq 创建请求单：附件先进对象存储，随后在单个事务内写入
// 当前态、一条 Created 历史和附件元数据；事务失败时回收已上传的对象。
func (s *reqService) CreateReq(ctx context.Context, info *model.ReqInfo, files []FileUpload, operator string) error {
	objectNames, err := uploadFiles(ctx, s.store, "req/", files)
	if err != nil {
		return err
	}

	info.RegUserID = operator
	info.UseYn = model.UseYnActive

	var hist *model.ReqHist
	err = s.reqRepo.InTx(func(txRepo repository.ReqRepository) error {
		if err := txRepo.Create(info); err != nil {
			return err
		}
		hist = newHistory(info, model.ChangeTypeCreated, operator)
		if err := txRepo.CreateHistory(hist); err != nil {
			return err
		}
		for i, f := range files {
			fileRow := &model.ReqFile{
				ReqID:          info.ReqID,
				HistoryID:      hist.HistoryID,
				UploadFilename: f.Filename,
				RealFilename:   filepath.Base(objectNames[i]),
				FilePath:       objectNames[i],
				RegUserID:      operator,
				UseYn:          model.UseYnActive,
			}
			if err := txRepo.CreateFile(fileRow); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		removeObjects(ctx, s.store, objectNames)
		return err
	}

	s.produceAudit(hist)
	return nil
}

// UpdateReq 更新请求单：在单个事务内更新当前态、写入一条 Updated
// 历史，并处理附件的增删。新附件挂到本次产生的历史版本上。
func (s *reqService) UpdateReq(ctx context.Context, info *model.ReqInfo, addFiles []FileUpload, removeFileIDs []uint, operator string) error {
	existing, err := s.reqRepo.FindActiveByID(info.ReqID)
	if err != nil {
		return err
	}

	objectNames, err := uploadFiles(ctx, s.store, "req/", addFiles)
	if err != nil {
		return err
	}

	existing.ReqSnapshot = info.ReqSnapshot
	now := time.Now()
	existing.UpdateDate = &now
	existing.UpdateUserID = operator

	var hist *model.ReqHist
	err = s.reqRepo.InTx(func(txRepo repository.ReqRepository) error {
		if err := txRepo.Update(existing); err != nil {
			return err
		}
		hist = newHistory(existing, model.ChangeTypeUpdated, operator)
		if err := txRepo.CreateHistory(hist); err != nil {
			return err
		}
		for i, f := range addFiles {
			fileRow := &model.ReqFile{
				ReqID:          existing.ReqID,
				HistoryID:      hist.HistoryID,
				UploadFilename: f.Filename,
				RealFilename:   filepath.Base(objectNames[i]),
				FilePath:       objectNames[i],
				RegUserID:      operator,
				UseYn:          model.UseYnActive,
			}
			if err := txRepo.CreateFile(fileRow); err != nil {
				return err
			}
		}
		for _, fileID := range removeFileIDs {
			if err := txRepo.SoftDeleteFile(fileID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		removeObjects(ctx, s.store, objectNames)
		return err
	}

	s.produceAudit(hist)
	return nil
}

// DeleteReq 逻辑删除请求单，并写入一条 Deleted 历史作为终态快照。
func (s *reqService) DeleteReq(ctx context.Context, reqID uint, operator string) error {
	existing, err := s.reqRepo.FindActiveByID(reqID)
	if err != nil {
		return err
	}

	var hist *model.ReqHist
	err = s.reqRepo.InTx(func(txRepo repository.ReqRepository) error {
		if err := txRepo.SoftDelete(reqID, operator); err != nil {
			return err
		}
		hist = newHistory(existing, model.ChangeTypeDeleted, operator)
		return txRepo.CreateHistory(hist)
	})
	if err != nil {
		return err
	}

	s.produceAudit(hist)
	return nil
}

func (s *reqService) GetReq(reqID uint) (*model.ReqInfo, error) {
	info, err := s.reqRepo.FindByID(reqID)
	if err != nil {
		return nil, err
	}
	files, err := s.reqRepo.FindFilesByReqID(reqID)
	if err != nil {
		return nil, err
	}
	hists, err := s.reqRepo.FindHistoryByReqID(reqID)
	if err != nil {
		return nil, err
	}
	info.AttachFiles = files
	info.History = hists
	return info, nil
}

// ListReqs 按检索条件分页查询请求单，页码从 1 开始。
func (s *reqService) ListReqs(search model.ReqSearch, pageNumber, pageSize int) (model.PagedResult[model.ReqInfo], error) {
	pageNumber, pageSize = model.NormalizePage(pageNumber, pageSize)
	offset := (pageNumber - 1) * pageSize

	infos, total, err := s.reqRepo.FindWithPagination(search, offset, pageSize)
	if err != nil {
		return model.PagedResult[model.ReqInfo]{}, err
	}
	return model.NewPagedResult(infos, total, pageNumber, pageSize), nil
}

func (s *reqService) GetFileURL(ctx context.Context, fileID uint) (string, string, error) {
	file, err := s.reqRepo.FindFileByID(fileID)
	if err != nil {
		return "", "", err
	}
	url, err := s.store.PresignedURL(ctx, file.FilePath, fileURLExpiry)
	if err != nil {
		return "", "", err
	}
	return file.UploadFilename, url, nil
}
