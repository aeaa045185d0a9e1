package service

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
	"csr-portal-go/pkg/es"
	"csr-portal-go/pkg/log"
	"csr-portal-go/pkg/storage"
)

// FileUpload 表示一个待上传的附件：原始文件名与内容流。
type FileUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// fileURLExpiry 是附件下载链接的有效期。
const fileURLExpiry = 15 * time.Minute

// NoticeService 接口定义了公告管理的业务操作。
type NoticeService interface {
	CreateNotice(ctx context.Context, notice *model.Notice, files []FileUpload, operator string) error
	UpdateNotice(ctx context.Context, notice *model.Notice, addFiles []FileUpload, removeFileIDs []uint, operator string) error
	DeleteNotice(ctx context.Context, noticeID uint, operator string) error
	// GetNotice 返回公告详情及其有效附件。
	GetNotice(noticeID uint) (*model.Notice, error)
	ListNotices(keyword, noticeType, corCd string, pageNumber, pageSize int) (model.PagedResult[model.Notice], error)
	// SearchNotices 走全文检索，按标题与正文匹配。
	SearchNotices(ctx context.Context, keyword string) ([]model.NoticeDoc, error)
	// GetFileURL 返回附件的临时下载链接。
	GetFileURL(ctx context.Context, fileID uint) (string, string, error)
}

type noticeService struct {
	noticeRepo repository.NoticeRepository
	store      storage.ObjectStore
	indexer    es.Indexer
}

// NewNoticeService 创建一个新的 NoticeService 实例。
func NewNoticeService(noticeRepo repository.NoticeRepository, store storage.ObjectStore, indexer es.Indexer) NoticeService {
	return &noticeService{
		noticeRepo: noticeRepo,
		store:      store,
		indexer:    indexer,
	}
}

// uploadFiles 先把全部附件写入对象存储，返回生成的对象名。
// 任何一个失败时，清理已上传的对象并返回错误。
func uploadFiles(ctx context.Context, store storage.ObjectStore, prefix string, files []FileUpload) ([]string, error) {
	objectNames := make([]string, 0, len(files))
	for _, f := range files {
		objectName := prefix + uuid.NewString() + filepath.Ext(f.Filename)
		if err := store.Put(ctx, objectName, f.Reader, f.Size); err != nil {
			removeObjects(ctx, store, objectNames)
			return nil, err
		}
		objectNames = append(objectNames, objectName)
	}
	return objectNames, nil
}

// removeObjects 尽力删除一组对象，失败只记日志。
func removeObjects(ctx context.Context, store storage.ObjectStore, objectNames []string) {
	for _, name := range objectNames {
		if err := store.Remove(ctx, name); err != nil {
			log.Errorf("清理对象存储文件失败: %s, %v", name, err)
		}
	}
}

// CreateNotice 创建公告：附件先进对象存储，数据库写入在单个事务内完成；
// 事务失败时回收已上传的对象。成功后尽力写入检索索引。
func (s *noticeService) CreateNotice(ctx context.Context, notice *model.Notice, files []FileUpload, operator string) error {
	objectNames, err := uploadFiles(ctx, s.store, "notice/", files)
	if err != nil {
		return err
	}

	notice.RegUserID = operator
	notice.UseYn = model.UseYnActive

	err = s.noticeRepo.InTx(func(txRepo repository.NoticeRepository) error {
		if err := txRepo.Create(notice); err != nil {
			return err
		}
		for i, f := range files {
			fileRow := &model.NoticeFile{
				NoticeID:       notice.ID,
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

	s.indexNotice(ctx, notice)
	return nil
}

// indexNotice 尽力写入检索索引，失败只记日志不回滚业务。
func (s *noticeService) indexNotice(ctx context.Context, notice *model.Notice) {
	doc := model.NoticeDoc{
		NoticeID:     notice.ID,
		Title:        notice.Title,
		ContentsText: notice.ContentsText,
		NoticeType:   notice.NoticeType,
		CorCd:        notice.CorCd,
		RegUserID:    notice.RegUserID,
		RegDate:      notice.RegDate,
	}
	if err := s.indexer.IndexNotice(ctx, doc); err != nil {
		log.Errorf("公告写入检索索引失败: noticeID=%d, %v", notice.ID, err)
	}
}

// UpdateNotice 更新公告正文，并在同一事务内处理附件的增删。
func (s *noticeService) UpdateNotice(ctx context.Context, notice *model.Notice, addFiles []FileUpload, removeFileIDs []uint, operator string) error {
	existing, err := s.noticeRepo.FindByID(notice.ID)
	if err != nil {
		return err
	}

	objectNames, err := uploadFiles(ctx, s.store, "notice/", addFiles)
	if err != nil {
		return err
	}

	existing.Title = notice.Title
	existing.ContentsHTML = notice.ContentsHTML
	existing.ContentsText = notice.ContentsText
	existing.NoticeType = notice.NoticeType
	existing.CorCd = notice.CorCd

	now := time.Now()
	existing.UpdateDate = &now
	existing.UpdateUserID = operator

	err = s.noticeRepo.InTx(func(txRepo repository.NoticeRepository) error {
		if err := txRepo.Update(existing); err != nil {
			return err
		}
		for i, f := range addFiles {
			fileRow := &model.NoticeFile{
				NoticeID:       existing.ID,
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

	s.indexNotice(ctx, existing)
	return nil
}

// DeleteNotice 逻辑删除公告，并从检索索引中移除。
func (s *noticeService) DeleteNotice(ctx context.Context, noticeID uint, operator string) error {
	if _, err := s.noticeRepo.FindByID(noticeID); err != nil {
		return err
	}
	if err := s.noticeRepo.SoftDelete(noticeID, operator); err != nil {
		return err
	}
	if err := s.indexer.DeleteNotice(ctx, noticeID); err != nil {
		log.Errorf("从检索索引移除公告失败: noticeID=%d, %v", noticeID, err)
	}
	return nil
}

func (s *noticeService) GetNotice(noticeID uint) (*model.Notice, error) {
	notice, err := s.noticeRepo.FindByID(noticeID)
	if err != nil {
		return nil, err
	}
	files, err := s.noticeRepo.FindFilesByNoticeID(noticeID)
	if err != nil {
		return nil, err
	}
	notice.AttachFiles = files
	return notice, nil
}

func (s *noticeService) ListNotices(keyword, noticeType, corCd string, pageNumber, pageSize int) (model.PagedResult[model.Notice], error) {
	pageNumber, pageSize = model.NormalizePage(pageNumber, pageSize)
	offset := (pageNumber - 1) * pageSize

	notices, total, err := s.noticeRepo.FindWithPagination(keyword, noticeType, corCd, offset, pageSize)
	if err != nil {
		return model.PagedResult[model.Notice]{}, err
	}
	return model.NewPagedResult(notices, total, pageNumber, pageSize), nil
}

func (s *noticeService) SearchNotices(ctx context.Context, keyword string) ([]model.NoticeDoc, error) {
	return s.indexer.SearchNotices(ctx, keyword, 50)
}

// GetFileURL 返回附件的原始文件名与临时下载链接。
func (s *noticeService) GetFileURL(ctx context.Context, fileID uint) (string, string, error) {
	file, err := s.noticeRepo.FindFileByID(fileID)
	if err != nil {
		return "", "", err
	}
	url, err := s.store.PresignedURL(ctx, file.FilePath, fileURLExpiry)
	if err != nil {
		return "", "", err
	}
	return file.UploadFilename, url, nil
}
