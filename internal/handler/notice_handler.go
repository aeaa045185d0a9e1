package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/service"
	"csr-portal-go/pkg/log"
)

// NoticeHandler 负责处理公告管理的 API 请求。
type NoticeHandler struct {
	noticeService service.NoticeService
}

// NewNoticeHandler 创建一个新的 NoticeHandler 实例。
func NewNoticeHandler(noticeService service.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

// collectUploads 从 multipart 表单的 files 字段收集附件流。
// 返回的 cleanup 在 service 调用结束后关闭全部文件句柄。
func collectUploads(c *gin.Context) ([]service.FileUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}

	var uploads []service.FileUpload
	var opened []multipart.File
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			for _, o := range opened {
				o.Close()
			}
			return nil, nil, err
		}
		opened = append(opened, f)
		uploads = append(uploads, service.FileUpload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Reader:   f,
		})
	}
	cleanup := func() {
		for _, o := range opened {
			o.Close()
		}
	}
	return uploads, cleanup, nil
}

// bindDataField 解析 multipart 表单中 data 字段携带的 JSON 负载。
func bindDataField(c *gin.Context, out any) error {
	data := c.PostForm("data")
	if data == "" {
		return errors.New("data 字段不能为空")
	}
	return json.Unmarshal([]byte(data), out)
}

// NoticePayload 定义了公告创建与更新的 JSON 负载。
type NoticePayload struct {
	Title         string `json:"title"`
	ContentsHTML  string `json:"contentsHtml"`
	ContentsText  string `json:"contentsText"`
	NoticeType    string `json:"noticeType"`
	CorCd         string `json:"corCd"`
	RemoveFileIDs []uint `json:"removeFileIds"`
}

// ListNotices 分页查询公告，支持标题关键字、类型与法人过滤。
func (h *NoticeHandler) ListNotices(c *gin.Context) {
	pageNumber, pageSize := pageParams(c)

	result, err := h.noticeService.ListNotices(
		c.Query("keyword"), c.Query("noticeType"), c.Query("corCd"),
		pageNumber, pageSize,
	)
	if err != nil {
		log.Errorf("ListNotices: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询公告列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    result,
	})
}

// SearchNotices 对公告做全文检索（标题与正文）。
func (h *NoticeHandler) SearchNotices(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "检索词不能为空"})
		return
	}

	docs, err := h.noticeService.SearchNotices(c.Request.Context(), keyword)
	if err != nil {
		log.Errorf("SearchNotices: failed, keyword: %s, error: %v", keyword, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "公告检索失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    docs,
	})
}

// GetNotice 返回公告详情及其附件。
func (h *NoticeHandler) GetNotice(c *gin.Context) {
	noticeID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	notice, err := h.noticeService.GetNotice(noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "公告不存在"})
			return
		}
		log.Errorf("GetNotice: failed, noticeId: %d, error: %v", noticeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询公告失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    notice,
	})
}

// CreateNotice 创建公告，multipart 表单：data 为 JSON 负载，files 为附件。
func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	var payload NoticePayload
	if err := bindDataField(c, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	if payload.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title 不能为空"})
		return
	}

	uploads, cleanup, err := collectUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的附件"})
		return
	}
	defer cleanup()

	notice := &model.Notice{
		Title:        payload.Title,
		ContentsHTML: payload.ContentsHTML,
		ContentsText: payload.ContentsText,
		NoticeType:   payload.NoticeType,
		CorCd:        payload.CorCd,
	}

	if err := h.noticeService.CreateNotice(c.Request.Context(), notice, uploads, operatorID(c)); err != nil {
		log.Errorf("CreateNotice: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建公告失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Notice created successfully",
		"data":    notice,
	})
}

// UpdateNotice 更新公告正文及附件增删。
func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	noticeID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var payload NoticePayload
	if err := bindDataField(c, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}

	uploads, cleanup, err := collectUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的附件"})
		return
	}
	defer cleanup()

	notice := &model.Notice{
		ID:           noticeID,
		Title:        payload.Title,
		ContentsHTML: payload.ContentsHTML,
		ContentsText: payload.ContentsText,
		NoticeType:   payload.NoticeType,
		CorCd:        payload.CorCd,
	}

	if err := h.noticeService.UpdateNotice(c.Request.Context(), notice, uploads, payload.RemoveFileIDs, operatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "公告不存在"})
			return
		}
		log.Errorf("UpdateNotice: failed, noticeId: %d, error: %v", noticeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新公告失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Notice updated successfully",
	})
}

// DeleteNotice 逻辑删除公告。
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	noticeID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.noticeService.DeleteNotice(c.Request.Context(), noticeID, operatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "公告不存在"})
			return
		}
		log.Errorf("DeleteNotice: failed, noticeId: %d, error: %v", noticeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除公告失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Notice deleted successfully",
	})
}

// DownloadFile 返回公告附件的原始文件名与临时下载链接。
func (h *NoticeHandler) DownloadFile(c *gin.Context) {
	fileID, ok := uintParam(c, "fileId")
	if !ok {
		return
	}

	filename, url, err := h.noticeService.GetFileURL(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "附件不存在"})
			return
		}
		log.Errorf("DownloadNoticeFile: failed, fileId: %d, error: %v", fileID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取附件下载链接失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"filename": filename,
			"url":      url,
		},
	})
}
