package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/service"
	"csr-portal-go/pkg/log"
)

// ReqHandler 负责处理请求单工作流的 API 请求。
type ReqHandler struct {
	reqService service.ReqService
}

// NewReqHandler 创建一个新的 ReqHandler 实例。
func NewReqHandler(reqService service.ReqService) *ReqHandler {
	return &ReqHandler{reqService: reqService}
}

// ReqPayload 定义了请求单创建与更新的 JSON 负载。
// 日期字段使用 "YYYY-MM-DD" 格式。
type ReqPayload struct {
	ParentID *uint  `json:"parentId"`
	Title    string `json:"title"`

	ContentsHTML string `json:"contentsHtml"`
	ContentsText string `json:"contentsText"`

	ReqDate    model.DateOnly  `json:"reqDate"`
	DueDate    *model.DateOnly `json:"dueDate"`
	ExpectDate *model.DateOnly `json:"expectDate"`
	StartDate  *model.DateOnly `json:"startDate"`
	EndDate    *model.DateOnly `json:"endDate"`

	ReqType    string `json:"reqType"`
	SystemCd   string `json:"systemCd"`
	ReqMenu    string `json:"reqMenu"`
	ReqMenuEtc string `json:"reqMenuEtc"`
	BxtID      string `json:"bxtId"`

	ReqUserID string `json:"reqUserId"`
	ResUserID string `json:"resUserId"`

	ImptCd     string `json:"imptCd"`
	DfcltCd    string `json:"dfcltCd"`
	PriorityCd string `json:"priorityCd"`

	ManDay     *float64 `json:"manDay"`
	ProcStatus string   `json:"procStatus"`
	ProcRate   *int     `json:"procRate"`

	AnswerHTML string `json:"answerHtml"`
	AnswerText string `json:"answerText"`

	DelayReasonHTML string `json:"delayReasonHtml"`
	DelayReasonText string `json:"delayReasonText"`

	CorCd    string `json:"corCd"`
	DeptCd   string `json:"deptCd"`
	OfficeCd string `json:"officeCd"`
	TeamCd   string `json:"teamCd"`

	NoteHTML string `json:"noteHtml"`
	NoteText string `json:"noteText"`

	RemoveFileIDs []uint `json:"removeFileIds"`
}

// validate 检查必填字段。
func (p *ReqPayload) validate() error {
	switch {
	case p.Title == "":
		return errors.New("title 不能为空")
	case time.Time(p.ReqDate).IsZero():
		return errors.New("reqDate 不能为空")
	case p.ReqType == "":
		return errors.New("reqType 不能为空")
	case p.SystemCd == "":
		return errors.New("systemCd 不能为空")
	case p.PriorityCd == "":
		return errors.New("priorityCd 不能为空")
	}
	return nil
}

// toSnapshot 把负载转换为业务快照。
func (p *ReqPayload) toSnapshot() model.ReqSnapshot {
	optDate := func(d *model.DateOnly) *time.Time {
		if d == nil {
			return nil
		}
		t := time.Time(*d)
		if t.IsZero() {
			return nil
		}
		return &t
	}
	return model.ReqSnapshot{
		ParentID:        p.ParentID,
		Title:           p.Title,
		ContentsHTML:    p.ContentsHTML,
		ContentsText:    p.ContentsText,
		ReqDate:         time.Time(p.ReqDate),
		DueDate:         optDate(p.DueDate),
		ExpectDate:      optDate(p.ExpectDate),
		StartDate:       optDate(p.StartDate),
		EndDate:         optDate(p.EndDate),
		ReqType:         p.ReqType,
		SystemCd:        p.SystemCd,
		ReqMenu:         p.ReqMenu,
		ReqMenuEtc:      p.ReqMenuEtc,
		BxtID:           p.BxtID,
		ReqUserID:       p.ReqUserID,
		ResUserID:       p.ResUserID,
		ImptCd:          p.ImptCd,
		DfcltCd:         p.DfcltCd,
		PriorityCd:      p.PriorityCd,
		ManDay:          p.ManDay,
		ProcStatus:      p.ProcStatus,
		ProcRate:        p.ProcRate,
		AnswerHTML:      p.AnswerHTML,
		AnswerText:      p.AnswerText,
		DelayReasonHTML: p.DelayReasonHTML,
		DelayReasonText: p.DelayReasonText,
		CorCd:           p.CorCd,
		DeptCd:          p.DeptCd,
		OfficeCd:        p.OfficeCd,
		TeamCd:          p.TeamCd,
		NoteHTML:        p.NoteHTML,
		NoteText:        p.NoteText,
	}
}

// ListReqs 分页查询请求单，支持标题关键字、状态、分类等条件过滤。
func (h *ReqHandler) ListReqs(c *gin.Context) {
	var search model.ReqSearch
	if err := c.ShouldBindQuery(&search); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的查询参数"})
		return
	}
	pageNumber, pageSize := pageParams(c)

	result, err := h.reqService.ListReqs(search, pageNumber, pageSize)
	if err != nil {
		log.Errorf("ListReqs: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询请求单列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    result,
	})
}

// GetReq 返回请求单详情、附件与完整变更历史。
func (h *ReqHandler) GetReq(c *gin.Context) {
	reqID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	info, err := h.reqService.GetReq(reqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "请求单不存在"})
			return
		}
		log.Errorf("GetReq: failed, reqId: %d, error: %v", reqID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询请求单失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    info,
	})
}

// CreateReq 创建请求单，multipart 表单：data 为 JSON 负载，files 为附件。
func (h *ReqHandler) CreateReq(c *gin.Context) {
	var payload ReqPayload
	if err := bindDataField(c, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	if err := payload.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uploads, cleanup, err := collectUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的附件"})
		return
	}
	defer cleanup()

	operator := operatorID(c)
	info := &model.ReqInfo{ReqSnapshot: payload.toSnapshot()}
	// 未显式指定申请人时，默认是当前登录用户
	if info.ReqUserID == "" {
		info.ReqUserID = operator
	}

	if err := h.reqService.CreateReq(c.Request.Context(), info, uploads, operator); err != nil {
		log.Errorf("CreateReq: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建请求单失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Req created successfully",
		"data":    info,
	})
}

// UpdateReq 更新请求单，同一事务内写入一条变更历史并处理附件增删。
func (h *ReqHandler) UpdateReq(c *gin.Context) {
	reqID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var payload ReqPayload
	if err := bindDataField(c, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	if err := payload.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uploads, cleanup, err := collectUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的附件"})
		return
	}
	defer cleanup()

	info := &model.ReqInfo{ReqID: reqID, ReqSnapshot: payload.toSnapshot()}

	if err := h.reqService.UpdateReq(c.Request.Context(), info, uploads, payload.RemoveFileIDs, operatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "请求单不存在"})
			return
		}
		log.Errorf("UpdateReq: failed, reqId: %d, error: %v", reqID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新请求单失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Req updated successfully",
	})
}

// DeleteReq 逻辑删除请求单。
func (h *ReqHandler) DeleteReq(c *gin.Context) {
	reqID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.reqService.DeleteReq(c.Request.Context(), reqID, operatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "请求单不存在"})
			return
		}
		log.Errorf("DeleteReq: failed, reqId: %d, error: %v", reqID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除请求单失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Req deleted successfully",
	})
}

// DownloadFile 返回请求单附件的原始文件名与临时下载链接。
func (h *ReqHandler) DownloadFile(c *gin.Context) {
	fileID, ok := uintParam(c, "fileId")
	if !ok {
		return
	}

	filename, url, err := h.reqService.GetFileURL(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "附件不存在"})
			return
		}
		log.Errorf("DownloadReqFile: failed, fileId: %d, error: %v", fileID, err)
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
