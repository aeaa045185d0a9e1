package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/service"
	"csr-portal-go/pkg/log"
)

// CorpHandler 负责处理法人主数据的 API 请求。
type CorpHandler struct {
	corpService service.CorpService
}

// NewCorpHandler 创建一个新的 CorpHandler 实例。
func NewCorpHandler(corpService service.CorpService) *CorpHandler {
	return &CorpHandler{corpService: corpService}
}

// ListCorps 返回法人列表，支持 q 参数做代码/名称模糊联想。
func (h *CorpHandler) ListCorps(c *gin.Context) {
	corps, err := h.corpService.ListCorps(c.Query("q"))
	if err != nil {
		log.Errorf("ListCorps: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询法人列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    corps,
	})
}

// GetCorp 返回单个法人的详细信息。
func (h *CorpHandler) GetCorp(c *gin.Context) {
	corp, err := h.corpService.GetCorp(c.Param("corCd"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "法人不存在"})
			return
		}
		log.Errorf("GetCorp: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询法人失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    corp,
	})
}

// CreateCorp 创建一条法人记录。
func (h *CorpHandler) CreateCorp(c *gin.Context) {
	var corp model.Corp
	if err := c.ShouldBindJSON(&corp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	if corp.CorCd == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corCd 不能为空"})
		return
	}

	if err := h.corpService.CreateCorp(&corp); err != nil {
		log.Errorf("CreateCorp: failed, corCd: %s, error: %v", corp.CorCd, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建法人失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Corp created successfully",
		"data":    corp,
	})
}

// UpdateCorp 更新一条法人记录。
func (h *CorpHandler) UpdateCorp(c *gin.Context) {
	var corp model.Corp
	if err := c.ShouldBindJSON(&corp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	corp.CorCd = c.Param("corCd")

	if err := h.corpService.UpdateCorp(&corp); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "法人不存在"})
			return
		}
		log.Errorf("UpdateCorp: failed, corCd: %s, error: %v", corp.CorCd, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新法人失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Corp updated successfully",
	})
}
