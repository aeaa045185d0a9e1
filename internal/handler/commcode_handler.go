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

// CommCodeHandler 负责处理公共代码管理的 API 请求。
type CommCodeHandler struct {
	codeService service.CommCodeService
}

// NewCommCodeHandler 创建一个新的 CommCodeHandler 实例。
func NewCommCodeHandler(codeService service.CommCodeService) *CommCodeHandler {
	return &CommCodeHandler{codeService: codeService}
}

// GetTree 返回组装好的公共代码树。
func (h *CommCodeHandler) GetTree(c *gin.Context) {
	roots, err := h.codeService.GetTree()
	if err != nil {
		log.Errorf("GetCodeTree: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询代码树失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    roots,
	})
}

// GetCodeGroup 按组名返回该代码组的明细行，供下拉框使用。
func (h *CommCodeHandler) GetCodeGroup(c *gin.Context) {
	groupName := c.Param("group")
	codes, err := h.codeService.GetCodeGroup(groupName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "代码组不存在"})
			return
		}
		log.Errorf("GetCodeGroup: failed, group: %s, error: %v", groupName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询代码组失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    codes,
	})
}

// CreateCode 创建一条公共代码。
func (h *CommCodeHandler) CreateCode(c *gin.Context) {
	var code model.CommCode
	if err := c.ShouldBindJSON(&code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	if code.CodeNm == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codeNm 不能为空"})
		return
	}

	if err := h.codeService.CreateCode(&code, operatorID(c)); err != nil {
		log.Errorf("CreateCode: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建代码失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Code created successfully",
		"data":    code,
	})
}

// UpdateCode 更新一条公共代码。
func (h *CommCodeHandler) UpdateCode(c *gin.Context) {
	codeID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var code model.CommCode
	if err := c.ShouldBindJSON(&code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	code.CodeID = codeID

	if err := h.codeService.UpdateCode(&code, operatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "代码不存在"})
			return
		}
		log.Errorf("UpdateCode: failed, codeId: %d, error: %v", codeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新代码失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Code updated successfully",
	})
}

// DeleteCode 删除一条公共代码，还有下级代码时返回 409。
func (h *CommCodeHandler) DeleteCode(c *gin.Context) {
	codeID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.codeService.DeleteCode(codeID, operatorID(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrHasChildren):
			c.JSON(http.StatusConflict, gin.H{"error": "该代码下还有下级代码，请先处理下级代码"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "代码不存在"})
		default:
			log.Errorf("DeleteCode: failed, codeId: %d, error: %v", codeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "删除代码失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Code deleted successfully",
	})
}
