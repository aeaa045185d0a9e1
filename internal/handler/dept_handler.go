package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/service"
	"csr-portal-go/pkg/log"
)

// DeptHandler 负责处理部门管理的 API 请求。
type DeptHandler struct {
	deptService service.DeptService
}

// NewDeptHandler 创建一个新的 DeptHandler 实例。
func NewDeptHandler(deptService service.DeptService) *DeptHandler {
	return &DeptHandler{deptService: deptService}
}

// uintParam 解析路径参数中的数字主键。
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 " + name})
		return 0, false
	}
	return uint(v), true
}

// GetTree 返回组装好的部门树。
func (h *DeptHandler) GetTree(c *gin.Context) {
	roots, err := h.deptService.GetTree()
	if err != nil {
		log.Errorf("GetTree: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询部门树失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    roots,
	})
}

// GetDept 返回单个部门的详细信息。
func (h *DeptHandler) GetDept(c *gin.Context) {
	deptID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	dept, err := h.deptService.GetDept(deptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "部门不存在"})
			return
		}
		log.Errorf("GetDept: failed, deptId: %d, error: %v", deptID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询部门失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    dept,
	})
}

// CreateDept 创建一个部门。
func (h *DeptHandler) CreateDept(c *gin.Context) {
	var dept model.Dept
	if err := c.ShouldBindJSON(&dept); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	if dept.DeptName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deptName 不能为空"})
		return
	}

	if err := h.deptService.CreateDept(&dept); err != nil {
		log.Errorf("CreateDept: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建部门失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Dept created successfully",
		"data":    dept,
	})
}

// UpdateDept 更新一个部门。
func (h *DeptHandler) UpdateDept(c *gin.Context) {
	deptID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var dept model.Dept
	if err := c.ShouldBindJSON(&dept); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	dept.DeptID = deptID

	if err := h.deptService.UpdateDept(&dept); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "部门不存在"})
			return
		}
		log.Errorf("UpdateDept: failed, deptId: %d, error: %v", deptID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新部门失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Dept updated successfully",
	})
}

// DeleteDept 删除一个部门，还有子部门时返回 409。
func (h *DeptHandler) DeleteDept(c *gin.Context) {
	deptID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.deptService.DeleteDept(deptID); err != nil {
		switch {
		case errors.Is(err, service.ErrHasChildren):
			c.JSON(http.StatusConflict, gin.H{"error": "该部门下还有子部门，请先处理子部门"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "部门不存在"})
		default:
			log.Errorf("DeleteDept: failed, deptId: %d, error: %v", deptID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "删除部门失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Dept deleted successfully",
	})
}

// MoveUp 将部门在同级中上移一位。
func (h *DeptHandler) MoveUp(c *gin.Context) {
	h.move(c, h.deptService.MoveUp)
}

// MoveDown 将部门在同级中下移一位。
func (h *DeptHandler) MoveDown(c *gin.Context) {
	h.move(c, h.deptService.MoveDown)
}

func (h *DeptHandler) move(c *gin.Context, fn func(uint) error) {
	deptID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := fn(deptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "部门不存在"})
			return
		}
		log.Errorf("MoveDept: failed, deptId: %d, error: %v", deptID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "调整部门顺序失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Dept order updated",
	})
}
