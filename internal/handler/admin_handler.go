package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"csr-portal-go/internal/service"
	"csr-portal-go/pkg/log"
)

// AdminHandler 负责处理用户-菜单担当关系的 API 请求。
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetUserMenus 返回某用户担当的菜单列表。
func (h *AdminHandler) GetUserMenus(c *gin.Context) {
	userID := c.Param("id")
	menus, err := h.adminService.GetUserMenus(userID)
	if err != nil {
		log.Errorf("GetUserMenus: failed, userId: %s, error: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询担当菜单失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    menus,
	})
}

// AssignMenusRequest 定义了替换担当菜单集合的请求体结构。
type AssignMenusRequest struct {
	MenuIDs []uint `json:"menuIds"`
}

// AssignMenus 整体替换某用户的担当菜单集合。
func (h *AdminHandler) AssignMenus(c *gin.Context) {
	userID := c.Param("id")

	var req AssignMenusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}

	if err := h.adminService.AssignMenus(userID, req.MenuIDs, operatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		log.Errorf("AssignMenus: failed, userId: %s, error: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存担当菜单失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Menus assigned successfully",
	})
}

// GetMenuAdmins 返回担当某菜单的用户列表。
func (h *AdminHandler) GetMenuAdmins(c *gin.Context) {
	menuID, ok := uintParam(c, "menuId")
	if !ok {
		return
	}

	users, err := h.adminService.GetMenuAdmins(menuID)
	if err != nil {
		log.Errorf("GetMenuAdmins: failed, menuId: %d, error: %v", menuID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询菜单担当者失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    users,
	})
}
