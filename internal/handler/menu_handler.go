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

// MenuHandler 负责处理菜单管理的 API 请求。
type MenuHandler struct {
	menuService service.MenuService
}

// NewMenuHandler 创建一个新的 MenuHandler 实例。
func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// GetTree 返回组装好的菜单树。
// query 参数 all=true 时包含已停用的菜单，供管理页面使用。
func (h *MenuHandler) GetTree(c *gin.Context) {
	activeOnly := c.Query("all") != "true"

	roots, err := h.menuService.GetTree(activeOnly)
	if err != nil {
		log.Errorf("GetMenuTree: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询菜单树失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    roots,
	})
}

// GetMenu 返回单个菜单的详细信息。
func (h *MenuHandler) GetMenu(c *gin.Context) {
	menuID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	menu, err := h.menuService.GetMenu(menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "菜单不存在"})
			return
		}
		log.Errorf("GetMenu: failed, menuId: %d, error: %v", menuID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询菜单失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    menu,
	})
}

// CreateMenu 创建一个菜单项。
func (h *MenuHandler) CreateMenu(c *gin.Context) {
	var menu model.Menu
	if err := c.ShouldBindJSON(&menu); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	if menu.MenuName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menuName 不能为空"})
		return
	}

	if err := h.menuService.CreateMenu(&menu, operatorID(c)); err != nil {
		log.Errorf("CreateMenu: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建菜单失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "Menu created successfully",
		"data":    menu,
	})
}

// UpdateMenu 更新一个菜单项。
func (h *MenuHandler) UpdateMenu(c *gin.Context) {
	menuID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var menu model.Menu
	if err := c.ShouldBindJSON(&menu); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	menu.MenuID = menuID

	if err := h.menuService.UpdateMenu(&menu, operatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "菜单不存在"})
			return
		}
		log.Errorf("UpdateMenu: failed, menuId: %d, error: %v", menuID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新菜单失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Menu updated successfully",
	})
}

// DeleteMenu 删除一个菜单项，还有子菜单时返回 409。
func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	menuID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenu(menuID, operatorID(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrHasChildren):
			c.JSON(http.StatusConflict, gin.H{"error": "该菜单下还有子菜单，请先处理子菜单"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "菜单不存在"})
		default:
			log.Errorf("DeleteMenu: failed, menuId: %d, error: %v", menuID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "删除菜单失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Menu deleted successfully",
	})
}

// MoveUp 将菜单在同级中上移一位。
func (h *MenuHandler) MoveUp(c *gin.Context) {
	h.move(c, h.menuService.MoveUp)
}

// MoveDown 将菜单在同级中下移一位。
func (h *MenuHandler) MoveDown(c *gin.Context) {
	h.move(c, h.menuService.MoveDown)
}

func (h *MenuHandler) move(c *gin.Context, fn func(uint) error) {
	menuID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := fn(menuID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "菜单不存在"})
			return
		}
		log.Errorf("MoveMenu: failed, menuId: %d, error: %v", menuID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "调整菜单顺序失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Menu order updated",
	})
}

// ListParentCandidates 返回可用作某菜单父节点的菜单列表。
func (h *MenuHandler) ListParentCandidates(c *gin.Context) {
	menuID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	menus, err := h.menuService.ListParentCandidates(menuID)
	if err != nil {
		log.Errorf("ListParentCandidates: failed, menuId: %d, error: %v", menuID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询候选父菜单失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    menus,
	})
}
