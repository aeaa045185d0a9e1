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

// UserHandler 负责处理用户账号管理的 API 请求。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// pageParams 从查询参数中解析页码与页大小。
func pageParams(c *gin.Context) (int, int) {
	pageNumber, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	return pageNumber, pageSize
}

// ListUsers 分页查询用户列表，支持账号、姓名与组织条件过滤。
func (h *UserHandler) ListUsers(c *gin.Context) {
	var search model.UserSearch
	if err := c.ShouldBindQuery(&search); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的查询参数"})
		return
	}
	pageNumber, pageSize := pageParams(c)

	result, err := h.userService.ListUsers(search, pageNumber, pageSize)
	if err != nil {
		log.Errorf("ListUsers: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询用户列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    result,
	})
}

// GetUser 返回单个用户的详细信息。
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		log.Errorf("GetUser: failed, userId: %s, error: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询用户失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    user,
	})
}

// CreateUserRequest 定义了创建用户 API 的请求体结构。
type CreateUserRequest struct {
	UserID     string `json:"userId" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
	UserName   string `json:"userName" binding:"required"`
	EmpNo      string `json:"empNo"`
	CorCd      string `json:"corCd"`
	DeptCd     string `json:"deptCd"`
	OfficeCd   string `json:"officeCd"`
	TeamCd     string `json:"teamCd"`
	TelNo      string `json:"telNo"`
	MobPhoneNo string `json:"mobPhoneNo"`
	EmailAddr  string `json:"emailAddr"`
	AdminFlag  bool   `json:"adminFlag"`
}

// CreateUser 创建一个新的用户账号。
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}

	operator := operatorID(c)
	user := &model.User{
		UserID:     req.UserID,
		UserName:   req.UserName,
		EmpNo:      req.EmpNo,
		CorCd:      req.CorCd,
		DeptCd:     req.DeptCd,
		OfficeCd:   req.OfficeCd,
		TeamCd:     req.TeamCd,
		TelNo:      req.TelNo,
		MobPhoneNo: req.MobPhoneNo,
		EmailAddr:  req.EmailAddr,
		AdminFlag:  req.AdminFlag,
	}

	if err := h.userService.CreateUser(user, req.Password, operator); err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "账号 ID 已存在"})
			return
		}
		log.Errorf("CreateUser: failed, userId: %s, error: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建用户失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "User created successfully",
		"data":    user,
	})
}

// UpdateUser 更新用户基本信息。
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}
	user.UserID = c.Param("id")

	if err := h.userService.UpdateUser(&user, operatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		log.Errorf("UpdateUser: failed, userId: %s, error: %v", user.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新用户失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "User updated successfully",
	})
}

// DeleteUser 停用一个用户账号（逻辑删除）。
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")
	if err := h.userService.DeactivateUser(userID, operatorID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		log.Errorf("DeleteUser: failed, userId: %s, error: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "停用用户失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "User deactivated successfully",
	})
}

// operatorID 返回当前登录用户的账号 ID，作为登记/修改人写入。
func operatorID(c *gin.Context) string {
	if user := currentUser(c); user != nil {
		return user.UserID
	}
	return ""
}
