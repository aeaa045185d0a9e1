package service

import (
	"errors"

	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
)

// AdminService 接口定义了用户-菜单担当关系的业务操作。
type AdminService interface {
	// GetUserMenus 返回某用户担当的全部有效菜单。
	GetUserMenus(userID string) ([]model.Menu, error)
	// AssignMenus 整体替换某用户的担当菜单集合。
	AssignMenus(userID string, menuIDs []uint, operator string) error
	// GetMenuAdmins 返回担当某菜单的全部有效用户。
	GetMenuAdmins(menuID uint) ([]model.User, error)
}

type adminService struct {
	relRepo  repository.AdminRelRepository
	menuRepo repository.MenuRepository
	userRepo repository.UserRepository
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(relRepo repository.AdminRelRepository, menuRepo repository.MenuRepository, userRepo repository.UserRepository) AdminService {
	return &adminService{
		relRepo:  relRepo,
		menuRepo: menuRepo,
		userRepo: userRepo,
	}
}

func (s *adminService) GetUserMenus(userID string) ([]model.Menu, error) {
	menuIDs, err := s.relRepo.FindMenuIDsByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.menuRepo.FindByIDs(menuIDs)
}

// AssignMenus 先校验用户与菜单的有效性，再在事务中整体替换担当关系。
func (s *adminService) AssignMenus(userID string, menuIDs []uint, operator string) error {
	if _, err := s.userRepo.FindActiveByID(userID); err != nil {
		return err
	}
	// 过滤掉无效菜单 ID，只保留实际存在的菜单
	menus, err := s.menuRepo.FindByIDs(menuIDs)
	if err != nil {
		return err
	}
	validIDs := make([]uint, 0, len(menus))
	for _, m := range menus {
		validIDs = append(validIDs, m.MenuID)
	}
	return s.relRepo.ReplaceForUser(userID, validIDs, operator)
}

func (s *adminService) GetMenuAdmins(menuID uint) ([]model.User, error) {
	userIDs, err := s.relRepo.FindUserIDsByMenuID(menuID)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := s.userRepo.FindActiveByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 已停用的账号不再出现在担当列表中
				continue
			}
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}
