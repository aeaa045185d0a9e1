package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
	"csr-portal-go/internal/tree"
)

// MenuService 接口定义了菜单管理的业务操作。
type MenuService interface {
	// GetTree 返回组装好的菜单树；activeOnly 为 true 时只含有效菜单。
	// 树的层级最深为 model.MenuMaxLevel，更深的节点层级被钳制。
	GetTree(activeOnly bool) ([]*model.Menu, error)
	GetMenu(menuID uint) (*model.Menu, error)
	CreateMenu(menu *model.Menu, operator string) error
	UpdateMenu(menu *model.Menu, operator string) error
	// DeleteMenu 逻辑删除菜单；还有有效子菜单时返回 ErrHasChildren。
	DeleteMenu(menuID uint, operator string) error
	MoveUp(menuID uint) error
	MoveDown(menuID uint) error
	// ListParentCandidates 返回可作为某菜单新父节点的菜单列表，
	// 排除该菜单自身及其整个子树，防止成环。
	ListParentCandidates(menuID uint) ([]model.Menu, error)
}

type menuService struct {
	menuRepo repository.MenuRepository
}

// NewMenuService 创建一个新的 MenuService 实例。
func NewMenuService(menuRepo repository.MenuRepository) MenuService {
	return &menuService{menuRepo: menuRepo}
}

// menuTreeOptions 描述菜单实体如何参与树组装。
func menuTreeOptions() tree.Options[*model.Menu, uint] {
	return tree.Options[*model.Menu, uint]{
		ID: func(m *model.Menu) uint { return m.MenuID },
		ParentID: func(m *model.Menu) (uint, bool) {
			if m.ParentID == nil {
				return 0, false
			}
			return *m.ParentID, true
		},
		SortOrder: func(m *model.Menu) int { return m.SortOrder },
		AddChild: func(parent, child *model.Menu) {
			parent.Children = append(parent.Children, child)
		},
		SetLevel: func(m *model.Menu, level int) { m.MenuLevel = level },
		MaxLevel: model.MenuMaxLevel,
	}
}

func (s *menuService) GetTree(activeOnly bool) ([]*model.Menu, error) {
	menus, err := s.menuRepo.FindAll(activeOnly)
	if err != nil {
		return nil, err
	}

	nodes := make([]*model.Menu, len(menus))
	for i := range menus {
		nodes[i] = &menus[i]
	}

	roots, err := tree.Build(nodes, menuTreeOptions())
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		fillMenuChildCount(root)
	}
	return roots, nil
}

func fillMenuChildCount(m *model.Menu) {
	m.ChildCount = int64(len(m.Children))
	for _, c := range m.Children {
		fillMenuChildCount(c)
	}
}

func (s *menuService) GetMenu(menuID uint) (*model.Menu, error) {
	menu, err := s.menuRepo.FindByID(menuID)
	if err != nil {
		return nil, err
	}
	count, err := s.menuRepo.CountChildren(menuID)
	if err != nil {
		return nil, err
	}
	menu.ChildCount = count
	return menu, nil
}

func (s *menuService) CreateMenu(menu *model.Menu, operator string) error {
	menu.UseYn = model.UseYnActive
	menu.CreateUserID = operator
	return s.menuRepo.Create(menu)
}

func (s *menuService) UpdateMenu(menu *model.Menu, operator string) error {
	existing, err := s.menuRepo.FindByID(menu.MenuID)
	if err != nil {
		return err
	}
	existing.SystemCode = menu.SystemCode
	existing.MenuName = menu.MenuName
	existing.Controller = menu.Controller
	existing.Action = menu.Action
	existing.URL = menu.URL
	existing.ParentID = menu.ParentID
	existing.Info = menu.Info
	existing.SortOrder = menu.SortOrder
	existing.UseYn = menu.UseYn

	now := time.Now()
	existing.UpdateDate = &now
	existing.UpdateUserID = operator

	return s.menuRepo.Update(existing)
}

func (s *menuService) DeleteMenu(menuID uint, operator string) error {
	if _, err := s.menuRepo.FindByID(menuID); err != nil {
		return err
	}
	count, err := s.menuRepo.CountChildren(menuID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasChildren
	}
	return s.menuRepo.SoftDelete(menuID, operator)
}

// MoveUp 在事务内锁定当前节点与前一个兄弟节点，交换两者的排序值。
func (s *menuService) MoveUp(menuID uint) error {
	return s.menuRepo.InTx(func(txRepo repository.MenuRepository) error {
		menu, err := txRepo.LockByID(menuID)
		if err != nil {
			return err
		}
		prev, err := txRepo.LockPrevSibling(menu)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 已在首位
				return nil
			}
			return err
		}
		return swapMenuOrder(txRepo, menu, prev)
	})
}

// MoveDown 在事务内锁定当前节点与后一个兄弟节点，交换两者的排序值。
func (s *menuService) MoveDown(menuID uint) error {
	return s.menuRepo.InTx(func(txRepo repository.MenuRepository) error {
		menu, err := txRepo.LockByID(menuID)
		if err != nil {
			return err
		}
		next, err := txRepo.LockNextSibling(menu)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 已在末位
				return nil
			}
			return err
		}
		return swapMenuOrder(txRepo, menu, next)
	})
}

func swapMenuOrder(txRepo repository.MenuRepository, a, b *model.Menu) error {
	if err := txRepo.UpdateSortOrder(a.MenuID, b.SortOrder); err != nil {
		return err
	}
	return txRepo.UpdateSortOrder(b.MenuID, a.SortOrder)
}

// ListParentCandidates 列出可选父菜单：排除自身与自身的全部后代。
func (s *menuService) ListParentCandidates(menuID uint) ([]model.Menu, error) {
	menus, err := s.menuRepo.FindAll(true)
	if err != nil {
		return nil, err
	}

	// 以父 ID 建邻接表，从自身向下收集整个子树
	childOf := make(map[uint][]uint)
	for _, m := range menus {
		if m.ParentID != nil {
			childOf[*m.ParentID] = append(childOf[*m.ParentID], m.MenuID)
		}
	}
	excluded := map[uint]bool{menuID: true}
	queue := []uint{menuID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range childOf[cur] {
			if !excluded[child] {
				excluded[child] = true
				queue = append(queue, child)
			}
		}
	}

	candidates := make([]model.Menu, 0, len(menus))
	for _, m := range menus {
		if !excluded[m.MenuID] {
			candidates = append(candidates, m)
		}
	}
	return candidates, nil
}
