package service

import (
	"errors"

	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
	"csr-portal-go/internal/tree"
)

// DeptService 接口定义了部门管理的业务操作。
type DeptService interface {
	// GetTree 返回组装好的部门树（根节点森林）。
	GetTree() ([]*model.Dept, error)
	GetDept(deptID uint) (*model.Dept, error)
	CreateDept(dept *model.Dept) error
	UpdateDept(dept *model.Dept) error
	// DeleteDept 逻辑删除部门；还有有效子部门时返回 ErrHasChildren。
	DeleteDept(deptID uint) error
	// MoveUp 与排序值紧邻在前的兄弟节点交换位置，已在首位时为空操作。
	MoveUp(deptID uint) error
	// MoveDown 与排序值紧邻在后的兄弟节点交换位置，已在末位时为空操作。
	MoveDown(deptID uint) error
}

type deptService struct {
	deptRepo repository.DeptRepository
}

// NewDeptService 创建一个新的 DeptService 实例。
func NewDeptService(deptRepo repository.DeptRepository) DeptService {
	return &deptService{deptRepo: deptRepo}
}

// deptTreeOptions 描述部门实体如何参与树组装。
func deptTreeOptions() tree.Options[*model.Dept, uint] {
	return tree.Options[*model.Dept, uint]{
		ID: func(d *model.Dept) uint { return d.DeptID },
		ParentID: func(d *model.Dept) (uint, bool) {
			if d.ParentID == nil {
				return 0, false
			}
			return *d.ParentID, true
		},
		SortOrder: func(d *model.Dept) int { return d.SortOrder },
		AddChild: func(parent, child *model.Dept) {
			parent.Children = append(parent.Children, child)
		},
		SetLevel: func(d *model.Dept, level int) { d.DeptLevel = level },
	}
}

// GetTree 读取全部有效部门并组装为树，同时填充每个节点的子节点数。
func (s *deptService) GetTree() ([]*model.Dept, error) {
	depts, err := s.deptRepo.FindAll()
	if err != nil {
		return nil, err
	}

	nodes := make([]*model.Dept, len(depts))
	for i := range depts {
		nodes[i] = &depts[i]
	}

	roots, err := tree.Build(nodes, deptTreeOptions())
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		fillDeptChildCount(root)
	}
	return roots, nil
}

// fillDeptChildCount 自上而下填充 ChildCount。
func fillDeptChildCount(d *model.Dept) {
	d.ChildCount = int64(len(d.Children))
	for _, c := range d.Children {
		fillDeptChildCount(c)
	}
}

func (s *deptService) GetDept(deptID uint) (*model.Dept, error) {
	dept, err := s.deptRepo.FindByID(deptID)
	if err != nil {
		return nil, err
	}
	count, err := s.deptRepo.CountChildren(deptID)
	if err != nil {
		return nil, err
	}
	dept.ChildCount = count
	return dept, nil
}

func (s *deptService) CreateDept(dept *model.Dept) error {
	dept.UseYn = model.UseYnActive
	return s.deptRepo.Create(dept)
}

func (s *deptService) UpdateDept(dept *model.Dept) error {
	existing, err := s.deptRepo.FindByID(dept.DeptID)
	if err != nil {
		return err
	}
	existing.DeptCd = dept.DeptCd
	existing.DeptName = dept.DeptName
	existing.CorCd = dept.CorCd
	existing.ParentID = dept.ParentID
	existing.SortOrder = dept.SortOrder
	existing.Note = dept.Note
	return s.deptRepo.Update(existing)
}

// DeleteDept 逻辑删除部门。带有效子部门的节点拒绝删除，
// 由调用方先移动或删除子部门。
func (s *deptService) DeleteDept(deptID uint) error {
	if _, err := s.deptRepo.FindByID(deptID); err != nil {
		return err
	}
	count, err := s.deptRepo.CountChildren(deptID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasChildren
	}
	return s.deptRepo.SoftDelete(deptID)
}

// MoveUp 在事务内锁定当前节点与前一个兄弟节点，交换两者的排序值。
func (s *deptService) MoveUp(deptID uint) error {
	return s.deptRepo.InTx(func(txRepo repository.DeptRepository) error {
		dept, err := txRepo.LockByID(deptID)
		if err != nil {
			return err
		}
		prev, err := txRepo.LockPrevSibling(dept)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 已在首位
				return nil
			}
			return err
		}
		return swapDeptOrder(txRepo, dept, prev)
	})
}

// MoveDown 在事务内锁定当前节点与后一个兄弟节点，交换两者的排序值。
func (s *deptService) MoveDown(deptID uint) error {
	return s.deptRepo.InTx(func(txRepo repository.DeptRepository) error {
		dept, err := txRepo.LockByID(deptID)
		if err != nil {
			return err
		}
		next, err := txRepo.LockNextSibling(dept)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 已在末位
				return nil
			}
			return err
		}
		return swapDeptOrder(txRepo, dept, next)
	})
}

func swapDeptOrder(txRepo repository.DeptRepository, a, b *model.Dept) error {
	if err := txRepo.UpdateSortOrder(a.DeptID, b.SortOrder); err != nil {
		return err
	}
	return txRepo.UpdateSortOrder(b.DeptID, a.SortOrder)
}
