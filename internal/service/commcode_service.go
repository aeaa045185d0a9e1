package service

import (
	"time"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
	"csr-portal-go/internal/tree"
)

// CommCodeService 接口定义了公共代码管理的业务操作。
type CommCodeService interface {
	// GetTree 返回组装好的公共代码树，parent_id 为 0 的行作为根。
	GetTree() ([]*model.CommCode, error)
	GetCode(codeID uint) (*model.CommCode, error)
	// GetCodeGroup 按组名返回该组的全部有效明细行，供下拉框使用。
	GetCodeGroup(groupName string) ([]model.CommCode, error)
	CreateCode(code *model.CommCode, operator string) error
	UpdateCode(code *model.CommCode, operator string) error
	// DeleteCode 逻辑删除代码行；还有有效子代码时返回 ErrHasChildren。
	DeleteCode(codeID uint, operator string) error
}

type commCodeService struct {
	codeRepo repository.CommCodeRepository
}

// NewCommCodeService 创建一个新的 CommCodeService 实例。
func NewCommCodeService(codeRepo repository.CommCodeRepository) CommCodeService {
	return &commCodeService{codeRepo: codeRepo}
}

// commCodeTreeOptions 描述公共代码实体如何参与树组装。
// ParentID 用 0 作为"无父节点"的哨兵值，而不是 NULL。
func commCodeTreeOptions() tree.Options[*model.CommCode, uint] {
	return tree.Options[*model.CommCode, uint]{
		ID: func(c *model.CommCode) uint { return c.CodeID },
		ParentID: func(c *model.CommCode) (uint, bool) {
			if c.ParentID == model.CommCodeRootParent {
				return 0, false
			}
			return c.ParentID, true
		},
		SortOrder: func(c *model.CommCode) int { return c.SortOrder },
		AddChild: func(parent, child *model.CommCode) {
			parent.Children = append(parent.Children, child)
		},
		SetLevel: func(c *model.CommCode, level int) { c.CodeLevel = level },
	}
}

func (s *commCodeService) GetTree() ([]*model.CommCode, error) {
	codes, err := s.codeRepo.FindAll()
	if err != nil {
		return nil, err
	}

	nodes := make([]*model.CommCode, len(codes))
	for i := range codes {
		nodes[i] = &codes[i]
	}

	return tree.Build(nodes, commCodeTreeOptions())
}

func (s *commCodeService) GetCode(codeID uint) (*model.CommCode, error) {
	return s.codeRepo.FindByID(codeID)
}

// GetCodeGroup 先按组名定位顶级组行，再取该组下的明细行。
func (s *commCodeService) GetCodeGroup(groupName string) ([]model.CommCode, error) {
	group, err := s.codeRepo.FindGroupByName(groupName)
	if err != nil {
		return nil, err
	}
	return s.codeRepo.FindByParentID(group.CodeID)
}

func (s *commCodeService) CreateCode(code *model.CommCode, operator string) error {
	code.UseYn = model.UseYnActive
	code.RegUserID = operator
	return s.codeRepo.Create(code)
}

func (s *commCodeService) UpdateCode(code *model.CommCode, operator string) error {
	existing, err := s.codeRepo.FindByID(code.CodeID)
	if err != nil {
		return err
	}
	existing.ParentID = code.ParentID
	existing.CodeNm = code.CodeNm
	existing.Code = code.Code
	existing.SortOrder = code.SortOrder
	existing.Note = code.Note

	now := time.Now()
	existing.UpdateDate = &now
	existing.UpdateUserID = operator

	return s.codeRepo.Update(existing)
}

func (s *commCodeService) DeleteCode(codeID uint, operator string) error {
	if _, err := s.codeRepo.FindByID(codeID); err != nil {
		return err
	}
	count, err := s.codeRepo.CountChildren(codeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasChildren
	}
	return s.codeRepo.SoftDelete(codeID, operator)
}
