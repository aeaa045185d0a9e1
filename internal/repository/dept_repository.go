package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"csr-portal-go/internal/model"
)

// DeptRepository 接口定义了部门数据的持久化操作。
// 兄弟节点换序相关的方法必须在 InTx 的事务内调用，行锁才有意义。
type DeptRepository interface {
	InTx(fn func(txRepo DeptRepository) error) error
	FindAll() ([]model.Dept, error)
	FindByID(deptID uint) (*model.Dept, error)
	Create(dept *model.Dept) error
	Update(dept *model.Dept) error
	SoftDelete(deptID uint) error
	CountChildren(deptID uint) (int64, error)
	// LockByID 以 SELECT ... FOR UPDATE 锁定并返回一行部门记录。
	LockByID(deptID uint) (*model.Dept, error)
	// LockPrevSibling 锁定并返回同父节点下排序值紧邻在前的兄弟节点。
	LockPrevSibling(dept *model.Dept) (*model.Dept, error)
	// LockNextSibling 锁定并返回同父节点下排序值紧邻在后的兄弟节点。
	LockNextSibling(dept *model.Dept) (*model.Dept, error)
	UpdateSortOrder(deptID uint, sortOrder int) error
}

type deptRepository struct {
	db *gorm.DB
}

// NewDeptRepository 创建一个新的 DeptRepository 实例。
func NewDeptRepository(db *gorm.DB) DeptRepository {
	return &deptRepository{db: db}
}

// InTx 在单个数据库事务中执行 fn，fn 收到的是绑定事务连接的仓库。
func (r *deptRepository) InTx(fn func(txRepo DeptRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&deptRepository{db: tx})
	})
}

// FindAll 检索全部有效部门，按排序值与主键排序。
func (r *deptRepository) FindAll() ([]model.Dept, error) {
	var depts []model.Dept
	err := r.db.Where("use_yn = ?", model.UseYnActive).
		Order("sort_order, dept_id").Find(&depts).Error
	return depts, err
}

func (r *deptRepository) FindByID(deptID uint) (*model.Dept, error) {
	var dept model.Dept
	err := r.db.Where("use_yn = ?", model.UseYnActive).First(&dept, deptID).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *deptRepository) Create(dept *model.Dept) error {
	return r.db.Create(dept).Error
}

func (r *deptRepository) Update(dept *model.Dept) error {
	return r.db.Save(dept).Error
}

// SoftDelete 将部门标记为不可用，不物理删除。
func (r *deptRepository) SoftDelete(deptID uint) error {
	return r.db.Model(&model.Dept{}).Where("dept_id = ?", deptID).
		Update("use_yn", model.UseYnInactive).Error
}

// CountChildren 统计指向该部门的有效子部门数量。
func (r *deptRepository) CountChildren(deptID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Dept{}).
		Where("parent_id = ? AND use_yn = ?", deptID, model.UseYnActive).
		Count(&count).Error
	return count, err
}

// LockByID 以行锁读取一条部门记录，换序前先锁住当前行。
func (r *deptRepository) LockByID(deptID uint) (*model.Dept, error) {
	var dept model.Dept
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("use_yn = ?", model.UseYnActive).First(&dept, deptID).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// siblingScope 构造"同一父节点下的有效节点"查询，父节点为 NULL 时按 IS NULL 匹配。
func (r *deptRepository) siblingScope(dept *model.Dept) *gorm.DB {
	db := r.db.Where("use_yn = ?", model.UseYnActive)
	if dept.ParentID == nil {
		return db.Where("parent_id IS NULL")
	}
	return db.Where("parent_id = ?", *dept.ParentID)
}

// LockPrevSibling 锁定排序值小于当前节点的最近兄弟。
// 没有前一个兄弟时返回 gorm.ErrRecordNotFound。
func (r *deptRepository) LockPrevSibling(dept *model.Dept) (*model.Dept, error) {
	var sibling model.Dept
	err := r.siblingScope(dept).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sort_order < ?", dept.SortOrder).
		Order("sort_order DESC, dept_id DESC").
		First(&sibling).Error
	if err != nil {
		return nil, err
	}
	return &sibling, nil
}

// LockNextSibling 锁定排序值大于当前节点的最近兄弟。
// 没有后一个兄弟时返回 gorm.ErrRecordNotFound。
func (r *deptRepository) LockNextSibling(dept *model.Dept) (*model.Dept, error) {
	var sibling model.Dept
	err := r.siblingScope(dept).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sort_order > ?", dept.SortOrder).
		Order("sort_order ASC, dept_id ASC").
		First(&sibling).Error
	if err != nil {
		return nil, err
	}
	return &sibling, nil
}

// UpdateSortOrder 只更新一行的排序值。
func (r *deptRepository) UpdateSortOrder(deptID uint, sortOrder int) error {
	return r.db.Model(&model.Dept{}).Where("dept_id = ?", deptID).
		Update("sort_order", sortOrder).Error
}
