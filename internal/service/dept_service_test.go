package service

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
)

func TestDeptTreeAssembly(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewDeptRepository(db)
	svc := NewDeptService(repo)

	hq := &model.Dept{DeptName: "总部", CorCd: "C01", SortOrder: 1}
	require.NoError(t, repo.Create(hq))
	dev := &model.Dept{DeptName: "开发部", CorCd: "C01", ParentID: &hq.DeptID, SortOrder: 2}
	qa := &model.Dept{DeptName: "质量部", CorCd: "C01", ParentID: &hq.DeptID, SortOrder: 1}
	require.NoError(t, repo.Create(dev))
	require.NoError(t, repo.Create(qa))
	// 父节点指向不存在的 ID，应提升为根
	missing := uint(9999)
	orphan := &model.Dept{DeptName: "外派组", CorCd: "C01", ParentID: &missing, SortOrder: 5}
	require.NoError(t, repo.Create(orphan))

	roots, err := svc.GetTree()
	require.NoError(t, err)

	require.Len(t, roots, 2)
	assert.Equal(t, "总部", roots[0].DeptName)
	assert.Equal(t, "外派组", roots[1].DeptName)
	assert.Equal(t, 1, roots[1].DeptLevel)

	// 子节点按排序值排列，层级与子节点数已填充
	children := roots[0].Children
	require.Len(t, children, 2)
	assert.Equal(t, "质量部", children[0].DeptName)
	assert.Equal(t, "开发部", children[1].DeptName)
	assert.Equal(t, 2, children[0].DeptLevel)
	assert.Equal(t, int64(2), roots[0].ChildCount)
}

func TestDeleteDeptWithChildrenRejected(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewDeptRepository(db)
	svc := NewDeptService(repo)

	parent := &model.Dept{DeptName: "总部", CorCd: "C01"}
	require.NoError(t, repo.Create(parent))
	child := &model.Dept{DeptName: "开发部", CorCd: "C01", ParentID: &parent.DeptID}
	require.NoError(t, repo.Create(child))

	err := svc.DeleteDept(parent.DeptID)
	assert.True(t, errors.Is(err, ErrHasChildren))

	// 拒绝删除后父节点保持有效
	got, err := repo.FindByID(parent.DeptID)
	require.NoError(t, err)
	assert.Equal(t, model.UseYnActive, got.UseYn)

	// 叶子节点可以删除，删除后父节点也可删除
	require.NoError(t, svc.DeleteDept(child.DeptID))
	require.NoError(t, svc.DeleteDept(parent.DeptID))
	_, err = repo.FindByID(parent.DeptID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

// fakeDeptRepo 是 DeptRepository 的内存实现，用于验证换序逻辑。
type fakeDeptRepo struct {
	depts []*model.Dept
}

func (f *fakeDeptRepo) InTx(fn func(txRepo repository.DeptRepository) error) error {
	return fn(f)
}

func (f *fakeDeptRepo) FindAll() ([]model.Dept, error) {
	out := make([]model.Dept, 0, len(f.depts))
	for _, d := range f.depts {
		if d.UseYn == model.UseYnActive {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeptRepo) find(deptID uint) *model.Dept {
	for _, d := range f.depts {
		if d.DeptID == deptID && d.UseYn == model.UseYnActive {
			return d
		}
	}
	return nil
}

func (f *fakeDeptRepo) FindByID(deptID uint) (*model.Dept, error) {
	if d := f.find(deptID); d != nil {
		copied := *d
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeptRepo) Create(dept *model.Dept) error {
	dept.DeptID = uint(len(f.depts) + 1)
	dept.UseYn = model.UseYnActive
	f.depts = append(f.depts, dept)
	return nil
}

func (f *fakeDeptRepo) Update(dept *model.Dept) error {
	if d := f.find(dept.DeptID); d != nil {
		*d = *dept
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeDeptRepo) SoftDelete(deptID uint) error {
	if d := f.find(deptID); d != nil {
		d.UseYn = model.UseYnInactive
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeDeptRepo) CountChildren(deptID uint) (int64, error) {
	var count int64
	for _, d := range f.depts {
		if d.ParentID != nil && *d.ParentID == deptID && d.UseYn == model.UseYnActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeDeptRepo) LockByID(deptID uint) (*model.Dept, error) {
	return f.FindByID(deptID)
}

func (f *fakeDeptRepo) siblings(dept *model.Dept) []*model.Dept {
	var out []*model.Dept
	for _, d := range f.depts {
		if d.UseYn != model.UseYnActive || d.DeptID == dept.DeptID {
			continue
		}
		sameParent := (d.ParentID == nil && dept.ParentID == nil) ||
			(d.ParentID != nil && dept.ParentID != nil && *d.ParentID == *dept.ParentID)
		if sameParent {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (f *fakeDeptRepo) LockPrevSibling(dept *model.Dept) (*model.Dept, error) {
	var prev *model.Dept
	for _, s := range f.siblings(dept) {
		if s.SortOrder < dept.SortOrder {
			prev = s
		}
	}
	if prev == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *prev
	return &copied, nil
}

func (f *fakeDeptRepo) LockNextSibling(dept *model.Dept) (*model.Dept, error) {
	for _, s := range f.siblings(dept) {
		if s.SortOrder > dept.SortOrder {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeptRepo) UpdateSortOrder(deptID uint, sortOrder int) error {
	if d := f.find(deptID); d != nil {
		d.SortOrder = sortOrder
		return nil
	}
	return gorm.ErrRecordNotFound
}

func TestMoveUpSwapsSortOrder(t *testing.T) {
	repo := &fakeDeptRepo{}
	svc := NewDeptService(repo)

	first := &model.Dept{DeptName: "A", SortOrder: 10}
	second := &model.Dept{DeptName: "B", SortOrder: 20}
	third := &model.Dept{DeptName: "C", SortOrder: 30}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.Create(third))

	require.NoError(t, svc.MoveUp(third.DeptID))

	a, _ := repo.FindByID(first.DeptID)
	b, _ := repo.FindByID(second.DeptID)
	c, _ := repo.FindByID(third.DeptID)
	assert.Equal(t, 10, a.SortOrder)
	assert.Equal(t, 30, b.SortOrder)
	assert.Equal(t, 20, c.SortOrder)
}

func TestMoveAtBoundaryIsNoop(t *testing.T) {
	repo := &fakeDeptRepo{}
	svc := NewDeptService(repo)

	first := &model.Dept{DeptName: "A", SortOrder: 10}
	second := &model.Dept{DeptName: "B", SortOrder: 20}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	// 首位上移、末位下移都是空操作
	require.NoError(t, svc.MoveUp(first.DeptID))
	require.NoError(t, svc.MoveDown(second.DeptID))

	a, _ := repo.FindByID(first.DeptID)
	b, _ := repo.FindByID(second.DeptID)
	assert.Equal(t, 10, a.SortOrder)
	assert.Equal(t, 20, b.SortOrder)
}

func TestMoveOnlySwapsWithinSameParent(t *testing.T) {
	repo := &fakeDeptRepo{}
	svc := NewDeptService(repo)

	rootA := &model.Dept{DeptName: "A", SortOrder: 10}
	rootB := &model.Dept{DeptName: "B", SortOrder: 20}
	require.NoError(t, repo.Create(rootA))
	require.NoError(t, repo.Create(rootB))
	// 不同父节点下的节点排序值更小，但不参与交换
	childOfA := &model.Dept{DeptName: "A-1", ParentID: &rootA.DeptID, SortOrder: 5}
	require.NoError(t, repo.Create(childOfA))

	require.NoError(t, svc.MoveUp(rootB.DeptID))

	a, _ := repo.FindByID(rootA.DeptID)
	b, _ := repo.FindByID(rootB.DeptID)
	c, _ := repo.FindByID(childOfA.DeptID)
	assert.Equal(t, 20, a.SortOrder)
	assert.Equal(t, 10, b.SortOrder)
	assert.Equal(t, 5, c.SortOrder)
}
