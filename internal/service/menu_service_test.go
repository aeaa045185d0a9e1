package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
)

// chainMenus 创建一条 depth 层的父子链，返回按层级排列的菜单。
func chainMenus(t *testing.T, repo repository.MenuRepository, depth int) []*model.Menu {
	t.Helper()
	menus := make([]*model.Menu, 0, depth)
	var parentID *uint
	for i := 0; i < depth; i++ {
		m := &model.Menu{MenuName: "菜单", ParentID: parentID, SortOrder: i, UseYn: model.UseYnActive}
		require.NoError(t, repo.Create(m))
		parentID = &m.MenuID
		menus = append(menus, m)
	}
	return menus
}

func TestMenuTreeClampsDeepLevels(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMenuRepository(db)
	svc := NewMenuService(repo)

	chain := chainMenus(t, repo, 5)

	roots, err := svc.GetTree(true)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	levels := map[uint]int{}
	var walk func(m *model.Menu)
	walk = func(m *model.Menu) {
		levels[m.MenuID] = m.MenuLevel
		for _, c := range m.Children {
			walk(c)
		}
	}
	walk(roots[0])

	assert.Equal(t, 1, levels[chain[0].MenuID])
	assert.Equal(t, 2, levels[chain[1].MenuID])
	assert.Equal(t, 3, levels[chain[2].MenuID])
	// 超过上限的层级被钳制，而不是报错或丢弃
	assert.Equal(t, model.MenuMaxLevel, levels[chain[3].MenuID])
	assert.Equal(t, model.MenuMaxLevel, levels[chain[4].MenuID])
	assert.Len(t, levels, 5)
}

func TestMenuTreeExcludesInactiveWhenRequested(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMenuRepository(db)
	svc := NewMenuService(repo)

	active := &model.Menu{MenuName: "首页", UseYn: model.UseYnActive}
	retired := &model.Menu{MenuName: "旧版报表", UseYn: model.UseYnInactive}
	require.NoError(t, repo.Create(active))
	require.NoError(t, repo.Create(retired))

	roots, err := svc.GetTree(true)
	require.NoError(t, err)
	assert.Len(t, roots, 1)

	all, err := svc.GetTree(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListParentCandidatesExcludesOwnSubtree(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMenuRepository(db)
	svc := NewMenuService(repo)

	chain := chainMenus(t, repo, 3)
	other := &model.Menu{MenuName: "独立菜单", UseYn: model.UseYnActive}
	require.NoError(t, repo.Create(other))

	// 以链条中间节点为目标：自身与其子节点都不能作为新父节点
	candidates, err := svc.ListParentCandidates(chain[1].MenuID)
	require.NoError(t, err)

	ids := make(map[uint]bool, len(candidates))
	for _, m := range candidates {
		ids[m.MenuID] = true
	}
	assert.True(t, ids[chain[0].MenuID])
	assert.False(t, ids[chain[1].MenuID])
	assert.False(t, ids[chain[2].MenuID])
	assert.True(t, ids[other.MenuID])
}

func TestDeleteMenuWithChildrenRejected(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMenuRepository(db)
	svc := NewMenuService(repo)

	chain := chainMenus(t, repo, 2)

	err := svc.DeleteMenu(chain[0].MenuID, "admin")
	assert.ErrorIs(t, err, ErrHasChildren)

	require.NoError(t, svc.DeleteMenu(chain[1].MenuID, "admin"))
	require.NoError(t, svc.DeleteMenu(chain[0].MenuID, "admin"))

	// 删除后仍可查到行，但已标记停用并记录操作人
	got, err := repo.FindByID(chain[0].MenuID)
	require.NoError(t, err)
	assert.Equal(t, model.UseYnInactive, got.UseYn)
	assert.Equal(t, "admin", got.UpdateUserID)
}
