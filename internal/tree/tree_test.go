package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// node 是测试用的最小树节点。
type node struct {
	id       uint
	parentID *uint
	order    int
	level    int
	children []*node
}

func uptr(v uint) *uint { return &v }

func testOptions(maxLevel int) Options[*node, uint] {
	return Options[*node, uint]{
		ID: func(n *node) uint { return n.id },
		ParentID: func(n *node) (uint, bool) {
			if n.parentID == nil {
				return 0, false
			}
			return *n.parentID, true
		},
		SortOrder: func(n *node) int { return n.order },
		AddChild: func(parent, child *node) {
			parent.children = append(parent.children, child)
		},
		SetLevel: func(n *node, level int) { n.level = level },
		MaxLevel: maxLevel,
	}
}

// countNodes 统计森林中的节点总数。
func countNodes(roots []*node) int {
	total := 0
	for _, r := range roots {
		total++
		total += countNodes(r.children)
	}
	return total
}

func TestBuildPreservesAllNodes(t *testing.T) {
	items := []*node{
		{id: 1, order: 1},
		{id: 2, parentID: uptr(1), order: 1},
		{id: 3, parentID: uptr(1), order: 2},
		{id: 4, parentID: uptr(2), order: 1},
		{id: 5, order: 2},
	}

	roots, err := Build(items, testOptions(0))
	require.NoError(t, err)

	assert.Len(t, roots, 2)
	assert.Equal(t, len(items), countNodes(roots))
	assert.Equal(t, uint(1), roots[0].id)
	assert.Len(t, roots[0].children, 2)
	assert.Len(t, roots[0].children[0].children, 1)
}

func TestBuildPromotesOrphansToRoot(t *testing.T) {
	// 节点 3 的父节点 99 不在输入中，应被提升为根而不是丢弃
	items := []*node{
		{id: 1, order: 1},
		{id: 2, parentID: uptr(1), order: 1},
		{id: 3, parentID: uptr(99), order: 2},
	}

	roots, err := Build(items, testOptions(0))
	require.NoError(t, err)

	require.Len(t, roots, 2)
	assert.Equal(t, 3, countNodes(roots))
	assert.Equal(t, uint(3), roots[1].id)
	assert.Equal(t, 1, roots[1].level)
}

func TestBuildSortsSiblingsBySortOrder(t *testing.T) {
	items := []*node{
		{id: 1, order: 5},
		{id: 2, parentID: uptr(1), order: 30},
		{id: 3, parentID: uptr(1), order: 10},
		{id: 4, parentID: uptr(1), order: 20},
	}

	roots, err := Build(items, testOptions(0))
	require.NoError(t, err)
	require.Len(t, roots, 1)

	children := roots[0].children
	require.Len(t, children, 3)
	for i := 1; i < len(children); i++ {
		assert.LessOrEqual(t, children[i-1].order, children[i].order)
	}
	assert.Equal(t, uint(3), children[0].id)
	assert.Equal(t, uint(4), children[1].id)
	assert.Equal(t, uint(2), children[2].id)
}

func TestBuildDuplicateIDFails(t *testing.T) {
	items := []*node{
		{id: 1, order: 1},
		{id: 1, order: 2},
	}

	roots, err := Build(items, testOptions(0))
	assert.Nil(t, roots)

	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, uint(1), dup.Key)
}

func TestBuildClampsLevelAtMaxLevel(t *testing.T) {
	// 五层链：1 <- 2 <- 3 <- 4 <- 5，上限 3 时第 4、5 层被钳制
	items := []*node{
		{id: 1, order: 1},
		{id: 2, parentID: uptr(1), order: 1},
		{id: 3, parentID: uptr(2), order: 1},
		{id: 4, parentID: uptr(3), order: 1},
		{id: 5, parentID: uptr(4), order: 1},
	}

	roots, err := Build(items, testOptions(3))
	require.NoError(t, err)
	require.Len(t, roots, 1)

	levels := map[uint]int{}
	var walk func(n *node)
	walk = func(n *node) {
		levels[n.id] = n.level
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(roots[0])

	assert.Equal(t, 1, levels[1])
	assert.Equal(t, 2, levels[2])
	assert.Equal(t, 3, levels[3])
	assert.Equal(t, 3, levels[4])
	assert.Equal(t, 3, levels[5])
}

// strNode 使用字符串主键，验证构建器对主键类型是通用的。
type strNode struct {
	code     string
	parent   string
	order    int
	level    int
	children []*strNode
}

func TestBuildWithStringIDs(t *testing.T) {
	items := []*strNode{
		{code: "HQ", order: 1},
		{code: "DEV", parent: "HQ", order: 1},
		{code: "QA", parent: "HQ", order: 2},
	}

	roots, err := Build(items, Options[*strNode, string]{
		ID: func(n *strNode) string { return n.code },
		ParentID: func(n *strNode) (string, bool) {
			return n.parent, n.parent != ""
		},
		SortOrder: func(n *strNode) int { return n.order },
		AddChild: func(parent, child *strNode) {
			parent.children = append(parent.children, child)
		},
		SetLevel: func(n *strNode, level int) { n.level = level },
	})
	require.NoError(t, err)

	require.Len(t, roots, 1)
	assert.Equal(t, "HQ", roots[0].code)
	require.Len(t, roots[0].children, 2)
	assert.Equal(t, "DEV", roots[0].children[0].code)
	assert.Equal(t, 2, roots[0].children[1].level)
}
