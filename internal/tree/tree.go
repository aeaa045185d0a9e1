// Package tree 将带父指针的扁平记录组装为内存中的多叉树。
// 部门、菜单、公共代码共用同一套组装逻辑，差异（主键类型、
// 根哨兵、层级上限）通过 Options 注入。
package tree

import (
	"fmt"
	"sort"
)

// DuplicateKeyError 表示输入序列中出现了重复的节点 ID。
type DuplicateKeyError struct {
	Key any
}

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("树构建失败: 节点 ID 重复 (%v)", e.Key)
}

// Options 描述如何从业务结构体中取出树所需的字段。
// T 通常是 *model.Dept 这类指针类型，ID 是主键类型。
type Options[T any, ID comparable] struct {
	// ID 返回节点的唯一标识。
	ID func(T) ID
	// ParentID 返回父节点标识；第二个返回值为 false 表示该节点声明自己为根
	// （parentId 为 NULL 或等于实体的无父哨兵值）。
	ParentID func(T) (ID, bool)
	// SortOrder 返回同级排序值，children 按其升序稳定排序。
	SortOrder func(T) int
	// AddChild 将 child 挂到 parent 的 children 序列末尾。
	AddChild func(parent, child T)
	// SetLevel 写入节点层级，根为 1。
	SetLevel func(T, int)
	// MaxLevel 大于 0 时，超出的层级被钳制为 MaxLevel 而不是报错。
	MaxLevel int
}

// Build 将扁平节点列表组装为根节点森林。
//
// 组装分四步：按 ID 建索引（重复 ID 返回 DuplicateKeyError）；
// 逐节点挂接，父 ID 缺失或在索引中不存在的节点一律提升为根
// （沿用原系统的宽容策略，孤儿不丢弃也不报错）；对产生过子节点的
// 节点按 SortOrder 稳定排序其 children；最后从每个根做深度优先遍历
// 写入层级。根列表本身也按 SortOrder 排序后返回。
//
// 输入默认无环；成环的数据会在层级遍历前就因为没有任何根而返回空森林，
// 不做显式检测。
func Build[T any, ID comparable](items []T, opts Options[T, ID]) ([]T, error) {
	index := make(map[ID]T, len(items))
	for _, it := range items {
		id := opts.ID(it)
		if _, exists := index[id]; exists {
			return nil, &DuplicateKeyError{Key: id}
		}
		index[id] = it
	}

	var roots []T
	childOf := make(map[ID][]T)
	for _, it := range items {
		pid, ok := opts.ParentID(it)
		if !ok {
			roots = append(roots, it)
			continue
		}
		if _, exists := index[pid]; !exists {
			// 悬空父引用：提升为根。
			roots = append(roots, it)
			continue
		}
		childOf[pid] = append(childOf[pid], it)
	}

	for pid, children := range childOf {
		sort.SliceStable(children, func(i, j int) bool {
			return opts.SortOrder(children[i]) < opts.SortOrder(children[j])
		})
		parent := index[pid]
		for _, c := range children {
			opts.AddChild(parent, c)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return opts.SortOrder(roots[i]) < opts.SortOrder(roots[j])
	})

	for _, root := range roots {
		stamp(root, 1, childOf, opts)
	}
	return roots, nil
}

// stamp 深度优先写入层级，必要时按 MaxLevel 钳制。
func stamp[T any, ID comparable](node T, level int, childOf map[ID][]T, opts Options[T, ID]) {
	if opts.MaxLevel > 0 && level > opts.MaxLevel {
		level = opts.MaxLevel
	}
	opts.SetLevel(node, level)
	for _, c := range childOf[opts.ID(node)] {
		stamp(c, level+1, childOf, opts)
	}
}
