// Package service 包含了应用的业务逻辑层。
package service

import "errors"

// 业务层的哨兵错误，handler 据此映射到对应的 HTTP 状态码。
var (
	// ErrInvalidCredentials 表示账号不存在或密码不匹配，对外不区分两者。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked 表示密码连续错误次数超限，账号临时锁定。
	ErrAccountLocked = errors.New("account temporarily locked")
	// ErrUserExists 表示要创建的账号 ID 已被占用。
	ErrUserExists = errors.New("user already exists")
	// ErrHasChildren 表示节点还有有效子节点，不允许删除。
	ErrHasChildren = errors.New("node has active children")
)
