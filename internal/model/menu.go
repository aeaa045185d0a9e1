package model

import "time"

// MenuMaxLevel 是菜单树允许的最大层级，更深的嵌套会被钳制到该层级。
const MenuMaxLevel = 3

// Menu 对应于数据库中的 'tb_menu_info' 表，表示门户导航菜单的一项。
type Menu struct {
	MenuID     uint   `gorm:"primaryKey;autoIncrement;column:menu_id" json:"menuId"`
	SystemCode string `gorm:"type:varchar(10)" json:"systemCode"`
	MenuName   string `gorm:"type:varchar(100);not null" json:"menuName"`
	Controller string `gorm:"type:varchar(100)" json:"controller"`
	Action     string `gorm:"type:varchar(100)" json:"action"`
	URL        string `gorm:"type:varchar(255);column:url" json:"url"`
	// ParentID 指向父菜单的 MenuID，NULL 表示一级菜单。
	ParentID  *uint  `gorm:"column:parent_id" json:"parentId"`
	Info      string `gorm:"type:varchar(1000)" json:"info"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
	UseYn     string `gorm:"type:char(1);not null;default:'Y'" json:"useYn"`

	CreateDate   time.Time  `gorm:"autoCreateTime" json:"createDate"`
	CreateUserID string     `gorm:"type:varchar(50);column:create_user_id" json:"createUserId"`
	UpdateDate   *time.Time `json:"updateDate"`
	UpdateUserID string     `gorm:"type:varchar(50);column:update_user_id" json:"updateUserId"`

	// --- 树结构辅助字段，仅在内存中填充 ---
	MenuLevel  int     `gorm:"-" json:"menuLevel"`
	Children   []*Menu `gorm:"-" json:"children,omitempty"`
	ChildCount int64   `gorm:"-" json:"childCount"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Menu) TableName() string {
	return "tb_menu_info"
}

// Link 返回菜单项的跳转地址：优先使用直接 URL，否则拼接 Controller/Action。
func (m *Menu) Link() string {
	if m.URL != "" {
		return m.URL
	}
	if m.Controller != "" && m.Action != "" {
		return "/" + m.Controller + "/" + m.Action
	}
	return "#"
}
