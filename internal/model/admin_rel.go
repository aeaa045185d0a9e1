package model

import "time"

// AdminRel 对应于数据库中的 'tb_admin_rel' 表，记录用户对菜单的管理担当关系。
type AdminRel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string `gorm:"type:varchar(50);not null;index;column:user_id" json:"userId"`
	MenuID   uint   `gorm:"not null;index;column:menu_id" json:"menuId"`
	RoleType string `gorm:"type:varchar(10);not null;default:'MAIN'" json:"roleType"`

	RegDate   time.Time `gorm:"autoCreateTime" json:"regDate"`
	RegUserID string    `gorm:"type:varchar(50);column:reg_user_id" json:"regUserId"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (AdminRel) TableName() string {
	return "tb_admin_rel"
}
