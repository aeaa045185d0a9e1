package model

import "time"

// CommCodeRootParent 是公共代码树中"无父节点"的哨兵值。
const CommCodeRootParent uint = 0

// CommCode 对应于数据库中的 'tb_comm_code' 表。
// 公共代码按代码组分层：组行的 ParentID 为 0，组内明细行指向组行。
type CommCode struct {
	CodeID uint `gorm:"primaryKey;autoIncrement;column:code_id" json:"codeId"`
	// ParentID 为 0 表示顶级代码组，非 0 时指向上级代码行。
	ParentID  uint   `gorm:"not null;default:0;column:parent_id" json:"parentId"`
	CodeNm    string `gorm:"type:varchar(50);not null" json:"codeNm"`
	Code      string `gorm:"type:varchar(20)" json:"code"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
	Note      string `gorm:"type:varchar(1000)" json:"note"`
	UseYn     string `gorm:"type:char(1);not null;default:'Y'" json:"useYn"`

	RegDate      time.Time  `gorm:"autoCreateTime" json:"regDate"`
	RegUserID    string     `gorm:"type:varchar(50);column:reg_user_id" json:"regUserId"`
	UpdateDate   *time.Time `json:"updateDate"`
	UpdateUserID string     `gorm:"type:varchar(50);column:update_user_id" json:"updateUserId"`

	// --- 树结构辅助字段，仅在内存中填充 ---
	CodeLevel int         `gorm:"-" json:"codeLevel"`
	Children  []*CommCode `gorm:"-" json:"children,omitempty"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (CommCode) TableName() string {
	return "tb_comm_code"
}
