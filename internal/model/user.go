// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// 使用与否标记，逻辑删除统一用这两个值表示。
const (
	UseYnActive   = "Y"
	UseYnInactive = "N"
)

// User 对应于数据库中的 'tb_user_info' 表，表示门户的登录账号。
type User struct {
	// UserID 是账号的唯一标识符（工号形式的字符串），作为主键。
	UserID string `gorm:"type:varchar(50);primaryKey;column:user_id" json:"userId"`
	// UserPwd 存储 bcrypt 哈希后的密码，绝不返回给前端。
	UserPwd  string `gorm:"type:varchar(100);not null" json:"-"`
	UserName string `gorm:"type:varchar(50);not null" json:"userName"`
	EmpNo    string `gorm:"type:varchar(20)" json:"empNo"`
	// CorCd/DeptCd/OfficeCd/TeamCd 为组织归属代码，引用公共代码与部门表。
	CorCd    string `gorm:"type:varchar(10)" json:"corCd"`
	DeptCd   string `gorm:"type:varchar(10)" json:"deptCd"`
	OfficeCd string `gorm:"type:varchar(10)" json:"officeCd"`
	TeamCd   string `gorm:"type:varchar(10)" json:"teamCd"`

	TelNo      string `gorm:"type:varchar(20)" json:"telNo"`
	MobPhoneNo string `gorm:"type:varchar(20)" json:"mobPhoneNo"`
	EmailAddr  string `gorm:"type:varchar(100)" json:"emailAddr"`
	// AdminFlag 为 true 时允许访问管理员路由。
	AdminFlag  bool   `gorm:"not null;default:false" json:"adminFlag"`
	RetireDate string `gorm:"type:varchar(10)" json:"retireDate"`

	RegDate      time.Time  `gorm:"autoCreateTime" json:"regDate"`
	RegUserID    string     `gorm:"type:varchar(50);column:reg_user_id" json:"regUserId"`
	UpdateDate   *time.Time `json:"updateDate"`
	UpdateUserID string     `gorm:"type:varchar(50);column:update_user_id" json:"updateUserId"`
	UseYn        string     `gorm:"type:char(1);not null;default:'Y'" json:"useYn"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (User) TableName() string {
	return "tb_user_info"
}

// UserSearch 表示用户列表页的检索条件，空字段不参与过滤。
type UserSearch struct {
	UserID   string `form:"userId"`
	UserName string `form:"userName"`
	CorCd    string `form:"corCd"`
	DeptCd   string `form:"deptCd"`
	TeamCd   string `form:"teamCd"`
}
