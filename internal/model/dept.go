package model

// Dept 对应于数据库中的 'tb_dept_info' 表。
// 部门通过 ParentID 形成邻接表，树结构在内存中按需组装，不落库。
type Dept struct {
	DeptID   uint   `gorm:"primaryKey;autoIncrement;column:dept_id" json:"deptId"`
	DeptCd   string `gorm:"type:varchar(10)" json:"deptCd"`
	// ParentID 指向父部门的 DeptID。使用指针以接受 NULL 值，表示顶级部门。
	ParentID  *uint  `gorm:"column:parent_id" json:"parentId"`
	DeptName  string `gorm:"type:varchar(100);not null" json:"deptName"`
	CorCd     string `gorm:"type:varchar(10);not null" json:"corCd"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
	Note      string `gorm:"type:varchar(1000)" json:"note"`
	UseYn     string `gorm:"type:char(1);not null;default:'Y'" json:"useYn"`

	// --- 树结构辅助字段，仅在内存中填充 ---
	DeptLevel  int     `gorm:"-" json:"deptLevel"`
	Children   []*Dept `gorm:"-" json:"children,omitempty"`
	ChildCount int64   `gorm:"-" json:"childCount"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Dept) TableName() string {
	return "tb_dept_info"
}
