package model

import "time"

// 历史记录的变更类型标记，消除原自由文本标签的歧义。
const (
	ChangeTypeCreated = "Created"
	ChangeTypeUpdated = "Updated"
	ChangeTypeDeleted = "Deleted"
)

// ReqSnapshot 是请求单的全部可变业务字段。
// 当前态表（tb_req_info）与历史表（tb_req_hist）共用这组字段，
// 保证每条历史都是当时状态的完整镜像。
type ReqSnapshot struct {
	// ParentID 指向上级请求单，NULL 表示独立请求。
	ParentID *uint  `gorm:"column:parent_id" json:"parentId"`
	Title    string `gorm:"type:varchar(50);not null" json:"title"`

	ContentsHTML string `gorm:"type:text;column:contents_html" json:"contentsHtml"`
	ContentsText string `gorm:"type:text;column:contents_text" json:"contentsText"`

	// ReqDate 为要求日（必填），其余日期在流转过程中逐步填入。
	ReqDate    time.Time  `gorm:"not null" json:"reqDate"`
	DueDate    *time.Time `json:"dueDate"`
	ExpectDate *time.Time `json:"expectDate"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`

	// 分类代码，取值来自公共代码表的对应代码组。
	ReqType    string `gorm:"type:varchar(10);not null" json:"reqType"`
	SystemCd   string `gorm:"type:varchar(10);not null" json:"systemCd"`
	ReqMenu    string `gorm:"type:varchar(50)" json:"reqMenu"`
	ReqMenuEtc string `gorm:"type:varchar(100)" json:"reqMenuEtc"`
	BxtID      string `gorm:"type:varchar(50);column:bxt_id" json:"bxtId"`

	// ReqUserID 为申请人，ResUserID 为处理担当。
	ReqUserID string `gorm:"type:varchar(50);not null;column:req_user_id" json:"reqUserId"`
	ResUserID string `gorm:"type:varchar(50);column:res_user_id" json:"resUserId"`

	ImptCd     string `gorm:"type:varchar(10)" json:"imptCd"`
	DfcltCd    string `gorm:"type:varchar(10)" json:"dfcltCd"`
	PriorityCd string `gorm:"type:varchar(10);not null" json:"priorityCd"`

	ManDay     *float64 `gorm:"column:man_day" json:"manDay"`
	ProcStatus string   `gorm:"type:varchar(10)" json:"procStatus"`
	ProcRate   *int     `json:"procRate"`

	AnswerHTML string `gorm:"type:text;column:answer_html" json:"answerHtml"`
	AnswerText string `gorm:"type:text;column:answer_text" json:"answerText"`

	DelayReasonHTML string `gorm:"type:text;column:delay_reason_html" json:"delayReasonHtml"`
	DelayReasonText string `gorm:"type:text;column:delay_reason_text" json:"delayReasonText"`

	// 申请时所属的组织代码。
	CorCd    string `gorm:"type:varchar(10);not null" json:"corCd"`
	DeptCd   string `gorm:"type:varchar(10);not null" json:"deptCd"`
	OfficeCd string `gorm:"type:varchar(10);not null" json:"officeCd"`
	TeamCd   string `gorm:"type:varchar(10);not null" json:"teamCd"`

	NoteHTML string `gorm:"type:text;column:note_html" json:"noteHtml"`
	NoteText string `gorm:"type:text;column:note_text" json:"noteText"`
}

// ReqInfo 对应于数据库中的 'tb_req_info' 表，表示一条请求单的当前态。
type ReqInfo struct {
	ReqID       uint `gorm:"primaryKey;autoIncrement;column:req_id" json:"reqId"`
	ReqSnapshot `gorm:"embedded"`

	RegDate      time.Time  `gorm:"autoCreateTime" json:"regDate"`
	RegUserID    string     `gorm:"type:varchar(50);not null;column:reg_user_id" json:"regUserId"`
	UpdateDate   *time.Time `json:"updateDate"`
	UpdateUserID string     `gorm:"type:varchar(50);column:update_user_id" json:"updateUserId"`
	UseYn        string     `gorm:"type:char(1);not null;default:'Y'" json:"useYn"`

	// AttachFiles 为有效附件，History 为按 HistoryID 降序的全部变更历史。
	// 两者均在查询时单独装配，不作为关联列持久化。
	AttachFiles []ReqFile `gorm:"-" json:"attachFiles"`
	History     []ReqHist `gorm:"-" json:"history"`

	// 展示用联表字段。
	ReqUserName    string `gorm:"-" json:"reqUserName,omitempty"`
	ResUserName    string `gorm:"-" json:"resUserName,omitempty"`
	SystemName     string `gorm:"-" json:"systemName,omitempty"`
	ProcStatusName string `gorm:"-" json:"procStatusName,omitempty"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ReqInfo) TableName() string {
	return "tb_req_info"
}

// ReqSearch 表示请求单列表页的检索条件，空字段不参与过滤。
type ReqSearch struct {
	Keyword    string `form:"keyword"`
	ProcStatus string `form:"procStatus"`
	ReqType    string `form:"reqType"`
	SystemCd   string `form:"systemCd"`
	ReqUserID  string `form:"reqUserId"`
	ResUserID  string `form:"resUserId"`
	CorCd      string `form:"corCd"`
}

// ReqHist 对应于数据库中的 'tb_req_hist' 表。
// 历史行只插入、不更新也不删除，按 HistoryID 即可还原时间顺序。
type ReqHist struct {
	HistoryID   uint `gorm:"primaryKey;autoIncrement;column:history_id" json:"historyId"`
	ReqID       uint `gorm:"not null;index;column:req_id" json:"reqId"`
	ReqSnapshot `gorm:"embedded"`

	// ChangeType 标记这条历史由哪类操作产生（Created/Updated/Deleted）。
	ChangeType string `gorm:"type:varchar(10);not null" json:"changeType"`
	// ReqHistory 为兼容旧版保留的自由文本说明。
	ReqHistory string `gorm:"type:varchar(1000)" json:"reqHistory"`

	RegDate   time.Time `gorm:"autoCreateTime" json:"regDate"`
	RegUserID string    `gorm:"type:varchar(50);not null;column:reg_user_id" json:"regUserId"`
	UseYn     string    `gorm:"type:char(1);not null;default:'Y'" json:"useYn"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ReqHist) TableName() string {
	return "tb_req_hist"
}

// ReqFile 对应于数据库中的 'tb_req_file' 表，表示请求单附件的元数据。
// HistoryID 记录文件上传时请求单所处的历史版本。
type ReqFile struct {
	FileID         uint      `gorm:"primaryKey;autoIncrement;column:file_id" json:"fileId"`
	ReqID          uint      `gorm:"not null;index;column:req_id" json:"reqId"`
	HistoryID      uint      `gorm:"not null;column:history_id" json:"historyId"`
	UploadFilename string    `gorm:"type:varchar(255);not null" json:"uploadFilename"`
	RealFilename   string    `gorm:"type:varchar(255);not null" json:"realFilename"`
	FilePath       string    `gorm:"type:varchar(255);not null" json:"filePath"`
	RegDate        time.Time `gorm:"autoCreateTime" json:"regDate"`
	RegUserID      string    `gorm:"type:varchar(50);column:reg_user_id" json:"regUserId"`
	UseYn          string    `gorm:"type:char(1);not null;default:'Y'" json:"useYn"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ReqFile) TableName() string {
	return "tb_req_file"
}
