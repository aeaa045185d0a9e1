package model

import "time"

// Notice 对应于数据库中的 'tb_notice' 表，表示一条门户公告。
type Notice struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"type:varchar(200);not null" json:"title"`
	// 富文本正文同时保存 HTML 与纯文本两份，纯文本用于检索与列表摘要。
	ContentsHTML string `gorm:"type:text;column:contents_html" json:"contentsHtml"`
	ContentsText string `gorm:"type:text;column:contents_text" json:"contentsText"`
	NoticeType   string `gorm:"type:varchar(10)" json:"noticeType"`
	CorCd        string `gorm:"type:varchar(10)" json:"corCd"`

	RegDate      time.Time  `gorm:"autoCreateTime" json:"regDate"`
	RegUserID    string     `gorm:"type:varchar(50);column:reg_user_id" json:"regUserId"`
	UpdateDate   *time.Time `json:"updateDate"`
	UpdateUserID string     `gorm:"type:varchar(50);column:update_user_id" json:"updateUserId"`
	UseYn        string     `gorm:"type:char(1);not null;default:'Y'" json:"useYn"`

	// AttachFiles 为公告的有效附件（useYn='Y'），查询时单独装配。
	AttachFiles []NoticeFile `gorm:"-" json:"attachFiles"`
	// RegUserName 为展示用的登记人姓名，列表查询时联表填充。
	RegUserName string `gorm:"-" json:"regUserName,omitempty"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Notice) TableName() string {
	return "tb_notice"
}

// NoticeFile 对应于数据库中的 'tb_notice_file' 表，表示公告附件的元数据。
// 物理文件存放在对象存储中，FilePath 为桶内相对路径。
type NoticeFile struct {
	FileID         uint      `gorm:"primaryKey;autoIncrement;column:file_id" json:"fileId"`
	NoticeID       uint      `gorm:"not null;index;column:notice_id" json:"noticeId"`
	UploadFilename string    `gorm:"type:varchar(255);not null" json:"uploadFilename"`
	RealFilename   string    `gorm:"type:varchar(255);not null" json:"realFilename"`
	FilePath       string    `gorm:"type:varchar(255);not null" json:"filePath"`
	RegDate        time.Time `gorm:"autoCreateTime" json:"regDate"`
	RegUserID      string    `gorm:"type:varchar(50);column:reg_user_id" json:"regUserId"`
	UseYn          string    `gorm:"type:char(1);not null;default:'Y'" json:"useYn"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (NoticeFile) TableName() string {
	return "tb_notice_file"
}
