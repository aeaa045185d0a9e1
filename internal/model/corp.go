package model

// Corp 对应于数据库中的 'tb_cor_info' 表，表示一个法人（公司）主数据。
type Corp struct {
	CorCd    string `gorm:"type:varchar(10);primaryKey;column:cor_cd" json:"corCd"`
	CorNm    string `gorm:"type:varchar(100)" json:"corNm"`
	NationCd string `gorm:"type:varchar(10)" json:"nationCd"`
	CoinCd   string `gorm:"type:varchar(10)" json:"coinCd"`
	Language string `gorm:"type:varchar(10)" json:"language"`
	AccTitle string `gorm:"type:varchar(100)" json:"accTitle"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Corp) TableName() string {
	return "tb_cor_info"
}
