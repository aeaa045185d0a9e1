package model

import "time"

// NoticeDoc 是写入 Elasticsearch 公告索引的文档结构，用于全文检索。
type NoticeDoc struct {
	NoticeID     uint      `json:"notice_id"`
	Title        string    `json:"title"`
	ContentsText string    `json:"contents_text"`
	NoticeType   string    `json:"notice_type"`
	CorCd        string    `json:"cor_cd"`
	RegUserID    string    `json:"reg_user_id"`
	RegDate      time.Time `json:"reg_date"`
}

// ReqAuditDoc 是写入 Elasticsearch 审计索引的文档结构。
// 每条请求单历史（ReqHist）对应一条审计文档，由后台管道异步写入。
type ReqAuditDoc struct {
	HistoryID  uint      `json:"history_id"`
	ReqID      uint      `json:"req_id"`
	ChangeType string    `json:"change_type"`
	Title      string    `json:"title"`
	ProcStatus string    `json:"proc_status"`
	Operator   string    `json:"operator"`
	ChangedAt  time.Time `json:"changed_at"`
}
