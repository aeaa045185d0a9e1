// Package tasks 定义了在消息队列中传递的异步任务结构。
package tasks

import "time"

// ReqAuditTask 是请求单变更产生的审计任务。
// 每条变更历史在事务提交后投递一条任务，由后台管道写入审计索引。
type ReqAuditTask struct {
	HistoryID  uint      `json:"history_id"`
	ReqID      uint      `json:"req_id"`
	ChangeType string    `json:"change_type"`
	Title      string    `json:"title"`
	ProcStatus string    `json:"proc_status"`
	Operator   string    `json:"operator"`
	ChangedAt  time.Time `json:"changed_at"`
}
