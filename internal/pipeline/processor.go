// Package pipeline 定义了审计任务的后台处理流程。
package pipeline

import (
	"context"

	"csr-portal-go/internal/model"
	"csr-portal-go/pkg/es"
	"csr-portal-go/pkg/log"
	"csr-portal-go/pkg/tasks"
)

// Processor 消费请求单审计任务，将变更历史写入审计索引。
type Processor struct {
	indexer es.Indexer
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(indexer es.Indexer) *Processor {
	return &Processor{indexer: indexer}
}

// Process 是审计任务处理的主函数。
// 索引写入以历史主键为文档 ID，重复消费同一条任务是幂等的。
func (p *Processor) Process(ctx context.Context, task tasks.ReqAuditTask) error {
	log.Infof("[Processor] 开始处理审计任务, HistoryID: %d, ReqID: %d, ChangeType: %s",
		task.HistoryID, task.ReqID, task.ChangeType)

	doc := model.ReqAuditDoc{
		HistoryID:  task.HistoryID,
		ReqID:      task.ReqID,
		ChangeType: task.ChangeType,
		Title:      task.Title,
		ProcStatus: task.ProcStatus,
		Operator:   task.Operator,
		ChangedAt:  task.ChangedAt,
	}
	if err := p.indexer.IndexAudit(ctx, doc); err != nil {
		log.Errorf("[Processor] 审计文档写入失败, HistoryID: %d, error: %v", task.HistoryID, err)
		return err
	}

	log.Infof("[Processor] 审计任务处理完成, HistoryID: %d", task.HistoryID)
	return nil
}
