// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"csr-portal-go/internal/config"
	"csr-portal-go/internal/model"
	"csr-portal-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Indexer 是业务层依赖的文档库抽象：公告全文检索与请求单审计日志。
type Indexer interface {
	IndexNotice(ctx context.Context, doc model.NoticeDoc) error
	DeleteNotice(ctx context.Context, noticeID uint) error
	SearchNotices(ctx context.Context, keyword string, size int) ([]model.NoticeDoc, error)
	IndexAudit(ctx context.Context, doc model.ReqAuditDoc) error
}

// Client 是 Indexer 的 Elasticsearch 实现。
type Client struct {
	es          *elasticsearch.Client
	noticeIndex string
	auditIndex  string
}

// noticeMapping 公告索引：标题与正文参与全文检索，其余为过滤字段。
const noticeMapping = `{
	"mappings": {
		"properties": {
			"notice_id": { "type": "long" },
			"title": { "type": "text" },
			"contents_text": { "type": "text" },
			"notice_type": { "type": "keyword" },
			"cor_cd": { "type": "keyword" },
			"reg_user_id": { "type": "keyword" },
			"reg_date": { "type": "date" }
		}
	}
}`

// auditMapping 审计索引：一条请求单历史对应一条文档。
const auditMapping = `{
	"mappings": {
		"properties": {
			"history_id": { "type": "long" },
			"req_id": { "type": "long" },
			"change_type": { "type": "keyword" },
			"title": { "type": "text" },
			"proc_status": { "type": "keyword" },
			"operator": { "type": "keyword" },
			"changed_at": { "type": "date" }
		}
	}
}`

// InitES 初始化 Elasticsearch 客户端，并确保公告与审计两个索引存在。
func InitES(esCfg config.ElasticsearchConfig) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	raw, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{es: raw, noticeIndex: esCfg.NoticeIndex, auditIndex: esCfg.AuditIndex}

	if err := c.createIndexIfNotExists(esCfg.NoticeIndex, noticeMapping); err != nil {
		return nil, err
	}
	if err := c.createIndexIfNotExists(esCfg.AuditIndex, auditMapping); err != nil {
		return nil, err
	}
	return c, nil
}

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它。
func (c *Client) createIndexIfNotExists(indexName, mapping string) error {
	res, err := c.es.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("检查索引 '%s' 是否存在时收到意外的状态码: %d", indexName, res.StatusCode)
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	res, err = c.es.Indices.Create(
		indexName,
		c.es.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// indexDocument 以指定文档 ID 写入一条文档。
func (c *Client) indexDocument(ctx context.Context, indexName, docID string, doc any) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: docID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("索引文档到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index document")
	}
	return nil
}

// IndexNotice 将公告写入（或覆盖）公告索引，文档 ID 为公告主键。
func (c *Client) IndexNotice(ctx context.Context, doc model.NoticeDoc) error {
	return c.indexDocument(ctx, c.noticeIndex, strconv.FormatUint(uint64(doc.NoticeID), 10), doc)
}

// DeleteNotice 从公告索引中移除一条文档，公告软删后调用。
func (c *Client) DeleteNotice(ctx context.Context, noticeID uint) error {
	req := esapi.DeleteRequest{
		Index:      c.noticeIndex,
		DocumentID: strconv.FormatUint(uint64(noticeID), 10),
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// 404 视为已删除。
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("删除公告文档失败: %s", res.String())
	}
	return nil
}

// SearchNotices 对公告索引做标题/正文的 multi_match 检索。
func (c *Client) SearchNotices(ctx context.Context, keyword string, size int) ([]model.NoticeDoc, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  keyword,
				"fields": []string{"title^2", "contents_text"},
			},
		},
		"size": size,
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.noticeIndex),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("检索公告失败: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source model.NoticeDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	docs := make([]model.NoticeDoc, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		docs = append(docs, h.Source)
	}
	return docs, nil
}

// IndexAudit 将一条请求单变更历史写入审计索引，文档 ID 为历史主键。
func (c *Client) IndexAudit(ctx context.Context, doc model.ReqAuditDoc) error {
	return c.indexDocument(ctx, c.auditIndex, strconv.FormatUint(uint64(doc.HistoryID), 10), doc)
}
