package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"csr-portal-go/internal/model"
	"csr-portal-go/pkg/tasks"
)

// newTestDB 返回一个迁移好全部表结构的内存数据库。
// 每个测试使用独立的共享缓存命名空间，互不干扰。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.Corp{},
		&model.Dept{},
		&model.Menu{},
		&model.CommCode{},
		&model.Notice{},
		&model.NoticeFile{},
		&model.ReqInfo{},
		&model.ReqHist{},
		&model.ReqFile{},
		&model.AdminRel{},
	)
	require.NoError(t, err)
	return db
}

// memStore 是对象存储的内存实现，测试用。
type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(ctx context.Context, objectName string, reader io.Reader, size int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[objectName] = data
	return nil
}

func (s *memStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if _, ok := s.objects[objectName]; !ok {
		return "", fmt.Errorf("object not found: %s", objectName)
	}
	return "https://files.test.local/" + objectName, nil
}

func (s *memStore) Remove(ctx context.Context, objectName string) error {
	delete(s.objects, objectName)
	return nil
}

// captureProducer 记录投递过的审计任务，测试用。
type captureProducer struct {
	produced []tasks.ReqAuditTask
}

func (p *captureProducer) ProduceAuditTask(task tasks.ReqAuditTask) error {
	p.produced = append(p.produced, task)
	return nil
}

// upload 构造一个内存附件。
func upload(name, content string) FileUpload {
	return FileUpload{
		Filename: name,
		Size:     int64(len(content)),
		Reader:   bytes.NewReader([]byte(content)),
	}
}
