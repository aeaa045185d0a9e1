package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
)

func newReqFixture(t *testing.T) (ReqService, repository.ReqRepository, *memStore, *captureProducer) {
	db := newTestDB(t)
	repo := repository.NewReqRepository(db)
	store := newMemStore()
	producer := &captureProducer{}
	return NewReqService(repo, store, producer), repo, store, producer
}

func sampleReq(title string) *model.ReqInfo {
	return &model.ReqInfo{
		ReqSnapshot: model.ReqSnapshot{
			Title:        title,
			ContentsHTML: "<p>需要开通外网 VPN 权限</p>",
			ContentsText: "需要开通外网 VPN 权限",
			ReqDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			ReqType:      "SR",
			SystemCd:     "PORTAL",
			ReqUserID:    "emp1001",
			PriorityCd:   "HIGH",
			ProcStatus:   "REQ",
			CorCd:        "C01",
			DeptCd:       "D01",
			OfficeCd:     "O01",
			TeamCd:       "T01",
		},
	}
}

func TestCreateReqWritesExactlyOneHistory(t *testing.T) {
	svc, _, store, producer := newReqFixture(t)
	ctx := context.Background()

	info := sampleReq("VPN access request")
	files := []FileUpload{
		upload("network-form.pdf", "form content"),
		upload("approval.png", "image bytes"),
	}
	require.NoError(t, svc.CreateReq(ctx, info, files, "emp1001"))
	require.NotZero(t, info.ReqID)

	got, err := svc.GetReq(info.ReqID)
	require.NoError(t, err)

	assert.Equal(t, "VPN access request", got.Title)
	assert.Equal(t, model.UseYnActive, got.UseYn)
	assert.Equal(t, "emp1001", got.RegUserID)

	// 恰好一条 Created 历史，内容是当时状态的完整镜像
	require.Len(t, got.History, 1)
	assert.Equal(t, model.ChangeTypeCreated, got.History[0].ChangeType)
	assert.Equal(t, got.ReqID, got.History[0].ReqID)
	assert.Equal(t, "VPN access request", got.History[0].Title)

	// 两个附件入库，物理对象写入对象存储，对象名不等于原始文件名
	require.Len(t, got.AttachFiles, 2)
	assert.Len(t, store.objects, 2)
	for _, f := range got.AttachFiles {
		assert.NotEmpty(t, f.FilePath)
		assert.NotEqual(t, f.UploadFilename, f.RealFilename)
		assert.Equal(t, got.History[0].HistoryID, f.HistoryID)
		_, ok := store.objects[f.FilePath]
		assert.True(t, ok)
	}

	// 提交后投递了一条审计任务
	require.Len(t, producer.produced, 1)
	assert.Equal(t, model.ChangeTypeCreated, producer.produced[0].ChangeType)
	assert.Equal(t, got.History[0].HistoryID, producer.produced[0].HistoryID)
}

func TestUpdateReqAppendsHistoryPerMutation(t *testing.T) {
	svc, _, _, producer := newReqFixture(t)
	ctx := context.Background()

	info := sampleReq("printer broken")
	require.NoError(t, svc.CreateReq(ctx, info, nil, "emp1001"))

	for i := 1; i <= 3; i++ {
		updated := sampleReq(fmt.Sprintf("printer broken rev%d", i))
		updated.ReqID = info.ReqID
		updated.ProcStatus = "PROC"
		require.NoError(t, svc.UpdateReq(ctx, updated, nil, nil, "emp2002"))
	}

	got, err := svc.GetReq(info.ReqID)
	require.NoError(t, err)

	// N 次更新 => N+1 条历史，最新在前
	require.Len(t, got.History, 4)
	assert.Equal(t, model.ChangeTypeUpdated, got.History[0].ChangeType)
	assert.Equal(t, "printer broken rev3", got.History[0].Title)
	assert.Equal(t, model.ChangeTypeCreated, got.History[3].ChangeType)
	assert.Equal(t, "printer broken", got.History[3].Title)

	// 当前态反映最后一次更新
	assert.Equal(t, "printer broken rev3", got.Title)
	assert.Equal(t, "PROC", got.ProcStatus)
	assert.Equal(t, "emp2002", got.UpdateUserID)
	require.NotNil(t, got.UpdateDate)

	assert.Len(t, producer.produced, 4)
}

func TestDeleteReqKeepsHistoryForAudit(t *testing.T) {
	svc, repo, _, producer := newReqFixture(t)
	ctx := context.Background()

	info := sampleReq("to be removed")
	require.NoError(t, svc.CreateReq(ctx, info, nil, "emp1001"))
	require.NoError(t, svc.DeleteReq(ctx, info.ReqID, "emp9999"))

	// 已删除的请求单仍可按编号读取，使用状态反映删除
	got, err := svc.GetReq(info.ReqID)
	require.NoError(t, err)
	assert.Equal(t, model.UseYnInactive, got.UseYn)
	assert.Equal(t, "emp9999", got.UpdateUserID)

	// 历史保留，终态快照带 Deleted 标记
	hists, err := repo.FindHistoryByReqID(info.ReqID)
	require.NoError(t, err)
	require.Len(t, hists, 2)
	assert.Equal(t, model.ChangeTypeDeleted, hists[0].ChangeType)
	assert.Equal(t, "emp9999", hists[0].RegUserID)

	// 重复删除返回未找到
	err = svc.DeleteReq(ctx, info.ReqID, "emp9999")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	assert.Len(t, producer.produced, 2)
}

func TestListReqsPagination(t *testing.T) {
	svc, _, _, _ := newReqFixture(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		info := sampleReq(fmt.Sprintf("ticket %02d", i))
		require.NoError(t, svc.CreateReq(ctx, info, nil, "emp1001"))
	}
	// 再插入一条删除的，不应计入
	deleted := sampleReq("deleted ticket")
	require.NoError(t, svc.CreateReq(ctx, deleted, nil, "emp1001"))
	require.NoError(t, svc.DeleteReq(ctx, deleted.ReqID, "emp1001"))

	page1, err := svc.ListReqs(model.ReqSearch{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, int64(25), page1.TotalCount)
	assert.Equal(t, 3, page1.TotalPages)

	page3, err := svc.ListReqs(model.ReqSearch{}, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page3.Items, 5)

	// 超出范围的页返回空列表而不是错误
	page4, err := svc.ListReqs(model.ReqSearch{}, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, page4.Items)
	assert.Equal(t, 3, page4.TotalPages)

	// 非法页码回退到第 1 页
	fallback, err := svc.ListReqs(model.ReqSearch{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.PageNumber)
	assert.Len(t, fallback.Items, 10)
}

func TestListReqsKeywordFilter(t *testing.T) {
	svc, _, _, _ := newReqFixture(t)
	ctx := context.Background()

	for _, title := range []string{"VPN access", "VPN renewal", "printer broken"} {
		require.NoError(t, svc.CreateReq(ctx, sampleReq(title), nil, "emp1001"))
	}

	result, err := svc.ListReqs(model.ReqSearch{Keyword: "VPN"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalCount)
	for _, item := range result.Items {
		assert.Contains(t, item.Title, "VPN")
	}
}

func TestUpdateReqRemovesFilesSoftly(t *testing.T) {
	svc, repo, store, _ := newReqFixture(t)
	ctx := context.Background()

	info := sampleReq("with attachment")
	require.NoError(t, svc.CreateReq(ctx, info, []FileUpload{upload("manual.docx", "doc")}, "emp1001"))

	got, err := svc.GetReq(info.ReqID)
	require.NoError(t, err)
	require.Len(t, got.AttachFiles, 1)
	fileID := got.AttachFiles[0].FileID
	objectName := got.AttachFiles[0].FilePath

	updated := sampleReq("with attachment")
	updated.ReqID = info.ReqID
	require.NoError(t, svc.UpdateReq(ctx, updated, nil, []uint{fileID}, "emp1001"))

	// 附件从有效列表消失，但行与物理对象保留
	after, err := svc.GetReq(info.ReqID)
	require.NoError(t, err)
	assert.Empty(t, after.AttachFiles)

	_, err = repo.FindFileByID(fileID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, stillThere := store.objects[objectName]
	assert.True(t, stillThere)
}
