package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
)

func seedCodeGroup(t *testing.T, repo repository.CommCodeRepository, group string, details ...string) *model.CommCode {
	t.Helper()
	root := &model.CommCode{CodeNm: group, ParentID: model.CommCodeRootParent, UseYn: model.UseYnActive}
	require.NoError(t, repo.Create(root))
	for i, name := range details {
		detail := &model.CommCode{
			CodeNm:   name,
			Code:     name,
			ParentID: root.CodeID,
			// 倒序的排序值，验证读取时按排序值重排
			SortOrder: len(details) - i,
			UseYn:     model.UseYnActive,
		}
		require.NoError(t, repo.Create(detail))
	}
	return root
}

func TestCommCodeTreeUsesSentinelRoot(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCommCodeRepository(db)
	svc := NewCommCodeService(repo)

	seedCodeGroup(t, repo, "PROC_STATUS", "REQ", "PROC", "DONE")
	seedCodeGroup(t, repo, "PRIORITY", "HIGH", "LOW")

	roots, err := svc.GetTree()
	require.NoError(t, err)
	require.Len(t, roots, 2)

	for _, root := range roots {
		assert.Equal(t, 1, root.CodeLevel)
		for _, c := range root.Children {
			assert.Equal(t, 2, c.CodeLevel)
		}
	}
	assert.Len(t, roots[0].Children, 3)
	assert.Len(t, roots[1].Children, 2)
}

func TestGetCodeGroupReturnsSortedDetails(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCommCodeRepository(db)
	svc := NewCommCodeService(repo)

	seedCodeGroup(t, repo, "PROC_STATUS", "REQ", "PROC", "DONE")

	codes, err := svc.GetCodeGroup("PROC_STATUS")
	require.NoError(t, err)
	require.Len(t, codes, 3)
	for i := 1; i < len(codes); i++ {
		assert.LessOrEqual(t, codes[i-1].SortOrder, codes[i].SortOrder)
	}
	// 排序值倒序写入后，读取按排序值升序：DONE(1), PROC(2), REQ(3)
	assert.Equal(t, "DONE", codes[0].CodeNm)

	_, err = svc.GetCodeGroup("NO_SUCH_GROUP")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteCodeWithChildrenRejected(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCommCodeRepository(db)
	svc := NewCommCodeService(repo)

	root := seedCodeGroup(t, repo, "PRIORITY", "HIGH")

	err := svc.DeleteCode(root.CodeID, "admin")
	assert.ErrorIs(t, err, ErrHasChildren)

	details, err := repo.FindByParentID(root.CodeID)
	require.NoError(t, err)
	require.Len(t, details, 1)

	require.NoError(t, svc.DeleteCode(details[0].CodeID, "admin"))
	require.NoError(t, svc.DeleteCode(root.CodeID, "admin"))
	_, err = repo.FindByID(root.CodeID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
