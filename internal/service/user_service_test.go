package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
	"csr-portal-go/pkg/hash"
	"csr-portal-go/pkg/token"
)

func newUserService(t *testing.T) (UserService, repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)
	jwtManager := token.NewJWTManager("test-secret", 1, 7)
	return NewUserService(repo, jwtManager), repo
}

func sampleUser(userID string) *model.User {
	return &model.User{
		UserID:   userID,
		UserName: "金开发",
		EmpNo:    "E" + userID,
		CorCd:    "C100",
		DeptCd:   "D200",
	}
}

func TestCreateUserRejectsDuplicateID(t *testing.T) {
	svc, _ := newUserService(t)

	require.NoError(t, svc.CreateUser(sampleUser("emp1001"), "secret-pass", "admin"))

	err := svc.CreateUser(sampleUser("emp1001"), "another-pass", "admin")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, repo := newUserService(t)

	require.NoError(t, svc.CreateUser(sampleUser("emp1001"), "secret-pass", "admin"))

	stored, err := repo.FindByID("emp1001")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass", stored.UserPwd)
	assert.True(t, hash.CheckPasswordHash("secret-pass", stored.UserPwd))
	assert.Equal(t, model.UseYnActive, stored.UseYn)
	assert.Equal(t, "admin", stored.RegUserID)
}

func TestChangePasswordValidatesOldPassword(t *testing.T) {
	svc, repo := newUserService(t)
	require.NoError(t, svc.CreateUser(sampleUser("emp1001"), "old-pass", "admin"))

	err := svc.ChangePassword("emp1001", "wrong-pass", "new-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword("emp1001", "old-pass", "new-pass"))
	stored, err := repo.FindByID("emp1001")
	require.NoError(t, err)
	assert.True(t, hash.CheckPasswordHash("new-pass", stored.UserPwd))
}

func TestDeactivateUserHidesFromActiveLookup(t *testing.T) {
	svc, repo := newUserService(t)
	require.NoError(t, svc.CreateUser(sampleUser("emp1001"), "secret-pass", "admin"))

	require.NoError(t, svc.DeactivateUser("emp1001", "admin"))

	_, err := svc.GetProfile("emp1001")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// 停用后再创建同名账号仍然冲突，账号 ID 不可复用
	err = svc.CreateUser(sampleUser("emp1001"), "secret-pass", "admin")
	assert.ErrorIs(t, err, ErrUserExists)

	stored, err := repo.FindByID("emp1001")
	require.NoError(t, err)
	assert.Equal(t, model.UseYnInactive, stored.UseYn)
}

func TestListUsersFiltersAndPaginates(t *testing.T) {
	svc, _ := newUserService(t)

	for i := 0; i < 12; i++ {
		u := sampleUser(fmt.Sprintf("emp10%02d", i))
		u.UserName = fmt.Sprintf("开发者%02d", i)
		if i < 4 {
			u.DeptCd = "D999"
		}
		require.NoError(t, svc.CreateUser(u, "secret-pass", "admin"))
	}
	// 停用的账号不出现在列表里
	require.NoError(t, svc.DeactivateUser("emp1011", "admin"))

	page, err := svc.ListUsers(model.UserSearch{}, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 5)

	last, err := svc.ListUsers(model.UserSearch{}, 3, 5)
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)

	byDept, err := svc.ListUsers(model.UserSearch{DeptCd: "D999"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), byDept.TotalCount)

	byKeyword, err := svc.ListUsers(model.UserSearch{UserName: "开发者03"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, byKeyword.Items, 1)
	assert.Equal(t, "emp1003", byKeyword.Items[0].UserID)
}
