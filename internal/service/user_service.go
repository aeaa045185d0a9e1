package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"csr-portal-go/internal/config"
	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
	"csr-portal-go/pkg/database"
	"csr-portal-go/pkg/hash"
	"csr-portal-go/pkg/log"
	"csr-portal-go/pkg/token"
)

// UserService 接口定义了所有与用户账号相关的业务操作。
type UserService interface {
	Login(userID, password string) (accessToken, refreshToken string, err error)
	Logout(tokenString string) error
	RefreshToken(refreshTokenString string) (newAccessToken, newRefreshToken string, err error)
	GetProfile(userID string) (*model.User, error)
	CreateUser(user *model.User, plainPassword, operator string) error
	UpdateUser(user *model.User, operator string) error
	ChangePassword(userID, oldPassword, newPassword string) error
	DeactivateUser(userID, operator string) error
	ListUsers(search model.UserSearch, pageNumber, pageSize int) (model.PagedResult[model.User], error)
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo   repository.UserRepository
	jwtManager *token.JWTManager
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository, jwtManager *token.JWTManager) UserService {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// missCountKey 是记录密码连续错误次数的 Redis key。
func missCountKey(userID string) string {
	return "login:miss:" + userID
}

// Login 处理登录：先检查锁定状态，再校验密码，错误累计到 Redis。
func (s *userService) Login(userID, password string) (accessToken, refreshToken string, err error) {
	ctx := context.Background()
	lockWindow := time.Duration(config.Conf.Login.LockMinutes) * time.Minute
	maxMiss := config.Conf.Login.MaxMissCount

	// 1. 锁定检查：窗口内错误次数达到上限则直接拒绝
	miss, redisErr := database.RDB.Get(ctx, missCountKey(userID)).Int()
	if redisErr == nil && maxMiss > 0 && miss >= maxMiss {
		return "", "", ErrAccountLocked
	}

	// 2. 查找有效用户
	user, err := s.userRepo.FindActiveByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}

	// 3. 验证密码，失败时累计错误计数并刷新窗口
	if !hash.CheckPasswordHash(password, user.UserPwd) {
		count, incErr := database.RDB.Incr(ctx, missCountKey(userID)).Result()
		if incErr == nil {
			_ = database.RDB.Expire(ctx, missCountKey(userID), lockWindow).Err()
			if maxMiss > 0 && count >= int64(maxMiss) {
				log.Warnf("账号 %s 密码连续错误 %d 次，临时锁定", userID, count)
			}
		}
		return "", "", ErrInvalidCredentials
	}

	// 4. 登录成功，清理错误计数
	_ = database.RDB.Del(ctx, missCountKey(userID)).Err()

	// 5. 生成 access token 和 refresh token
	accessToken, err = s.jwtManager.GenerateToken(user.UserID, user.UserName, user.AdminFlag)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.jwtManager.GenerateRefreshToken(user.UserID, user.UserName, user.AdminFlag)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// Logout 处理登出逻辑，将 token 加入 Redis 黑名单。
func (s *userService) Logout(tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		return err
	}
	// token 的剩余有效期将作为 Redis key 的过期时间。
	expiration := time.Until(claims.ExpiresAt.Time)
	return database.RDB.Set(context.Background(), "blacklist:"+tokenString, "true", expiration).Err()
}

// RefreshToken 校验 refresh token 并签发新的一对 token。
// 旧的 refresh token 会被加入黑名单，防止重放。
func (s *userService) RefreshToken(refreshTokenString string) (newAccessToken, newRefreshToken string, err error) {
	claims, err := s.jwtManager.VerifyToken(refreshTokenString)
	if err != nil {
		return "", "", err
	}

	// 黑名单中的 refresh token 不再接受
	exists, err := database.RDB.Exists(context.Background(), "blacklist:"+refreshTokenString).Result()
	if err == nil && exists > 0 {
		return "", "", errors.New("token has been revoked")
	}

	user, err := s.userRepo.FindActiveByID(claims.UserID)
	if err != nil {
		return "", "", err
	}

	newAccessToken, err = s.jwtManager.GenerateToken(user.UserID, user.UserName, user.AdminFlag)
	if err != nil {
		return "", "", err
	}
	newRefreshToken, err = s.jwtManager.GenerateRefreshToken(user.UserID, user.UserName, user.AdminFlag)
	if err != nil {
		return "", "", err
	}

	expiration := time.Until(claims.ExpiresAt.Time)
	_ = database.RDB.Set(context.Background(), "blacklist:"+refreshTokenString, "true", expiration).Err()

	return newAccessToken, newRefreshToken, nil
}

// GetProfile 根据账号 ID 获取用户详细信息。
func (s *userService) GetProfile(userID string) (*model.User, error) {
	return s.userRepo.FindActiveByID(userID)
}

// CreateUser 创建一个新账号，账号 ID 重复时返回 ErrUserExists。
func (s *userService) CreateUser(user *model.User, plainPassword, operator string) error {
	_, err := s.userRepo.FindByID(user.UserID)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := hash.HashPassword(plainPassword)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}
	user.UserPwd = hashed
	user.RegUserID = operator
	user.UseYn = model.UseYnActive

	return s.userRepo.Create(user)
}

// UpdateUser 更新账号基本信息，密码字段不在此处修改。
func (s *userService) UpdateUser(user *model.User, operator string) error {
	existing, err := s.userRepo.FindActiveByID(user.UserID)
	if err != nil {
		return err
	}

	existing.UserName = user.UserName
	existing.EmpNo = user.EmpNo
	existing.CorCd = user.CorCd
	existing.DeptCd = user.DeptCd
	existing.OfficeCd = user.OfficeCd
	existing.TeamCd = user.TeamCd
	existing.TelNo = user.TelNo
	existing.MobPhoneNo = user.MobPhoneNo
	existing.EmailAddr = user.EmailAddr
	existing.AdminFlag = user.AdminFlag
	existing.RetireDate = user.RetireDate

	now := time.Now()
	existing.UpdateDate = &now
	existing.UpdateUserID = operator

	return s.userRepo.Update(existing)
}

// ChangePassword 校验旧密码后更新为新密码的哈希。
func (s *userService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindActiveByID(userID)
	if err != nil {
		return err
	}
	if !hash.CheckPasswordHash(oldPassword, user.UserPwd) {
		return ErrInvalidCredentials
	}

	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}
	user.UserPwd = hashed

	now := time.Now()
	user.UpdateDate = &now
	user.UpdateUserID = userID

	return s.userRepo.Update(user)
}

// DeactivateUser 将账号标记为不可用（逻辑删除）。
func (s *userService) DeactivateUser(userID, operator string) error {
	user, err := s.userRepo.FindActiveByID(userID)
	if err != nil {
		return err
	}
	user.UseYn = model.UseYnInactive

	now := time.Now()
	user.UpdateDate = &now
	user.UpdateUserID = operator

	return s.userRepo.Update(user)
}

// ListUsers 按检索条件分页查询用户，页码从 1 开始。
func (s *userService) ListUsers(search model.UserSearch, pageNumber, pageSize int) (model.PagedResult[model.User], error) {
	pageNumber, pageSize = model.NormalizePage(pageNumber, pageSize)
	offset := (pageNumber - 1) * pageSize

	users, total, err := s.userRepo.FindWithPagination(search, offset, pageSize)
	if err != nil {
		return model.PagedResult[model.User]{}, err
	}
	return model.NewPagedResult(users, total, pageNumber, pageSize), nil
}
