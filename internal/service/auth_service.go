package service

import (
	"context"
	"strconv"
	"time"

	"github.com/ayxworxfr/go_blog/internal/dao"
	"github.com/ayxworxfr/go_blog/internal/domain/models"
	"github.com/ayxworxfr/go_blog/internal/domain/params"
	"github.com/ayxworxfr/go_blog/internal/domain/vo"
	"github.com/ayxworxfr/go_blog/pkg/jwtauth"
	"github.com/ayxworxfr/go_blog/pkg/logger"
	"github.com/ayxworxfr/go_blog/pkg/paging"
	"github.com/ayxworxfr/go_blog/pkg/repository"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// 账号状态
const (
	PersonStatusBanned = 0
	PersonStatusActive = 1
)

// AuthService 认证服务 - 负责作者账号和令牌管理
type AuthService struct {
	personRepo repository.Repository[models.Person]
}

// NewAuthService 创建认证服务实例
func NewAuthService() *AuthService {
	return &AuthService{
		personRepo: dao.PersonRepo,
	}
}

// Register 注册新作者
func (s *AuthService) Register(ctx context.Context, req *params.RegisterPersonRequest) (*vo.Person, error) {
	person := &models.Person{
		Username:     req.Username,
		PrimaryEmail: req.PrimaryEmail,
		Password:     req.Password,
		Status:       PersonStatusActive,
	}
	person.EncryptPassword()

	if err := s.personRepo.Create(ctx, person); err != nil {
		logger.Error(ctx, "Failed to register person", zap.Error(err), zap.String("username", req.Username))
		return nil, errors.Wrap(err, "failed to register person")
	}

	logger.Info(ctx, "Person registered", zap.Uint64("person_id", person.ID), zap.String("username", person.Username))

	var result vo.Person
	if err := copier.Copy(&result, person); err != nil {
		return nil, errors.Wrap(err, "failed to copy person to result")
	}
	return &result, nil
}

// Login 作者登录
func (s *AuthService) Login(ctx context.Context, username, password string) (*vo.TokenResponse, error) {
	query := models.Person{Username: username}
	person, err := s.personRepo.Find(ctx, &query)
	if err != nil {
		logger.Error(ctx, "Login failed", zap.Error(err), zap.String("username", username))
		return nil, errors.New("invalid credentials")
	}

	// 校验密码
	if !person.Verify(password) {
		logger.Warn(ctx, "Invalid password", zap.String("username", username))
		return nil, errors.New("invalid credentials")
	}

	if person.Status != PersonStatusActive {
		logger.Warn(ctx, "Banned person login attempt", zap.String("username", username))
		return nil, errors.New("account is banned")
	}

	tokenInfo, err := jwtauth.Instance.GenerateToken(
		strconv.FormatUint(person.ID, 10),
		person.Username,
	)
	if err != nil {
		logger.Error(ctx, "Failed to generate token", zap.Error(err), zap.Uint64("person_id", person.ID))
		return nil, errors.Wrap(err, "failed to generate token")
	}

	// 记录最近登录时间，失败不影响登录
	person.LastLoginTime = time.Now()
	if err := s.personRepo.Update(ctx, person); err != nil {
		logger.Warn(ctx, "Failed to record login time", zap.Error(err), zap.Uint64("person_id", person.ID))
	}

	logger.Info(ctx, "Login successful", zap.String("username", person.Username))
	return &vo.TokenResponse{
		AccessToken:  tokenInfo.AccessToken,
		RefreshToken: tokenInfo.RefreshToken,
		ExpiresAt:    tokenInfo.ExpiresAt,
	}, nil
}

// RefreshToken 刷新令牌
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*vo.TokenResponse, error) {
	if refreshToken == "" {
		return nil, errors.New("refresh token is required")
	}

	newToken, err := jwtauth.Instance.RefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid refresh token")
	}

	return &vo.TokenResponse{
		AccessToken:  newToken.AccessToken,
		RefreshToken: newToken.RefreshToken,
		ExpiresAt:    newToken.ExpiresAt,
	}, nil
}

// GetPerson 获取单个作者
func (s *AuthService) GetPerson(ctx context.Context, id uint64) (*vo.Person, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve person", zap.Error(err), zap.Uint64("person_id", id))
		return nil, errors.Wrap(err, "failed to retrieve person")
	}

	var result vo.Person
	if err := copier.Copy(&result, person); err != nil {
		return nil, errors.Wrap(err, "failed to copy person to result")
	}
	return &result, nil
}

// GetPersonList 获取作者列表，按用户名升序
func (s *AuthService) GetPersonList(ctx context.Context, req *params.GetPersonListRequest) ([]vo.Person, int64, error) {
	page := paging.ToPageable(req.RequestedPage).
		WithSort(paging.By("username"))

	persons, total, err := s.personRepo.FindPage(ctx, req, page)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve persons", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve persons")
	}

	var result []vo.Person
	if err := copier.Copy(&result, &persons); err != nil {
		return nil, 0, errors.Wrap(err, "failed to copy persons to result")
	}
	return result, total, nil
}
