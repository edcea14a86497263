package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/model"
	"github.com/d60-Lab/cakeshop/internal/repository"
	"github.com/d60-Lab/cakeshop/pkg/jwtauth"
)

// AuthService 注册/登录，签发携带用户与角色的令牌。
// 核心业务只消费中间件解析出的调用方身份，不直接读会话
type AuthService struct {
	users  repository.UserRepository
	secret string
	expire time.Duration
}

func NewAuthService(users repository.UserRepository, secret string, expire time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, expire: expire}
}

// Register 创建客户账号
func (s *AuthService) Register(ctx context.Context, username, email, password, phone string) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		Password: string(hash),
		Phone:    phone,
		Role:     model.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验凭据并签发令牌
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := jwtauth.GenerateToken(s.secret, user.ID, user.Role, s.expire)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
