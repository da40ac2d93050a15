package service

import (
	"context"
	"errors"
	"time"

	"github.com/SergeiKhy/url-shortener/internal/models"
	"github.com/SergeiKhy/url-shortener/internal/repository"
	"go.uber.org/zap"
)

// Ошибки сервиса аутентификации
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInvite      = errors.New("invitation code is invalid")
)

// AuthResult — результат успешного входа или регистрации
type AuthResult struct {
	User  *models.User
	Token string
}

// AuthService — регистрация по коду приглашения и вход по паролю
type AuthService interface {
	SignUp(ctx context.Context, email, password, inviteCode string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type authService struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteRepository
	hasher     PasswordHasher
	tokens     TokenService
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	inviteRepo repository.InviteRepository,
	hasher PasswordHasher,
	tokens TokenService,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		hasher:     hasher,
		tokens:     tokens,
		logger:     logger,
	}
}

// SignUp регистрирует пользователя: гасит код приглашения, хеширует пароль,
// создаёт запись и выпускает токен сессии
func (s *authService) SignUp(ctx context.Context, email, password, inviteCode string) (*AuthResult, error) {
	if err := s.inviteRepo.Claim(ctx, inviteCode); err != nil {
		if errors.Is(err, repository.ErrInviteInvalid) {
			return nil, ErrInvalidInvite
		}
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("email", user.Email))

	return &AuthResult{User: user, Token: token}, nil
}

// Login проверяет пароль и выпускает токен сессии.
// Неизвестный email и неверный пароль дают одну и ту же ошибку,
// чтобы не раскрывать существование аккаунта.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}
