package service

import (
	"backend/internal/gravatar"
	"backend/internal/mailer"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"
	"backend/pkg/token"
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"gorm.io/gorm"
)

// DTOs for Request validation
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=5,max=16"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse returns User data without exposing sensitive fields
type UserResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

type SignupResponse struct {
	User   UserResponse `json:"user"`
	Detail string       `json:"detail"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// AuthService defines the interface for authentication flows
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error)
	Login(ctx context.Context, username, password string) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	VerifyEmail(ctx context.Context, tokenString string) error
	UploadAvatar(ctx context.Context, user *model.User, file multipart.File, header *multipart.FileHeader) (*UserResponse, error)
}

type authService struct {
	users   repository.UserRepository
	txm     repository.TransactionManager
	tokens  *token.Service
	hasher  CredentialHasher
	mail    mailer.Mailer
	avatars gravatar.Client
	storage storage.AvatarStorage
	baseURL string
}

// CredentialHasher is the one-way password transform used at signup/login.
type CredentialHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// NewAuthService wires the authentication flows
func NewAuthService(
	users repository.UserRepository,
	txm repository.TransactionManager,
	tokens *token.Service,
	hasher CredentialHasher,
	mail mailer.Mailer,
	avatars gravatar.Client,
	avatarStorage storage.AvatarStorage,
	baseURL string,
) AuthService {
	return &authService{
		users:   users,
		txm:     txm,
		tokens:  tokens,
		hasher:  hasher,
		mail:    mail,
		avatars: avatars,
		storage: avatarStorage,
		baseURL: baseURL,
	}
}

// Helper: parse model to standard json API response
func mapUserToResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Avatar:     user.Avatar,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
	}

	// Duplicate check and insert run in one transaction; the unique indexes
	// remain the backstop for a concurrent signup racing the check.
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.users.GetByEmail(txCtx, req.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if _, err := s.users.GetByUsername(txCtx, req.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Best-effort avatar lookup, only once the signup is known to
		// proceed. Failure never blocks signup.
		if url, err := s.avatars.AvatarURL(txCtx, req.Email); err == nil {
			user.Avatar = url
		} else {
			log.Printf("Error fetching avatar for %s: %v", req.Email, err)
		}

		return s.users.Create(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	verifyToken, err := s.tokens.IssueEmailToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	verifyURL := fmt.Sprintf("%s/auth/verify-email?token=%s", s.baseURL, verifyToken)

	// Fire-and-forget: a mail outage must not fail the signup.
	go func(email, link string) {
		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mail.SendVerification(sendCtx, email, link); err != nil {
			log.Printf("Failed to send verification email to %s: %v", email, err)
		}
	}(user.Email, verifyURL)

	return &SignupResponse{
		User:   mapUserToResponse(user),
		Detail: "User successfully created. Please check your email to verify your account.",
	}, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	// The form field is named "username" but carries the account email;
	// fall back to username lookup so either identifier works.
	user, err := s.users.GetByEmail(ctx, username)
	if err != nil {
		user, err = s.users.GetByUsername(ctx, username)
	}
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	email, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidToken
	}

	newAccess, err := s.tokens.IssueAccessToken(email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	newRefresh, err := s.tokens.IssueRefreshToken(email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	rotated, err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, newRefresh)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// The presented token is stale or reused: treat as compromised,
		// clear the stored token so the user must log in again.
		if err := s.users.UpdateRefreshToken(ctx, user.ID, ""); err != nil {
			log.Printf("Failed to clear refresh token for user %d: %v", user.ID, err)
		}
		return nil, ErrInvalidToken
	}

	return &TokenResponse{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
		TokenType:    "bearer",
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, tokenString string) error {
	email, err := s.tokens.VerifyEmailToken(tokenString)
	if err != nil {
		return ErrInvalidVerification
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return ErrInvalidVerification
	}

	// Idempotent: verifying twice is harmless.
	return s.users.MarkVerified(ctx, user.ID)
}

func (s *authService) UploadAvatar(ctx context.Context, user *model.User, file multipart.File, header *multipart.FileHeader) (*UserResponse, error) {
	url, err := s.storage.UploadAvatar(ctx, file, header)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateAvatar(ctx, user.ID, url); err != nil {
		return nil, err
	}

	user.Avatar = url
	resp := mapUserToResponse(user)
	return &resp, nil
}
