package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/repos"
	"github.com/victorgraciaweb/greelow-backend/internal/requestdata"
	"github.com/victorgraciaweb/greelow-backend/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AuthService interface {
	Register(ctx context.Context, email, fullName, password string) (*types.User, string, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, email, fullName, password string) (*types.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", "", ErrInvalidCredentials
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if exists {
		return nil, "", "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(fullName),
		Roles:    []string{types.RoleMember},
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		var issueErr error
		accessToken, refreshToken, issueErr = as.issueTokens(ctx, tx, user)
		return issueErr
	})
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("failed to clear previous tokens: %w", err)
		}
		var issueErr error
		accessToken, refreshToken, issueErr = as.issueTokens(ctx, tx, user)
		return issueErr
	})
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	existing, err := as.userTokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidToken
		}
		return "", "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if existing.ExpiresAt.Before(time.Now()) {
		_ = as.userTokenRepo.DeleteByRefreshToken(ctx, nil, refreshToken)
		return "", "", ErrInvalidToken
	}

	user, err := as.userRepo.GetByID(ctx, nil, existing.UserID)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	var accessToken, newRefreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByRefreshToken(ctx, tx, refreshToken); err != nil {
			return fmt.Errorf("failed to rotate refresh token: %w", err)
		}
		var issueErr error
		accessToken, newRefreshToken, issueErr = as.issueTokens(ctx, tx, user)
		return issueErr
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrInvalidToken
	}
	return as.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID)
}

// SetContextFromToken verifies the JWT and attaches the principal to the
// context for downstream services.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	var roles []string
	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range rawRoles {
			if role, ok := r.(string); ok {
				roles = append(roles, role)
			}
		}
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Email:       email,
		Roles:       roles,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (string, string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"roles": user.Roles,
		"iat":   now.Unix(),
		"exp":   now.Add(as.accessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken := uuid.New().String()
	userToken := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, userToken); err != nil {
		return "", "", fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}
