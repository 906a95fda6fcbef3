package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/types"
)

type UserTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error)
	GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	DeleteByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (tr *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if err := transaction.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (tr *userTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.UserToken
	if err := transaction.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *userTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserToken{}).Error
}

func (tr *userTokenRepo) DeleteByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		Delete(&types.UserToken{}).Error
}
