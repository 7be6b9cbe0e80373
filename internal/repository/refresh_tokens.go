package repository

import (
	"github.com/plateful/recipe-api/internal/models"
	"gorm.io/gorm"
)

type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error
	GetActiveByHash(hash string) (*models.RefreshToken, error)
	Revoke(token *models.RefreshToken) error
	RevokeByHash(hash string) error
}

type gormRefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &gormRefreshTokenRepository{db: db}
}

func (r *gormRefreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *gormRefreshTokenRepository) GetActiveByHash(hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.Where("token_hash = ? AND revoked = false", hash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *gormRefreshTokenRepository) Revoke(token *models.RefreshToken) error {
	return r.db.Model(token).Update("revoked", true).Error
}

func (r *gormRefreshTokenRepository) RevokeByHash(hash string) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hash).
		Update("revoked", true).Error
}
