package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository defines persistence operations for linked OAuth accounts.
type AccountRepository interface {
	GetByProvider(ctx context.Context, provider, providerAccountID string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	ListByUser(ctx context.Context, userID uint) ([]models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new AccountRepository implementation.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByProvider(ctx context.Context, provider, providerAccountID string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	// Relinking the same provider identity is a no-op
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(account).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return accounts, nil
}
