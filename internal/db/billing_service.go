package db

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

// BillingRequest holds the data needed to issue a billing account
type BillingRequest struct {
	ClientID uint       `json:"client_id" binding:"required"`
	Concept  string     `json:"concept" binding:"required"`
	Amount   float64    `json:"amount"`
	Currency string     `json:"currency"`
	DueDate  *time.Time `json:"due_date"`
}

// CreateBillingAccount issues a pending billing account for a client
func CreateBillingAccount(ctx context.Context, req BillingRequest) (*models.BillingAccount, error) {
	req.Concept = strings.TrimSpace(req.Concept)
	if req.Concept == "" {
		return nil, apperrors.NewValidationError("billing concept cannot be empty", nil)
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewInvalidInputError("amount", req.Amount, "must be positive")
	}
	if ok, err := exists[models.Client](ctx, req.ClientID); err != nil {
		return nil, apperrors.NewDatabaseError("check client", err)
	} else if !ok {
		return nil, apperrors.NewNotFoundError("client", req.ClientID)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "COP"
	}

	account := models.BillingAccount{
		ClientID: req.ClientID,
		Concept:  req.Concept,
		Amount:   req.Amount,
		Currency: currency,
		Status:   models.BillingPending,
		IssuedAt: Clock.Now(),
		DueDate:  req.DueDate,
	}
	if err := DB.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, apperrors.NewDatabaseError("create billing account", err)
	}
	return &account, nil
}

// BillingQueryOptions narrows GetBillingAccounts
type BillingQueryOptions struct {
	ClientID *uint
	Status   string
}

// GetBillingAccounts lists billing accounts newest first
func GetBillingAccounts(ctx context.Context, opts BillingQueryOptions) ([]models.BillingAccount, error) {
	q := DB.WithContext(ctx).Preload("Client").Order("issued_at DESC")
	if opts.ClientID != nil {
		q = q.Where("client_id = ?", *opts.ClientID)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}
	var accounts []models.BillingAccount
	if err := q.Find(&accounts).Error; err != nil {
		return nil, apperrors.NewDatabaseError("list billing accounts", err)
	}
	return accounts, nil
}

// GetBillingAccountByID loads one billing account with its client
func GetBillingAccountByID(ctx context.Context, id uint) (*models.BillingAccount, error) {
	return getByID[models.BillingAccount](ctx, "billing account", id, "Client")
}

// MarkBillingPaid records payment of a billing account
func MarkBillingPaid(ctx context.Context, id uint) (*models.BillingAccount, error) {
	account, err := getByID[models.BillingAccount](ctx, "billing account", id)
	if err != nil {
		return nil, err
	}
	if account.Status == models.BillingPaid {
		return nil, apperrors.NewConflictError("billing account is already paid").WithContext("id", id)
	}
	now := Clock.Now()
	account.Status = models.BillingPaid
	account.PaidAt = &now
	if err := DB.WithContext(ctx).Save(account).Error; err != nil {
		return nil, apperrors.NewDatabaseError("mark billing paid", err)
	}
	return account, nil
}

// MarkOverdueBilling flags pending accounts whose due date has passed and
// returns how many changed
func MarkOverdueBilling(ctx context.Context) (int64, error) {
	res := DB.WithContext(ctx).Model(&models.BillingAccount{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", models.BillingPending, Clock.Now()).
		Update("status", models.BillingOverdue)
	if res.Error != nil {
		return 0, apperrors.NewDatabaseError("mark overdue billing", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteBillingAccount removes a billing account
func DeleteBillingAccount(ctx context.Context, id uint) error {
	return deleteByID[models.BillingAccount](ctx, "billing account", id)
}
