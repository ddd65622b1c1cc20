package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"lingo/logger"
	"lingo/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInsufficientBalance = NewError(http.StatusPaymentRequired, "INSUFFICIENT_BALANCE", errors.New("Insufficient wallet balance!"))

// PaymentRequest describes a purchase to authorize.
type PaymentRequest struct {
	UserID        uint
	Amount        float64
	ReferenceType string
	ReferenceID   uint
	ReferenceName string
}

// PaymentGateway authorizes purchases. Charge runs inside the caller's transaction so the
// charge and what it pays for commit together.
type PaymentGateway interface {
	Charge(ctx context.Context, tx *gorm.DB, req PaymentRequest) (paymentID string, err error)
}

// WalletService keeps user balances and is the default PaymentGateway.
type WalletService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWalletService(db *gorm.DB, log *logger.Logger) *WalletService {
	return &WalletService{db: db, log: log.With("service", "wallet")}
}

// Charge debits the user's wallet.
func (s *WalletService) Charge(ctx context.Context, tx *gorm.DB, req PaymentRequest) (string, error) {
	if tx == nil {
		tx = s.db
	}
	tx = tx.WithContext(ctx)
	if req.Amount <= 0 {
		return "", BadRequest("Amount must be positive!")
	}

	var user models.User
	if err := forUpdate(tx).Where("id = ? AND is_deleted = ?", req.UserID, false).First(&user).Error; err != nil {
		return "", notFoundOr(err, "User")
	}
	if user.MainBalance < req.Amount {
		return "", ErrInsufficientBalance
	}

	paymentID := "pay_" + uuid.NewString()
	if _, err := s.record(tx, &user, models.TransactionTypeCoursePurchase, -req.Amount, paymentID,
		fmt.Sprintf("Purchase of %s", req.ReferenceName), req); err != nil {
		return "", err
	}
	s.log.Info("wallet charged", "userId", req.UserID, "amount", req.Amount, "paymentId", paymentID)
	return paymentID, nil
}

// Deposit credits amount to the user's wallet.
func (s *WalletService) Deposit(ctx context.Context, userID uint, amount float64) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, BadRequest("Amount must be positive!")
	}
	var txn *models.WalletTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			return notFoundOr(err, "User")
		}
		var err error
		txn, err = s.record(tx, &user, models.TransactionTypeDeposit, amount, "dep_"+uuid.NewString(), "Wallet deposit", PaymentRequest{})
		return err
	})
	return txn, err
}

func (s *WalletService) record(tx *gorm.DB, user *models.User, kind models.TransactionType, delta float64, paymentID, description string, ref PaymentRequest) (*models.WalletTransaction, error) {
	before := user.MainBalance
	after := before + delta
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("main_balance", after).Error; err != nil {
		return nil, err
	}
	user.MainBalance = after

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	txn := models.WalletTransaction{
		UserID:          user.ID,
		TransactionType: kind,
		Amount:          amount,
		BalanceBefore:   before,
		BalanceAfter:    after,
		Status:          models.TransactionStatusCompleted,
		Description:     description,
		PaymentID:       paymentID,
		ReferenceType:   ref.ReferenceType,
		ReferenceID:     ref.ReferenceID,
		ReferenceName:   ref.ReferenceName,
		TransactionDate: now(),
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// Balance returns the user's wallet balance.
func (s *WalletService) Balance(ctx context.Context, userID uint) (float64, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return 0, notFoundOr(err, "User")
	}
	return user.MainBalance, nil
}

// History lists the user's wallet transactions, newest first.
func (s *WalletService) History(ctx context.Context, userID uint, p Page) (Paged[models.WalletTransaction], error) {
	q := s.db.WithContext(ctx).Model(&models.WalletTransaction{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	return paginate[models.WalletTransaction](q, p, "id DESC")
}
