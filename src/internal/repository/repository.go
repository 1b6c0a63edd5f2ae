package repository

import (
	"context"
	"time"

	"earnings-service/src/internal/entity"
	"earnings-service/src/pkg/databases/mysql"
)

// Store interfaces consumed by the usecase layer. Transactional methods take
// a mysql.Executor so they participate in the caller's unit of work.

type ReceiptStore interface {
	FindByTripID(ctx context.Context, ex mysql.Executor, tripID string) (*entity.TripReceipt, error)
	Insert(ctx context.Context, ex mysql.Executor, receipt *entity.TripReceipt) error
	MarkSettled(ctx context.Context, ex mysql.Executor, receiptID string, processedAt time.Time) error
}

type WalletStore interface {
	EnsureWallet(ctx context.Context, ex mysql.Executor, driverID string) (*entity.DriverWallet, error)
	FindByDriverID(ctx context.Context, ex mysql.Executor, driverID string) (*entity.DriverWallet, error)
	ApplyTripTotals(ctx context.Context, ex mysql.Executor, walletID string, driverNet, earnedDelta, commissionDelta, bonusDelta int64) error
	ApplyQuestBonus(ctx context.Context, ex mysql.Executor, walletID string, amount int64) error
}

type LedgerStore interface {
	Insert(ctx context.Context, ex mysql.Executor, txn *entity.DriverWalletTransaction) error
	ListByDriver(ctx context.Context, ex mysql.Executor, driverID string, limit, offset int) ([]entity.DriverWalletTransaction, error)
	SumAmounts(ctx context.Context, ex mysql.Executor, driverID string) (int64, error)
	EarningsSince(ctx context.Context, ex mysql.Executor, driverID string, since time.Time) (netEarnings int64, tripCount int64, err error)
}

type AwardStore interface {
	Find(ctx context.Context, ex mysql.Executor, driverID, programID, periodKey string) (*entity.BonusAward, error)
	Insert(ctx context.Context, ex mysql.Executor, award *entity.BonusAward) error
}

type TripStore interface {
	FindCompleted(ctx context.Context, ex mysql.Executor, tripID string) (*entity.Trip, error)
	CountCompletedSince(ctx context.Context, ex mysql.Executor, driverID string, since time.Time) (int64, error)
	SumGrossFaresSince(ctx context.Context, ex mysql.Executor, driverID string, since time.Time) (int64, error)
}

type RuleDataStore interface {
	ListActiveRules(ctx context.Context, now time.Time) ([]entity.EarningRule, error)
	ListActivePrograms(ctx context.Context, now time.Time) ([]entity.BonusProgram, error)
	FindRule(ctx context.Context, id string) (*entity.EarningRule, error)
	InsertRule(ctx context.Context, rule *entity.EarningRule) error
	UpdateRule(ctx context.Context, rule *entity.EarningRule) error
	DeactivateRule(ctx context.Context, id string) error
	FindProgram(ctx context.Context, id string) (*entity.BonusProgram, error)
	InsertProgram(ctx context.Context, program *entity.BonusProgram) error
	UpdateProgram(ctx context.Context, program *entity.BonusProgram) error
	DeactivateProgram(ctx context.Context, id string) error
}
