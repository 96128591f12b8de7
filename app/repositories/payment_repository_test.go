package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paygate/app/models/payment"
	"paygate/pkg/database"
	"paygate/pkg/database/migrations"
	"paygate/pkg/logger"
)

// setupTestDB 为每个测试建立独立的内存数据库
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database.Connect(sqlite.Open(dsn), logger.NewGormLogger())
	require.NoError(t, database.AutoMigrate(migrations.RegisterTables()))
}

func createTestPayment(t *testing.T, repo *PaymentRepository, paypalID string, status payment.Status) *payment.Payment {
	t.Helper()

	record := &payment.Payment{
		CustomerName:    "John Smith",
		CustomerEmail:   "john@example.com",
		Amount:          30.00,
		PayPalPaymentID: paypalID,
		Status:          string(status),
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}

func TestCreateAndGet(t *testing.T) {
	setupTestDB(t)
	repo := NewPaymentRepository()

	record := createTestPayment(t, repo, "PAY-123456", payment.StatusCreated)
	assert.NotZero(t, record.ID)

	byID, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", byID.CustomerName)
	assert.Equal(t, "john@example.com", byID.CustomerEmail)
	assert.Equal(t, 30.00, byID.Amount)
	assert.True(t, byID.IsCreated())
	assert.False(t, byID.IsTerminal())

	byPayPalID, err := repo.GetByPayPalID(context.Background(), "PAY-123456")
	require.NoError(t, err)
	assert.Equal(t, record.ID, byPayPalID.ID)
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	setupTestDB(t)
	repo := NewPaymentRepository()

	// 缺少 paypal_payment_id，模型校验应拦截，不触达数据库
	record := &payment.Payment{
		CustomerName:  "John Smith",
		CustomerEmail: "john@example.com",
		Amount:        30.00,
		Status:        string(payment.StatusCreated),
	}
	err := repo.Create(context.Background(), record)
	require.Error(t, err)

	var count int64
	database.DB.Model(&payment.Payment{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetMissingRecord(t *testing.T) {
	setupTestDB(t)
	repo := NewPaymentRepository()

	_, err := repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetByPayPalID(context.Background(), "PAY-MISSING")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTransitionStatus(t *testing.T) {
	setupTestDB(t)
	repo := NewPaymentRepository()

	createTestPayment(t, repo, "PAY-123456", payment.StatusCreated)

	record, err := repo.TransitionStatus(context.Background(), "PAY-123456", payment.StatusCreated, payment.StatusCompleted)
	require.NoError(t, err)
	assert.True(t, record.IsCompleted())
}

func TestTransitionStatusNotFound(t *testing.T) {
	setupTestDB(t)
	repo := NewPaymentRepository()

	_, err := repo.TransitionStatus(context.Background(), "PAY-MISSING", payment.StatusCreated, payment.StatusCompleted)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTransitionStatusConflict(t *testing.T) {
	setupTestDB(t)
	repo := NewPaymentRepository()

	createTestPayment(t, repo, "PAY-123456", payment.StatusCreated)

	// 第一次转移成功
	_, err := repo.TransitionStatus(context.Background(), "PAY-123456", payment.StatusCreated, payment.StatusCompleted)
	require.NoError(t, err)

	// 重复转移与取消都应报冲突，状态保持不变
	_, err = repo.TransitionStatus(context.Background(), "PAY-123456", payment.StatusCreated, payment.StatusCompleted)
	assert.ErrorIs(t, err, ErrStateConflict)

	_, err = repo.TransitionStatus(context.Background(), "PAY-123456", payment.StatusCreated, payment.StatusCancelled)
	assert.ErrorIs(t, err, ErrStateConflict)

	record, err := repo.GetByPayPalID(context.Background(), "PAY-123456")
	require.NoError(t, err)
	assert.True(t, record.IsCompleted())
	assert.True(t, record.IsTerminal())
}

func TestTransitionStatusCancel(t *testing.T) {
	setupTestDB(t)
	repo := NewPaymentRepository()

	createTestPayment(t, repo, "PAY-654321", payment.StatusCreated)

	record, err := repo.TransitionStatus(context.Background(), "PAY-654321", payment.StatusCreated, payment.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, record.IsCancelled())
	assert.True(t, record.IsTerminal())
}
