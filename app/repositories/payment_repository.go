// Package repositories 数据仓库层
package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"paygate/app/models/payment"
	"paygate/pkg/database"
)

// ErrStateConflict 记录存在但状态不满足转移条件
var ErrStateConflict = errors.New("payment status conflict")

// PaymentRepository 支付记录仓库
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建仓库实例
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		db: database.DB,
	}
}

// Create 创建支付记录，入库前先做模型级校验
func (r *PaymentRepository) Create(ctx context.Context, record *payment.Payment) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID 根据本地 ID 获取支付记录
func (r *PaymentRepository) GetByID(ctx context.Context, id uint64) (*payment.Payment, error) {
	var record payment.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByPayPalID 根据 PayPal 支付 ID 获取支付记录
func (r *PaymentRepository) GetByPayPalID(ctx context.Context, paypalPaymentID string) (*payment.Payment, error) {
	var record payment.Payment
	err := r.db.WithContext(ctx).Where("paypal_payment_id = ?", paypalPaymentID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// TransitionStatus 条件更新支付状态
// 仅当当前状态等于 from 时转移到 to，避免并发请求对同一笔支付重复转移。
// 返回值：
// - 记录不存在：gorm.ErrRecordNotFound
// - 记录存在但状态不是 from：ErrStateConflict
// - 转移成功：返回更新后的记录
func (r *PaymentRepository) TransitionStatus(ctx context.Context, paypalPaymentID string, from, to payment.Status) (*payment.Payment, error) {
	result := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("paypal_payment_id = ? AND status = ?", paypalPaymentID, from).
		Update("status", to)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// 区分"不存在"和"状态冲突"
		if _, err := r.GetByPayPalID(ctx, paypalPaymentID); err != nil {
			return nil, err
		}
		return nil, ErrStateConflict
	}

	return r.GetByPayPalID(ctx, paypalPaymentID)
}
