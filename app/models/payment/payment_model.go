// Package payment 支付记录模型
package payment

import (
	"paygate/app/models"
)

// Payment 支付记录模型
// 每次成功发起的 PayPal 支付对应一条记录
type Payment struct {
	ID              uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerName    string  `gorm:"type:varchar(100)" json:"customer_name"`
	CustomerEmail   string  `gorm:"type:varchar(255)" json:"customer_email"`
	Amount          float64 `gorm:"type:decimal(10,2)" json:"amount"`
	PayPalPaymentID string  `gorm:"column:paypal_payment_id;type:varchar(100);uniqueIndex" json:"paypal_payment_id"` // PayPal 侧支付 ID，唯一且创建后不变
	Status          string  `gorm:"type:varchar(20);index" json:"status"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
