package requests

import (
	"math"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// 金额上限，对应 DECIMAL(10,2) 的最大可表示值
const maxAmount = 1e8

// PaymentCreateRequest 创建支付的请求体
type PaymentCreateRequest struct {
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Amount        float64 `json:"amount"`
}

// ValidatePaymentCreate 验证创建支付请求
// 返回字段级错误集合，作为 400 响应体原样返回给调用方
func ValidatePaymentCreate(c *gin.Context) (*PaymentCreateRequest, map[string][]string) {
	var req PaymentCreateRequest

	// 1. 解析请求体
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, map[string][]string{
			"message": {"invalid request body"},
		}
	}

	// 2. 验证规则
	rules := govalidator.MapData{
		"customer_name":  []string{"required", "max:100"},
		"customer_email": []string{"required", "email"},
	}

	messages := govalidator.MapData{
		"customer_name": []string{
			"required:The customer_name field is required",
			"max:The customer_name may not be greater than 100 characters",
		},
		"customer_email": []string{
			"required:The customer_email field is required",
			"email:The customer_email field must be a valid email address",
		},
	}

	errs := validate(&req, rules, messages)

	// 3. 金额校验：正数、不超过两位小数、不超出存储精度
	if req.Amount <= 0 {
		errs["amount"] = append(errs["amount"], "The amount must be greater than 0")
	} else {
		if req.Amount >= maxAmount {
			errs["amount"] = append(errs["amount"], "The amount is too large")
		}
		if !hasAtMostTwoDecimals(req.Amount) {
			errs["amount"] = append(errs["amount"], "The amount may not have more than two decimal places")
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &req, nil
}

// hasAtMostTwoDecimals 判断金额是否最多只有两位小数
func hasAtMostTwoDecimals(amount float64) bool {
	scaled := amount * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}
