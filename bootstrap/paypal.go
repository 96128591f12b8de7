package bootstrap

import (
	"time"

	"paygate/pkg/config"
	"paygate/pkg/logger"
	"paygate/pkg/paypal"
)

// SetupPayPal 初始化 PayPal 客户端
// 客户端显式构造后注入到路由层，不使用包级全局状态
func SetupPayPal() *paypal.Client {
	client, err := paypal.NewClient(paypal.Config{
		ClientID:  config.GetString("paypal.client_id"),
		Secret:    config.GetString("paypal.secret"),
		Mode:      config.GetString("paypal.mode"),
		ReturnURL: config.GetString("paypal.return_url"),
		CancelURL: config.GetString("paypal.cancel_url"),
		Timeout:   time.Duration(config.GetInt("paypal.timeout")) * time.Second,
	})
	if err != nil {
		logger.ErrorString("PayPal", "Setup", "PayPal 客户端初始化失败："+err.Error())
		panic(err)
	}

	logger.InfoString("PayPal", "Setup", "PayPal 客户端初始化成功，模式："+config.GetString("paypal.mode"))
	return client
}
