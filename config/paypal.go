package config

import (
	"paygate/pkg/config"
)

func init() {
	config.Add("paypal", func() map[string]interface{} {
		return map[string]interface{}{
			// 应用凭证
			"client_id": config.Env("PAYPAL_CLIENT_ID", ""),
			"secret":    config.Env("PAYPAL_SECRET", ""),

			// 运行模式，sandbox 或 live
			"mode": config.Env("PAYPAL_MODE", "sandbox"),

			// 付款人在 PayPal 完成/取消授权后的回调地址
			"return_url": config.Env("PAYPAL_RETURN_URL", "https://payment-gateway-api-2c52.onrender.com/api/v1/payment/execute"),
			"cancel_url": config.Env("PAYPAL_CANCEL_URL", "https://payment-gateway-api-2c52.onrender.com/api/v1/payment/cancel"),

			// 单次请求超时时间，单位：秒
			"timeout": config.Env("PAYPAL_TIMEOUT", 30),
		}
	})
}
