// Package requests 处理请求数据和表单验证
package requests

import (
	"github.com/thedevsaddam/govalidator"
)

// validate 执行结构体验证，返回字段错误集合，空集合表示通过
func validate(data interface{}, rules govalidator.MapData, messages govalidator.MapData) map[string][]string {
	opts := govalidator.Options{
		Data:     data,
		Rules:    rules,
		Messages: messages,
	}
	return map[string][]string(govalidator.New(opts).ValidateStruct())
}
