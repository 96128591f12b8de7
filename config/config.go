// Package config 站点配置信息
package config

// Initialize 触发本包内所有 init() 里的配置注册
// 在 main 里显式调用，保证配置在其他初始化之前完成注册
func Initialize() {
}
