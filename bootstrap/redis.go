package bootstrap

import (
	"fmt"

	"paygate/pkg/config"
	"paygate/pkg/redis"
)

// SetupRedis 初始化 Redis（限流计数使用）
func SetupRedis() {
	redis.InitRedis(
		fmt.Sprintf("%v:%v", config.GetString("redis.host"), config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
	)
}
