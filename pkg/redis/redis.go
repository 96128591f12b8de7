// Package redis 提供 Redis 连接和操作的工具包
package redis

import (
	"context"
	"sync"
	"time"

	"paygate/pkg/logger"

	redis "github.com/redis/go-redis/v9"
)

// 关键配置常量
const (
	// DefaultPoolSize Redis 连接池大小
	DefaultPoolSize = 100
	// DefaultTimeout 默认操作超时时间
	DefaultTimeout = 5 * time.Second
	// DefaultMinIdleConns 最小空闲连接数
	DefaultMinIdleConns = 10
	// DefaultMaxRetries 最大重试次数
	DefaultMaxRetries = 3
)

// RedisClient Redis 客户端封装
type RedisClient struct {
	Client  *redis.Client
	Context context.Context
}

// Redis 全局 Redis 实例（限流等业务共用）
var Redis *RedisClient

// once 确保全局实例只初始化一次
var once sync.Once

// InitRedis 初始化 Redis 连接
func InitRedis(address string, username string, password string, db int) {
	once.Do(func() {
		Redis = NewClient(address, username, password, db)
	})
}

// NewClient 创建一个新的 Redis 连接
func NewClient(address string, username string, password string, db int) *RedisClient {
	rds := &RedisClient{
		Context: context.Background(),
	}

	rds.Client = redis.NewClient(&redis.Options{
		Addr:         address,
		Username:     username,
		Password:     password,
		DB:           db,
		PoolSize:     DefaultPoolSize,
		MinIdleConns: DefaultMinIdleConns,
		MaxRetries:   DefaultMaxRetries,
		DialTimeout:  DefaultTimeout,
		ReadTimeout:  DefaultTimeout,
		WriteTimeout: DefaultTimeout,
	})

	// 测试连接，失败只记录日志，不中断启动（限流会优雅降级）
	if err := rds.Ping(); err != nil {
		logger.ErrorString("Redis", "连接", err.Error())
	}

	return rds
}

// Ping 检测 redis 连接是否正常
func (rds *RedisClient) Ping() error {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()
	_, err := rds.Client.Ping(ctx).Result()
	return err
}
