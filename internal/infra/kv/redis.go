package kv

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var (
	client *redis.Client
	once   sync.Once
)

// Init configura o cliente Redis a partir da configuração (redis.url tem
// prioridade; host vazio deixa o kv desabilitado e toda operação vira no-op).
func Init() error {
	var initErr error
	once.Do(func() {
		redisURL := viper.GetString("redis.url")
		if redisURL != "" {
			opt, err := redis.ParseURL(redisURL)
			if err != nil {
				initErr = fmt.Errorf("redis.url inválida: %w", err)
				return
			}
			client = redis.NewClient(opt)
			log.Println("[KV] Cliente Redis configurado via URL.")
			return
		}

		host := viper.GetString("redis.host")
		if host == "" {
			log.Println("[KV] Redis não configurado; rate limit de login desabilitado.")
			return
		}
		addr := fmt.Sprintf("%s:%s", host, viper.GetString("redis.port"))
		client = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: viper.GetString("redis.pwd"),
			DB:       0,
		})
		log.Printf("[KV] Cliente Redis configurado em %s.", addr)
	})
	return initErr
}

// Available informa se o cliente está configurado.
func Available() bool {
	return client != nil
}

// AllowRate conta tentativas por janela e retorna se a chave ainda está
// dentro do limite.
func AllowRate(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	if client == nil {
		return true, nil
	}
	pipe := client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= limit, nil
}

// SetLock registra um bloqueio temporário (lockout de login).
func SetLock(ctx context.Context, key string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, key, "1", ttl).Err()
}

// IsLocked retorna true se existe um bloqueio ativo.
func IsLocked(ctx context.Context, key string) (bool, error) {
	if client == nil {
		return false, nil
	}
	_, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Del remove chaves (melhor esforço).
func Del(ctx context.Context, keys ...string) {
	if client == nil {
		return
	}
	_ = client.Del(ctx, keys...).Err()
}
