package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/pkg/logger"
)

// Префиксы ключей для разных типов данных
const (
	keyPrefixUserPermissions = "user:permissions:"
	keyPrefixUserRoles       = "user:roles:"
	keyPrefixLowStock        = "dashboard:lowstock"
	keyPrefixRefreshToken    = "auth:refresh:"
	keyPrefixLock            = "lock:"
)

// ErrCacheMiss возвращается, когда ключа нет в кэше
var ErrCacheMiss = errors.New("cache miss")

// RedisRepository реализует репозиторий кэширования с использованием Redis
type RedisRepository struct {
	client *redis.Client
	logger logger.Logger
	ttl    time.Duration
}

// NewRedisRepository создает новый экземпляр RedisRepository
func NewRedisRepository(client *redis.Client, logger logger.Logger, ttl time.Duration) *RedisRepository {
	return &RedisRepository{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// CacheUserPermissions сохраняет коды разрешений пользователя в кэш
func (r *RedisRepository) CacheUserPermissions(ctx context.Context, userID int, codes []string) error {
	key := fmt.Sprintf("%s%d", keyPrefixUserPermissions, userID)
	return r.cacheValue(ctx, key, codes)
}

// GetUserPermissions получает коды разрешений пользователя из кэша
func (r *RedisRepository) GetUserPermissions(ctx context.Context, userID int) ([]string, error) {
	key := fmt.Sprintf("%s%d", keyPrefixUserPermissions, userID)
	var codes []string
	if err := r.getValue(ctx, key, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// InvalidateUserPermissions удаляет коды разрешений пользователя из кэша.
// Вызывается при любом изменении ролей пользователя или разрешений роли
func (r *RedisRepository) InvalidateUserPermissions(ctx context.Context, userID int) error {
	key := fmt.Sprintf("%s%d", keyPrefixUserPermissions, userID)
	return r.deleteValue(ctx, key)
}

// InvalidateAllUserPermissions сбрасывает кэш разрешений всех пользователей
func (r *RedisRepository) InvalidateAllUserPermissions(ctx context.Context) error {
	return r.invalidateByPattern(ctx, keyPrefixUserPermissions+"*")
}

// CacheUserRoles сохраняет роли пользователя в кэш
func (r *RedisRepository) CacheUserRoles(ctx context.Context, userID int, roles []domain.Role) error {
	key := fmt.Sprintf("%s%d", keyPrefixUserRoles, userID)
	return r.cacheValue(ctx, key, roles)
}

// GetUserRoles получает роли пользователя из кэша
func (r *RedisRepository) GetUserRoles(ctx context.Context, userID int) ([]domain.Role, error) {
	key := fmt.Sprintf("%s%d", keyPrefixUserRoles, userID)
	var roles []domain.Role
	if err := r.getValue(ctx, key, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// InvalidateUserRoles удаляет роли пользователя из кэша
func (r *RedisRepository) InvalidateUserRoles(ctx context.Context, userID int) error {
	key := fmt.Sprintf("%s%d", keyPrefixUserRoles, userID)
	return r.deleteValue(ctx, key)
}

// CacheLowStock сохраняет снимок заканчивающихся запасов для дашборда
func (r *RedisRepository) CacheLowStock(ctx context.Context, items []domain.LowStockItem) error {
	return r.cacheValue(ctx, keyPrefixLowStock, items)
}

// GetLowStock получает снимок заканчивающихся запасов из кэша
func (r *RedisRepository) GetLowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	var items []domain.LowStockItem
	if err := r.getValue(ctx, keyPrefixLowStock, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// InvalidateLowStock удаляет снимок заканчивающихся запасов из кэша
func (r *RedisRepository) InvalidateLowStock(ctx context.Context) error {
	return r.deleteValue(ctx, keyPrefixLowStock)
}

// CacheRefreshToken сохраняет refresh-токен пользователя с временем жизни
func (r *RedisRepository) CacheRefreshToken(ctx context.Context, userID int, token string, ttl time.Duration) error {
	key := fmt.Sprintf("%s%d", keyPrefixRefreshToken, userID)
	return r.client.Set(ctx, key, token, ttl).Err()
}

// GetRefreshToken получает сохраненный refresh-токен пользователя
func (r *RedisRepository) GetRefreshToken(ctx context.Context, userID int) (string, error) {
	key := fmt.Sprintf("%s%d", keyPrefixRefreshToken, userID)
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	return val, nil
}

// InvalidateRefreshToken удаляет refresh-токен пользователя
func (r *RedisRepository) InvalidateRefreshToken(ctx context.Context, userID int) error {
	key := fmt.Sprintf("%s%d", keyPrefixRefreshToken, userID)
	return r.deleteValue(ctx, key)
}

// AcquireLock получает блокировку с таймаутом; используется планировщиком,
// чтобы сканирование запасов не выполнялось параллельно
func (r *RedisRepository) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	lockKey := fmt.Sprintf("%s%s", keyPrefixLock, key)
	ok, err := r.client.SetNX(ctx, lockKey, 1, ttl).Result()
	if err != nil {
		r.logger.Error("Failed to acquire lock", err, map[string]interface{}{
			"key": key,
		})
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return ok, nil
}

// ReleaseLock освобождает блокировку
func (r *RedisRepository) ReleaseLock(ctx context.Context, key string) error {
	lockKey := fmt.Sprintf("%s%s", keyPrefixLock, key)
	return r.deleteValue(ctx, lockKey)
}

// Вспомогательные методы

// cacheValue сохраняет значение в кэш
func (r *RedisRepository) cacheValue(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("Failed to marshal value", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to set value in Redis", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to set value in Redis: %w", err)
	}

	return nil
}

// getValue получает значение из кэша
func (r *RedisRepository) getValue(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		r.logger.Error("Failed to get value from Redis", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to get value from Redis: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		r.logger.Error("Failed to unmarshal value", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

// deleteValue удаляет значение из кэша
func (r *RedisRepository) deleteValue(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete value from Redis", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to delete value from Redis: %w", err)
	}
	return nil
}

// invalidateByPattern удаляет все ключи, подходящие под шаблон
func (r *RedisRepository) invalidateByPattern(ctx context.Context, pattern string) error {
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		r.logger.Error("Failed to get keys for pattern", err, map[string]interface{}{
			"pattern": pattern,
		})
		return fmt.Errorf("failed to get keys for pattern: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			r.logger.Error("Failed to delete keys", err, map[string]interface{}{
				"count": len(keys),
			})
			return fmt.Errorf("failed to delete keys: %w", err)
		}
	}

	return nil
}
