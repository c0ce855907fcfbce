package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"tankbill/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Outstanding projections
	GetOutstanding(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (*models.CounterpartyOutstanding, error)
	SetOutstanding(ctx context.Context, tenantID uuid.UUID, summary *models.CounterpartyOutstanding, ttl time.Duration) error
	DeleteOutstanding(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) error

	// Monthly reconciliation summaries
	GetMonthlySummary(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, month string) (*models.MonthlySummary, error)
	SetMonthlySummary(ctx context.Context, tenantID uuid.UUID, summary *models.MonthlySummary, ttl time.Duration) error

	// Cache invalidation
	InvalidateCounterparty(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) error
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func outstandingKey(tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) string {
	return fmt.Sprintf("tankbill:outstanding:%s:%s:%s", tenantID.String(), relatedTo, relatedID.String())
}

func monthlySummaryKey(tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, month string) string {
	return fmt.Sprintf("tankbill:monthly:%s:%s:%s:%s", tenantID.String(), relatedTo, relatedID.String(), month)
}

func (r *redisCacheService) GetOutstanding(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (*models.CounterpartyOutstanding, error) {
	data, err := r.client.Get(ctx, outstandingKey(tenantID, relatedTo, relatedID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.CounterpartyOutstanding
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetOutstanding(ctx context.Context, tenantID uuid.UUID, summary *models.CounterpartyOutstanding, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, outstandingKey(tenantID, summary.RelatedTo, summary.RelatedID), data, ttl).Err()
}

func (r *redisCacheService) DeleteOutstanding(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) error {
	return r.client.Del(ctx, outstandingKey(tenantID, relatedTo, relatedID)).Err()
}

func (r *redisCacheService) GetMonthlySummary(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, month string) (*models.MonthlySummary, error) {
	data, err := r.client.Get(ctx, monthlySummaryKey(tenantID, relatedTo, relatedID, month)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.MonthlySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetMonthlySummary(ctx context.Context, tenantID uuid.UUID, summary *models.MonthlySummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, monthlySummaryKey(tenantID, summary.RelatedTo, summary.RelatedID, summary.Month), data, ttl).Err()
}

// InvalidateCounterparty drops every cached projection for one counterparty.
// Called after any invoice or payment mutation touching it.
func (r *redisCacheService) InvalidateCounterparty(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) error {
	patterns := []string{
		outstandingKey(tenantID, relatedTo, relatedID),
		fmt.Sprintf("tankbill:monthly:%s:%s:%s:*", tenantID.String(), relatedTo, relatedID.String()),
	}
	for _, pattern := range patterns {
		if err := r.deleteByPattern(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	return r.deleteByPattern(ctx, fmt.Sprintf("tankbill:*:%s:*", tenantID.String()))
}

func (r *redisCacheService) deleteByPattern(ctx context.Context, pattern string) error {
	if !strings.Contains(pattern, "*") {
		return r.client.Del(ctx, pattern).Err()
	}
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
