package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecoinsure/internal/config"
	"ecoinsure/internal/models"

	"github.com/redis/go-redis/v9"
)

// assessmentTTL bounds how long a cached risk verdict stays quotable before
// a fresh oracle call is required.
const assessmentTTL = time.Hour

// Client wraps the Redis connection used as a risk-assessment cache.
type Client struct {
	client *redis.Client
}

func NewClient(cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{client: client}, nil
}

func assessmentKey(companyName, productID string) string {
	return fmt.Sprintf("risk_assessment:%s:%s", companyName, productID)
}

// GetRiskAssessment returns the cached assessment for a company/product
// pair, or nil on a cache miss.
func (c *Client) GetRiskAssessment(ctx context.Context, companyName, productID string) (*models.RiskAssessment, error) {
	data, err := c.client.Get(ctx, assessmentKey(companyName, productID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached assessment: %w", err)
	}

	var a models.RiskAssessment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode cached assessment: %w", err)
	}
	return &a, nil
}

// SetRiskAssessment caches an assessment with the standard TTL.
func (c *Client) SetRiskAssessment(ctx context.Context, companyName, productID string, a models.RiskAssessment) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode assessment: %w", err)
	}
	if err := c.client.Set(ctx, assessmentKey(companyName, productID), data, assessmentTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache assessment: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
