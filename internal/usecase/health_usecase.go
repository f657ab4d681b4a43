package usecase

import (
	"context"
	"go-portfolio-backend/internal/domain"
	"time"
)

type healthUsecase struct {
	emailConfigured bool
	redisCheck      func(ctx context.Context) error
}

// NewHealthUsecase reports mail and rate-limit store status. redisCheck may be nil.
func NewHealthUsecase(emailConfigured bool, redisCheck func(ctx context.Context) error) domain.HealthUsecase {
	return &healthUsecase{
		emailConfigured: emailConfigured,
		redisCheck:      redisCheck,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status":           "ok",
		"email":            "configured",
		"rate_limit_store": "memory",
	}
	if !u.emailConfigured {
		status["email"] = "unconfigured"
	}
	if u.redisCheck != nil {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := u.redisCheck(ctx); err == nil {
			status["rate_limit_store"] = "redis"
		}
	}
	return status
}
