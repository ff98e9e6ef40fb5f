package health

import (
	"context"
	"time"
)

type Status string

const (
	StatusOk    Status = "OK"
	StatusError Status = "ERROR"
)

type HealthReport struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version"`
	Provider  string    `json:"provider"`
	HasPlan   bool      `json:"has_plan"`
	CheckedAt time.Time `json:"checked_at"`
}

type IHealthUsecase interface {
	Check(ctx context.Context) (HealthReport, error)
}
