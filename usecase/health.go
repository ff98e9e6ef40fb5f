package usecase

import (
	"context"
	"time"

	"github.com/AzielCF/az-planner/config"
	domainHealth "github.com/AzielCF/az-planner/domains/health"
	domainPlan "github.com/AzielCF/az-planner/domains/plan"
)

type serviceHealth struct {
	plan domainPlan.IPlanUsecase
}

func NewHealthService(plan domainPlan.IPlanUsecase) domainHealth.IHealthUsecase {
	return &serviceHealth{plan: plan}
}

func (service *serviceHealth) Check(ctx context.Context) (domainHealth.HealthReport, error) {
	hasPlan := false
	if service.plan != nil {
		if _, err := service.plan.Current(ctx); err == nil {
			hasPlan = true
		}
	}

	return domainHealth.HealthReport{
		Status:    domainHealth.StatusOk,
		Version:   config.AppVersion,
		Provider:  config.AIProvider,
		HasPlan:   hasPlan,
		CheckedAt: time.Now().UTC(),
	}, nil
}
