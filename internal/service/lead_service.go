package service

import (
	"context"
	"fmt"

	"github.com/renoflade/renoflade-api/internal/domain"
	"github.com/renoflade/renoflade-api/internal/repo/postgres"
	"github.com/renoflade/renoflade-api/pkg/events"
	"github.com/renoflade/renoflade-api/pkg/logger"
)

type LeadService struct {
	repo postgres.LeadsRepo
	bus  events.Publisher
}

func NewLeadService(repo postgres.LeadsRepo, bus events.Publisher) *LeadService {
	return &LeadService{repo: repo, bus: bus}
}

// SubmitEstimate stores an estimator submission and returns it with the
// computed price band filled in.
func (s *LeadService) SubmitEstimate(ctx context.Context, req *domain.EstimateRequest) (*domain.Lead, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{msg: err.Error()}
	}

	material, _ := domain.ParseMaterial(req.Material)
	low, high := domain.EstimateFor(material, req.AreaM2)

	lead := &domain.Lead{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Material:     material,
		AreaM2:       req.AreaM2,
		Message:      req.Message,
		EstimateLow:  low,
		EstimateHigh: high,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("store lead: %w", err)
	}

	if err := s.bus.Publish(ctx, events.LeadCreated, lead); err != nil {
		logger.ErrorContext(ctx, "failed to publish lead event", "error", err)
	}

	return lead, nil
}

func (s *LeadService) List(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	return s.repo.List(ctx, limit, offset)
}
