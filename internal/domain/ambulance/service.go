package ambulance

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, a *Ambulance) error {
	if a.ID == "" {
		return fmt.Errorf("id is required")
	}
	if a.Callsign == "" {
		a.Callsign = a.ID
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id string) (*Ambulance, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// RecordPosition mirrors a live fix to the ambulance row.
func (s *Service) RecordPosition(ctx context.Context, id string, lat, lng float64, address *string) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("position %v,%v out of range", lat, lng)
	}
	return s.repo.UpsertLocation(ctx, id, lat, lng, address)
}

func (s *Service) SetActive(ctx context.Context, id string) error {
	return s.repo.SetStatus(ctx, id, StatusActive)
}

func (s *Service) SetInactive(ctx context.Context, id string) error {
	return s.repo.SetStatus(ctx, id, StatusInactive)
}
