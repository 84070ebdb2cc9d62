// Package activity exposes the read side of the append-only activity log.
package activity

import (
	"context"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/errs"
	"hotelstay/internal/repository"
)

type Reader interface {
	List(ctx context.Context, f repository.ActivityFilter) ([]domain.ActivityLogEntry, int64, error)
}

type Service struct {
	log Reader
}

func NewService(log Reader) *Service {
	return &Service{log: log}
}

func (s *Service) List(ctx context.Context, f repository.ActivityFilter) ([]domain.ActivityLogEntry, int64, error) {
	switch f.Action {
	case "", domain.ActionCreate, domain.ActionCheckOut:
	default:
		return nil, 0, errs.Validationf("action", "unknown action %q", f.Action)
	}
	if f.StayID < 0 {
		return nil, 0, errs.Validation("stay_id", "must be positive")
	}
	if f.ManagerID < 0 {
		return nil, 0, errs.Validation("manager_id", "must be positive")
	}
	return s.log.List(ctx, f)
}
