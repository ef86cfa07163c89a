package audit

import (
	"context"
	"errors"
	"time"

	auditerrors "go-leave/internal/audit/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, filter ListFilterRequest) ([]EntryResponse, error)
	GetByID(ctx context.Context, id string) (EntryResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAll(ctx context.Context, filter ListFilterRequest) ([]EntryResponse, error) {
	entries, err := s.repo.FindAll(ctx, ListFilter{
		LeaveRequestID: filter.LeaveRequestID,
		ActorID:        filter.ActorID,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EntryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EntryResponse{}, auditerrors.ErrInvalidEntryID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EntryResponse{}, auditerrors.ErrEntryNotFound
		}
		return EntryResponse{}, err
	}
	return mapToResponse(*e), nil
}

func mapToResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:             e.ID.String(),
		LeaveRequestID: e.LeaveRequestID.String(),
		FromStatus:     e.FromStatus,
		ToStatus:       e.ToStatus,
		ActorID:        e.ActorID.String(),
		Comment:        e.Comment,
		Timestamp:      e.CreatedAt.Format(time.RFC3339),
	}
}
