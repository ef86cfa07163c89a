package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-leave/internal/audit"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actorID, actorRole string, req ListFilterRequest) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	Submit(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, actorRole, id, comment string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, actorRole, id, comment string) (LeaveResponse, error)
	Cancel(ctx context.Context, actorID, actorRole, id, comment string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	audit  audit.Repository
	outbox kafka.OutboxRepository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	auditRepo audit.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		audit:  auditRepo,
		outbox: outboxRepo,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if !ValidLeaveType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Owner selalu aktor yang login, status awal selalu draft:
	// keduanya tidak bisa disuntik lewat request body.
	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: actorUUID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
		Status:     StatusDraft,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actorID),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actorID, actorRole string, req ListFilterRequest) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	filter, err := buildListFilter(req)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopeForActor(ctx, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	leaves, err := s.repo.FindAll(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !CanView(actorUUID, actorRole, l.Employee) {
		return LeaveResponse{}, leaveerrors.ErrViewForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if !ValidLeaveType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.EmployeeID != actorUUID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if l.Status != StatusDraft {
		return LeaveResponse{}, leaveerrors.ErrNotEditable
	}

	l.LeaveType = req.LeaveType
	l.StartDate = startDate
	l.EndDate = endDate
	l.Reason = req.Reason

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("update leave success", zap.String("leave_id", id))

	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if l.EmployeeID != actorUUID {
		return leaveerrors.ErrNotOwner
	}
	if l.Status != StatusDraft {
		return leaveerrors.ErrNotEditable
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) Submit(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error) {
	return s.transition(ctx, actorID, actorRole, id, ActionSubmit, "")
}

func (s *service) Approve(ctx context.Context, actorID, actorRole, id, comment string) (LeaveResponse, error) {
	return s.transition(ctx, actorID, actorRole, id, ActionApprove, comment)
}

func (s *service) Reject(ctx context.Context, actorID, actorRole, id, comment string) (LeaveResponse, error) {
	return s.transition(ctx, actorID, actorRole, id, ActionReject, comment)
}

func (s *service) Cancel(ctx context.Context, actorID, actorRole, id, comment string) (LeaveResponse, error) {
	return s.transition(ctx, actorID, actorRole, id, ActionCancel, comment)
}

// transition menjalankan satu langkah workflow dalam satu transaksi:
// update status (dengan guard status lama), tulis audit entry, dan
// antri event outbox. Ketiganya commit atau rollback bersama.
func (s *service) transition(ctx context.Context, actorID, actorRole, id, action, comment string) (LeaveResponse, error) {
	s.logger.Debug("leave transition requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("role", actorRole),
		zap.String("action", action),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	rule, ok := nextTransition(l.Status, action)
	if !ok {
		s.logger.Warn("leave transition not defined",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("action", action),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	if err := authorizeTransition(rule, actorUUID, actorRole, l.Employee); err != nil {
		s.logger.Warn("leave transition denied",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
			zap.String("role", actorRole),
			zap.String("action", action),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	rows, err := qtx.UpdateStatusFrom(ctx, id, l.Status, rule.To)
	if err != nil {
		s.logger.Error("leave transition persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if rows == 0 {
		// Status berubah sejak dibaca: transisi lain menang duluan.
		s.logger.Warn("leave transition lost race",
			zap.String("leave_id", id),
			zap.String("expected_status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	entry := &audit.Entry{
		ID:             uuid.New(),
		LeaveRequestID: l.ID,
		FromStatus:     l.Status,
		ToStatus:       rule.To,
		ActorID:        actorUUID,
	}
	if comment != "" {
		entry.Comment = &comment
	}
	if err := s.audit.WithTx(tx).Create(ctx, entry); err != nil {
		s.logger.Error("leave transition audit write failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := s.enqueueStatusChanged(ctx, tx, l, actorID, rule.To); err != nil {
		s.logger.Error("leave transition outbox write failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("leave transition success",
		zap.String("leave_id", id),
		zap.String("from_status", l.Status),
		zap.String("to_status", rule.To),
		zap.String("action", action),
	)

	l.Status = rule.To
	return mapToResponse(*l), nil
}

func (s *service) enqueueStatusChanged(ctx context.Context, tx *sql.Tx, l *LeaveRequest, actorID, toStatus string) error {
	payload, err := json.Marshal(events.LeaveStatusChangedEvent{
		EventType:  events.LeaveStatusChangedType,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		ActorID:    actorID,
		FromStatus: l.Status,
		ToStatus:   toStatus,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     events.LeaveStatusChangedType,
		Topic:         events.LeaveWorkflowTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// scopeForActor menyusun batas visibilitas list. Untuk manager, daftar ID
// bawahan diambil sekali per burst lewat singleflight supaya request
// paralel dari manager yang sama tidak menghajar tabel users berulang.
func (s *service) scopeForActor(ctx context.Context, actorID, actorRole string) (ListScope, error) {
	scope := scopeFor(actorID, actorRole, nil)
	if scope.All || actorRole != user.RoleManager {
		return scope, nil
	}

	v, err, _ := s.sf.Do("team:"+actorID, func() (any, error) {
		// Hasil flight dipakai bersama beberapa request; jangan ikut mati
		// kalau context si pemanggil pertama dibatalkan.
		return s.repo.TeamMemberIDs(context.WithoutCancel(ctx), actorID)
	})
	if err != nil {
		return ListScope{}, err
	}
	teamIDs, _ := v.([]string)
	return scopeFor(actorID, actorRole, teamIDs), nil
}

func buildListFilter(req ListFilterRequest) (ListFilter, error) {
	var filter ListFilter

	if req.Status != "" {
		if !ValidStatus(req.Status) {
			return ListFilter{}, leaveerrors.ErrInvalidStatusFilter
		}
		filter.Status = req.Status
	}
	if req.LeaveType != "" {
		if !ValidLeaveType(req.LeaveType) {
			return ListFilter{}, leaveerrors.ErrInvalidLeaveType
		}
		filter.LeaveType = req.LeaveType
	}
	if req.StartDate != "" {
		t, err := parseDate(req.StartDate)
		if err != nil {
			return ListFilter{}, err
		}
		filter.StartDate = &t
	}
	if req.EndDate != "" {
		t, err := parseDate(req.EndDate)
		if err != nil {
			return ListFilter{}, err
		}
		filter.EndDate = &t
	}
	return filter, nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1,
		Reason:     l.Reason,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.Username
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
