package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-leave/internal/audit"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn           func(tx *sql.Tx) leave.Repository
	createFn           func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn         func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findAllFn          func(ctx context.Context, scope leave.ListScope, filter leave.ListFilter) ([]leave.LeaveRequest, error)
	updateFn           func(ctx context.Context, l *leave.LeaveRequest) error
	updateStatusFromFn func(ctx context.Context, id, fromStatus, toStatus string) (int64, error)
	deleteFn           func(ctx context.Context, id string) error
	teamMemberIDsFn    func(ctx context.Context, managerID string) ([]string, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, scope leave.ListScope, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, scope, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) UpdateStatusFrom(ctx context.Context, id, fromStatus, toStatus string) (int64, error) {
	if f.updateStatusFromFn != nil {
		return f.updateStatusFromFn(ctx, id, fromStatus, toStatus)
	}
	return 1, nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRepository) TeamMemberIDs(ctx context.Context, managerID string) ([]string, error) {
	if f.teamMemberIDsFn != nil {
		return f.teamMemberIDsFn(ctx, managerID)
	}
	return nil, nil
}

type fakeAuditRepository struct {
	createFn func(ctx context.Context, e *audit.Entry) error
	entries  []audit.Entry
}

func (f *fakeAuditRepository) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAuditRepository) FindAll(ctx context.Context, filter audit.ListFilter) ([]audit.Entry, error) {
	return f.entries, nil
}

func (f *fakeAuditRepository) FindByID(ctx context.Context, id string) (*audit.Entry, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
	events   []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error   { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id, _ string) error { return nil }

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	audit   *fakeAuditRepository
	outbox  *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	auditRepo := &fakeAuditRepository{}
	outboxRepo := &fakeOutboxRepository{}
	svc := leave.NewService(db, repo, auditRepo, outboxRepo)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		audit:   auditRepo,
		outbox:  outboxRepo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func ownedLeave(id, ownerID uuid.UUID, managerID *uuid.UUID, status string) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:         id,
		EmployeeID: ownerID,
		LeaveType:  leave.LeaveTypeCasual,
		Status:     status,
		Employee: &leave.EmployeeRef{
			ID:        ownerID,
			Username:  "budi",
			ManagerID: managerID,
		},
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			LeaveType: "CL",
			StartDate: "2024-07-01",
			EndDate:   "2024-07-03",
			Reason:    "Family event",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(actorID), l.EmployeeID)
			assert.Equal(t, leave.StatusDraft, l.Status)
			assert.Equal(t, "CL", l.LeaveType)
			return nil
		}

		resp, err := deps.service.Create(ctx, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, actorID, resp.EmployeeID)
		assert.Equal(t, leave.StatusDraft, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			LeaveType: "SL",
			StartDate: "2024-07-05",
			EndDate:   "2024-07-01",
			Reason:    "typo",
		}

		_, err := deps.service.Create(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative bad date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			LeaveType: "PL",
			StartDate: "01-07-2024",
			EndDate:   "2024-07-03",
			Reason:    "wrong order",
		}

		_, err := deps.service.Create(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			LeaveType: "XX",
			StartDate: "2024-07-01",
			EndDate:   "2024-07-03",
			Reason:    "invalid",
		}

		_, err := deps.service.Create(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	ownerID := uuid.New()
	managerID := uuid.New()

	t.Run("success owner submits draft", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusDraft), nil
		}
		deps.repo.updateStatusFromFn = func(ctx context.Context, id, fromStatus, toStatus string) (int64, error) {
			assert.Equal(t, leave.StatusDraft, fromStatus)
			assert.Equal(t, leave.StatusSubmitted, toStatus)
			return 1, nil
		}

		resp, err := deps.service.Submit(ctx, ownerID.String(), user.RoleEmployee, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusSubmitted, resp.Status)

		assert.Len(t, deps.audit.entries, 1)
		entry := deps.audit.entries[0]
		assert.Equal(t, leaveID, entry.LeaveRequestID)
		assert.Equal(t, leave.StatusDraft, entry.FromStatus)
		assert.Equal(t, leave.StatusSubmitted, entry.ToStatus)
		assert.Equal(t, ownerID, entry.ActorID)
		assert.Nil(t, entry.Comment)

		assert.Len(t, deps.outbox.events, 1)
		event := deps.outbox.events[0]
		assert.Equal(t, events.LeaveWorkflowTopic, event.Topic)
		assert.Equal(t, events.LeaveStatusChangedType, event.EventType)
		assert.Equal(t, leaveID.String(), event.AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, event.Status)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-owner submits", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusDraft), nil
		}

		_, err := deps.service.Submit(ctx, uuid.New().String(), user.RoleEmployee, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
		assert.Empty(t, deps.audit.entries)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative submit from submitted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		_, err := deps.service.Submit(ctx, ownerID.String(), user.RoleEmployee, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, ownerID.String(), user.RoleEmployee, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	ownerID := uuid.New()
	managerID := uuid.New()

	t.Run("success direct manager approves submitted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}
		deps.repo.updateStatusFromFn = func(ctx context.Context, id, fromStatus, toStatus string) (int64, error) {
			assert.Equal(t, leave.StatusSubmitted, fromStatus)
			assert.Equal(t, leave.StatusApprovedManager, toStatus)
			return 1, nil
		}

		resp, err := deps.service.Approve(ctx, managerID.String(), user.RoleManager, leaveID.String(), "looks fine")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApprovedManager, resp.Status)

		assert.Len(t, deps.audit.entries, 1)
		assert.NotNil(t, deps.audit.entries[0].Comment)
		assert.Equal(t, "looks fine", *deps.audit.entries[0].Comment)
		assert.Len(t, deps.outbox.events, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success hr approves approved_manager", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusApprovedManager), nil
		}

		resp, err := deps.service.Approve(ctx, uuid.New().String(), user.RoleHR, leaveID.String(), "")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApprovedHR, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative self approval", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		_, err := deps.service.Approve(ctx, ownerID.String(), user.RoleManager, leaveID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrSelfApproval)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative manager of another team", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		_, err := deps.service.Approve(ctx, uuid.New().String(), user.RoleManager, leaveID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrNotTeamManager)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative hr approves submitted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		_, err := deps.service.Approve(ctx, uuid.New().String(), user.RoleHR, leaveID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrRoleNotAllowed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative approve terminal status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusApprovedHR), nil
		}

		_, err := deps.service.Approve(ctx, managerID.String(), user.RoleManager, leaveID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative lost race", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}
		deps.repo.updateStatusFromFn = func(ctx context.Context, id, fromStatus, toStatus string) (int64, error) {
			// status sudah keburu diubah request lain
			return 0, nil
		}

		_, err := deps.service.Approve(ctx, managerID.String(), user.RoleManager, leaveID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
		assert.Empty(t, deps.audit.entries)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative audit write fails rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}
		deps.audit.createFn = func(ctx context.Context, e *audit.Entry) error {
			return errors.New("insert failed")
		}

		_, err := deps.service.Approve(ctx, managerID.String(), user.RoleManager, leaveID.String(), "")

		assert.Error(t, err)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	ownerID := uuid.New()
	managerID := uuid.New()

	t.Run("success hr rejects submitted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		resp, err := deps.service.Reject(ctx, uuid.New().String(), user.RoleHR, leaveID.String(), "no coverage that week")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Len(t, deps.audit.entries, 1)
		assert.Equal(t, leave.StatusRejected, deps.audit.entries[0].ToStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success hr rejects approved_manager", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusApprovedManager), nil
		}

		resp, err := deps.service.Reject(ctx, uuid.New().String(), user.RoleHR, leaveID.String(), "")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative manager rejects approved_manager", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusApprovedManager), nil
		}

		_, err := deps.service.Reject(ctx, managerID.String(), user.RoleManager, leaveID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrRoleNotAllowed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	ownerID := uuid.New()
	managerID := uuid.New()

	t.Run("success owner cancels approved_manager", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusApprovedManager), nil
		}

		resp, err := deps.service.Cancel(ctx, ownerID.String(), user.RoleEmployee, leaveID.String(), "plans changed")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative manager cancels someone else's", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		_, err := deps.service.Cancel(ctx, managerID.String(), user.RoleManager, leaveID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative cancel cancelled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusCancelled), nil
		}

		_, err := deps.service.Cancel(ctx, ownerID.String(), user.RoleEmployee, leaveID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Update(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	ownerID := uuid.New()
	managerID := uuid.New()

	req := leave.UpdateLeaveRequest{
		LeaveType: "SL",
		StartDate: "2024-08-01",
		EndDate:   "2024-08-02",
		Reason:    "medical checkup",
	}

	t.Run("success owner edits draft", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusDraft), nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, "SL", l.LeaveType)
			assert.Equal(t, leave.StatusDraft, l.Status)
			return nil
		}

		resp, err := deps.service.Update(ctx, ownerID.String(), leaveID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, "SL", resp.LeaveType)
		assert.Equal(t, 2, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative edit submitted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		_, err := deps.service.Update(ctx, ownerID.String(), leaveID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrNotEditable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative edit someone else's draft", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusDraft), nil
		}

		_, err := deps.service.Update(ctx, uuid.New().String(), leaveID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	ownerID := uuid.New()
	managerID := uuid.New()

	t.Run("success owner deletes draft", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusDraft), nil
		}
		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = true
			assert.Equal(t, leaveID.String(), id)
			return nil
		}

		err := deps.service.Delete(ctx, ownerID.String(), leaveID.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative delete submitted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		err := deps.service.Delete(ctx, ownerID.String(), leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotEditable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	ownerID := uuid.New()
	managerID := uuid.New()

	t.Run("success owner views own", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		resp, err := deps.service.GetByID(ctx, ownerID.String(), user.RoleEmployee, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leaveID.String(), resp.ID)
		assert.Equal(t, "budi", resp.EmployeeName)
	})

	t.Run("negative other employee views", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusSubmitted), nil
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String(), user.RoleEmployee, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrViewForbidden)
	})

	t.Run("success hr views any", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedLeave(leaveID, ownerID, &managerID, leave.StatusDraft), nil
		}

		resp, err := deps.service.GetByID(ctx, uuid.New().String(), user.RoleHR, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leaveID.String(), resp.ID)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("employee scoped to own", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		actorID := uuid.New().String()
		deps.repo.findAllFn = func(ctx context.Context, scope leave.ListScope, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
			assert.False(t, scope.All)
			assert.Equal(t, []string{actorID}, scope.EmployeeIDs)
			return nil, nil
		}

		_, err := deps.service.GetAll(ctx, actorID, user.RoleEmployee, leave.ListFilterRequest{})

		assert.NoError(t, err)
	})

	t.Run("manager scoped to self plus team", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		actorID := uuid.New().String()
		memberID := uuid.New().String()
		deps.repo.teamMemberIDsFn = func(ctx context.Context, managerID string) ([]string, error) {
			assert.Equal(t, actorID, managerID)
			return []string{memberID}, nil
		}
		deps.repo.findAllFn = func(ctx context.Context, scope leave.ListScope, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
			assert.False(t, scope.All)
			assert.ElementsMatch(t, []string{actorID, memberID}, scope.EmployeeIDs)
			return nil, nil
		}

		_, err := deps.service.GetAll(ctx, actorID, user.RoleManager, leave.ListFilterRequest{})

		assert.NoError(t, err)
	})

	t.Run("team lookup survives cancelled caller context", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		cancelledCtx, cancel := context.WithCancel(context.Background())
		cancel()

		actorID := uuid.New().String()
		deps.repo.teamMemberIDsFn = func(ctx context.Context, managerID string) ([]string, error) {
			// flight singleflight dipakai bersama request lain, jadi tidak
			// boleh ikut batal bersama context pemanggil pertama
			assert.NoError(t, ctx.Err())
			return nil, nil
		}
		deps.repo.findAllFn = func(ctx context.Context, scope leave.ListScope, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
			return nil, nil
		}

		_, err := deps.service.GetAll(cancelledCtx, actorID, user.RoleManager, leave.ListFilterRequest{})

		assert.NoError(t, err)
	})

	t.Run("hr sees everything", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context, scope leave.ListScope, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
			assert.True(t, scope.All)
			return nil, nil
		}

		_, err := deps.service.GetAll(ctx, uuid.New().String(), user.RoleHR, leave.ListFilterRequest{})

		assert.NoError(t, err)
	})

	t.Run("negative bad status filter", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetAll(ctx, uuid.New().String(), user.RoleHR, leave.ListFilterRequest{Status: "pending"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusFilter)
	})

	t.Run("filters passed through", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context, scope leave.ListScope, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
			assert.Equal(t, leave.StatusSubmitted, filter.Status)
			assert.Equal(t, "CL", filter.LeaveType)
			assert.NotNil(t, filter.StartDate)
			assert.Equal(t, "2024-07-01", filter.StartDate.Format("2006-01-02"))
			return nil, nil
		}

		_, err := deps.service.GetAll(ctx, uuid.New().String(), user.RoleHR, leave.ListFilterRequest{
			Status:    leave.StatusSubmitted,
			LeaveType: "CL",
			StartDate: "2024-07-01",
		})

		assert.NoError(t, err)
	})
}
