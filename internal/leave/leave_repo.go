package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	Status    string
	LeaveType string
	StartDate *time.Time
	EndDate   *time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context, scope ListScope, filter ListFilter) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	UpdateStatusFrom(ctx context.Context, id, fromStatus, toStatus string) (int64, error)
	Delete(ctx context.Context, id string) error
	TeamMemberIDs(ctx context.Context, managerID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context, scope ListScope, filter ListFilter) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).Model(&LeaveRequest{}).Preload("Employee")

	if !scope.All {
		db = db.Where("employee_id IN ?", scope.EmployeeIDs)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.LeaveType != "" {
		db = db.Where("leave_type = ?", filter.LeaveType)
	}
	if filter.StartDate != nil {
		db = db.Where("end_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("start_date <= ?", *filter.EndDate)
	}

	var leaves []LeaveRequest
	err := db.Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Employee").Save(l).Error
}

// UpdateStatusFrom mengubah status hanya kalau status di DB masih fromStatus,
// lalu melaporkan jumlah row yang berubah. 0 row berarti ada transisi lain
// yang menang duluan; caller yang memutuskan itu conflict.
// Jalan lewat *sql.Tx kalau ada supaya satu commit dengan audit dan outbox.
func (r *repository) UpdateStatusFrom(ctx context.Context, id, fromStatus, toStatus string) (int64, error) {
	query := `
        UPDATE leave_requests
        SET status = $3, updated_at = NOW()
        WHERE id = $1 AND status = $2 AND deleted_at IS NULL
    `

	exec := r.execer()
	res, err := exec.ExecContext(ctx, query, id, fromStatus, toStatus)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}

func (r *repository) TeamMemberIDs(ctx context.Context, managerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("users").
		Where("manager_id = ?", managerID).
		Where("deleted_at IS NULL").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	db, err := r.db.DB()
	if err != nil || db == nil {
		return noopExecer{}
	}
	return db
}

type noopExecer struct{}

func (noopExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}
