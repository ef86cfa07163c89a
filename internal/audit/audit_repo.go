package audit

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	LeaveRequestID string
	ActorID        string
}

// Repository sengaja tidak punya Update/Delete: audit trail bersifat append-only.
//
//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Entry) error
	FindAll(ctx context.Context, filter ListFilter) ([]Entry, error)
	FindByID(ctx context.Context, id string) (*Entry, error)
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

// Create menulis lewat *sql.Tx kalau ada, supaya entry audit ikut commit/rollback
// bersama perubahan status leave request di transaksi yang sama.
func (r *repository) Create(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO audit_entries (
            id, leave_request_id, from_status, to_status, actor_id, comment, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		e.ID, e.LeaveRequestID, e.FromStatus, e.ToStatus, e.ActorID, e.Comment, e.CreatedAt,
	)
	return err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Entry, error) {
	db := r.db.WithContext(ctx).Model(&Entry{})

	if filter.LeaveRequestID != "" {
		db = db.Where("leave_request_id = ?", filter.LeaveRequestID)
	}
	if filter.ActorID != "" {
		db = db.Where("actor_id = ?", filter.ActorID)
	}

	var entries []Entry
	err := db.Order("created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Entry, error) {
	var e Entry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	db, err := r.db.DB()
	if err != nil || db == nil {
		// gorm tanpa koneksi sql mentah hanya terjadi di test dengan DB palsu
		return noopExecer{}
	}
	return db
}

type noopExecer struct{}

func (noopExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}
