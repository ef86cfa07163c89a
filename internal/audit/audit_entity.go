package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry adalah satu baris jejak transisi status leave request.
// Append-only: tidak ada operasi update atau delete untuk tabel ini.
type Entry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_entries_leave"`
	FromStatus     string    `gorm:"type:varchar(20);not null"`
	ToStatus       string    `gorm:"type:varchar(20);not null"`
	ActorID        uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_entries_actor"`
	Comment        *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (Entry) TableName() string {
	return "audit_entries"
}
