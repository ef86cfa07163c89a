package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeaveTypeCasual    = "CL"
	LeaveTypeSick      = "SL"
	LeaveTypePrivilege = "PL"
)

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`

	LeaveType string    `gorm:"type:varchar(2);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_dates"`
	Reason    string    `gorm:"type:text"`

	Status string `gorm:"type:varchar(20);not null;default:'draft';index:idx_leave_requests_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// EmployeeRef adalah proyeksi ringan tabel users: cukup untuk cek
// ownership dan hirarki manager tanpa menarik seluruh entity user.
type EmployeeRef struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Username  string     `gorm:"column:username"`
	ManagerID *uuid.UUID `gorm:"column:manager_id"`
}

func (EmployeeRef) TableName() string {
	return "users"
}
