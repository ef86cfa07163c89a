package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=CL SL PL"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// UpdateLeaveRequest hanya berlaku di status draft; status dan owner
// tidak pernah bisa diubah lewat endpoint update.
type UpdateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=CL SL PL"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// TransitionRequest adalah body opsional untuk approve/reject/cancel.
type TransitionRequest struct {
	Comment string `json:"comment" binding:"omitempty,max=500"`
}

type ListFilterRequest struct {
	Status    string `form:"status"`
	LeaveType string `form:"leave_type"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

type LeaveResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TotalDays    int    `json:"total_days"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
