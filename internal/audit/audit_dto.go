package audit

type EntryResponse struct {
	ID             string  `json:"id"`
	LeaveRequestID string  `json:"leave_request_id"`
	FromStatus     string  `json:"from_status"`
	ToStatus       string  `json:"to_status"`
	ActorID        string  `json:"actor_id"`
	Comment        *string `json:"comment,omitempty"`
	Timestamp      string  `json:"timestamp"`
}

type ListFilterRequest struct {
	LeaveRequestID string `form:"leave_request_id" binding:"omitempty,uuid"`
	ActorID        string `form:"actor_id" binding:"omitempty,uuid"`
}
