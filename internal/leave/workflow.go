package leave

import "go-leave/internal/user"

const (
	StatusDraft           = "draft"
	StatusSubmitted       = "submitted"
	StatusApprovedManager = "approved_manager"
	StatusApprovedHR      = "approved_hr"
	StatusRejected        = "rejected"
	StatusCancelled       = "cancelled"
)

const (
	ActionSubmit  = "submit"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionCancel  = "cancel"
)

// transitionRule menjelaskan satu sisi dari state machine workflow.
// OwnerOnly dan ApproverRoles saling eksklusif: transisi milik pemohon
// (submit/cancel) vs transisi milik approver (approve/reject).
type transitionRule struct {
	To            string
	OwnerOnly     bool
	ApproverRoles []string
}

// Tabel transisi eksplisit, key (status sekarang, action).
// Status yang tidak punya entry adalah terminal: approved_hr, rejected, cancelled.
// Tidak ada jalur pintas: submitted tidak pernah langsung ke approved_hr.
var transitions = map[string]map[string]transitionRule{
	StatusDraft: {
		ActionSubmit: {To: StatusSubmitted, OwnerOnly: true},
		ActionCancel: {To: StatusCancelled, OwnerOnly: true},
	},
	StatusSubmitted: {
		ActionApprove: {To: StatusApprovedManager, ApproverRoles: []string{user.RoleManager}},
		ActionReject:  {To: StatusRejected, ApproverRoles: []string{user.RoleManager, user.RoleHR}},
		ActionCancel:  {To: StatusCancelled, OwnerOnly: true},
	},
	StatusApprovedManager: {
		ActionApprove: {To: StatusApprovedHR, ApproverRoles: []string{user.RoleHR}},
		ActionReject:  {To: StatusRejected, ApproverRoles: []string{user.RoleHR}},
		ActionCancel:  {To: StatusCancelled, OwnerOnly: true},
	},
}

// nextTransition mengembalikan rule untuk (status, action), ok=false
// kalau action tidak terdefinisi dari status tersebut.
func nextTransition(currentStatus, action string) (transitionRule, bool) {
	actionRules, ok := transitions[currentStatus]
	if !ok {
		return transitionRule{}, false
	}
	rule, ok := actionRules[action]
	return rule, ok
}

// IsTerminal melaporkan apakah status sudah final (tidak ada transisi keluar).
func IsTerminal(status string) bool {
	_, ok := transitions[status]
	return !ok && ValidStatus(status)
}

func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusSubmitted, StatusApprovedManager,
		StatusApprovedHR, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

func ValidLeaveType(leaveType string) bool {
	switch leaveType {
	case LeaveTypeCasual, LeaveTypeSick, LeaveTypePrivilege:
		return true
	default:
		return false
	}
}
