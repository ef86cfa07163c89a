package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of CL, SL, PL",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"unknown status filter value",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)

	// Transisi yang tidak terdefinisi dari status sekarang, termasuk race
	// dua transisi bersamaan (status berubah antara read dan write): conflict.
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"action is not valid for the current leave status",
		http.StatusConflict,
	)
	ErrNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only draft leave requests can be modified",
		http.StatusConflict,
	)

	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owner of the leave request may perform this action",
		http.StatusForbidden,
	)
	ErrSelfApproval = apperror.New(
		apperror.CodeForbidden,
		"you cannot approve or reject your own leave request",
		http.StatusForbidden,
	)
	ErrNotTeamManager = apperror.New(
		apperror.CodeForbidden,
		"managers can only act on requests from their direct reports",
		http.StatusForbidden,
	)
	ErrRoleNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"your role is not allowed to perform this action",
		http.StatusForbidden,
	)
	ErrViewForbidden = apperror.New(
		apperror.CodeForbidden,
		"you do not have access to this leave request",
		http.StatusForbidden,
	)
)
