package apperrors

import (
	"net/http"
)

// NotFound - 404 для конкретного домена
func NotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrInvalidOperation - 400, операция невозможна по бизнес-правилам
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - 400, объект уже не в том состоянии
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Follow ---

var ErrDuplicateFollowRequest = New(
	CodeDuplicateRequest,
	"follow",
	"Follow request already sent",
	http.StatusBadRequest,
)

var ErrFollowRequestNotFound = New(
	CodeNotFound,
	"follow",
	"Follow request not found",
	http.StatusNotFound,
)

var ErrCannotFollowSelf = New(
	CodeInvalidOperation,
	"follow",
	"You cannot follow yourself",
	http.StatusBadRequest,
)

// --- Notifications ---

var ErrNotificationNotFound = New(
	CodeNotFound,
	"notification",
	"Notification not found",
	http.StatusNotFound,
)

// --- Users & Auth ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrUserAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"User already exists",
	http.StatusBadRequest,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// --- Jobs ---

var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job not found",
	http.StatusNotFound,
)

// чужая вакансия отдает 401, клиенты на это завязаны
var ErrNotJobOwner = New(
	CodeForbidden,
	"job",
	"Not authorized to modify this job",
	http.StatusUnauthorized,
)

var ErrAlreadyApplied = New(
	CodeInvalidOperation,
	"job",
	"Already applied for this job",
	http.StatusBadRequest,
)

// --- Chat & Groups ---

var ErrGroupNotFound = New(
	CodeNotFound,
	"group",
	"Group not found",
	http.StatusNotFound,
)

var ErrNotGroupMember = New(
	CodeForbidden,
	"group",
	"You are not a member of this group",
	http.StatusForbidden,
)

var ErrMessageTargetMissing = New(
	CodeValidationFailed,
	"chat",
	"Missing content, receiver or group",
	http.StatusBadRequest,
)

var ErrTooManyRequests = New(
	CodeRateLimited,
	"request",
	"Too many requests",
	http.StatusTooManyRequests,
)
