package sync

import "errors"

// ErrNotFound is returned by repositories when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Per-action error codes surfaced in push results. The client maps them
// to user-facing messages.
const (
	CodeDuplicateCPF             = "duplicate_cpf"
	CodeDuplicateRegistration    = "duplicate_registration"
	CodeDuplicateUsername        = "duplicate_username"
	CodeDuplicateScheduleHour    = "duplicate_schedule_hour"
	CodeScheduleHourConflict     = "schedule_hour_conflict"
	CodeJobPositionInUse         = "job_position_in_use"
	CodeMissingPersonFields      = "missing_person_fields"
	CodeMissingUserAccountFields = "missing_user_account_fields"
	CodeMissingEmployeeFields    = "missing_employee_fields"
	CodeMissingScheduleFields    = "missing_schedule_fields"
	CodeMissingHourFields        = "missing_schedule_hour_fields"
	CodeMissingPassword          = "missing_password"
	CodeMissingUserAccount       = "missing_user_account"
	CodeMissingSchedule          = "missing_schedule"
	CodeInvalidAction            = "invalid_action"
	CodeInvalidPayload           = "payload_json_invalid"
	CodeInternal                 = "internal_error"
)

// ActionError carries a machine-readable code back to the client as a
// per-action ERROR result without failing the batch.
type ActionError struct {
	Code string
}

func (e *ActionError) Error() string {
	return e.Code
}

func actionErr(code string) error {
	return &ActionError{Code: code}
}
