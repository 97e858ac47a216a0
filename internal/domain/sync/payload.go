package sync

import (
	"encoding/json"
	"time"
)

// Ref identifies a syncable entity by whichever identity is populated:
// the client-generated id, the server-assigned id, or both.
type Ref struct {
	ClientID string `json:"client_id,omitempty"`
	ServerID *int64 `json:"server_id,omitempty"`
}

// IsZero reports whether the reference carries no identity at all.
func (r Ref) IsZero() bool {
	return r.ClientID == "" && r.ServerID == nil
}

// Typed payloads, one per action variant. Foreign references always carry
// the client/server id pair of the referent, never object state.

type PersonUpsertPayload struct {
	Ref
	CPF  string `json:"cpf"`
	Name string `json:"name"`
}

type PersonDeletePayload struct {
	Ref
}

type UserAccountUpsertPayload struct {
	Ref
	PersonClientID string `json:"person_client_id,omitempty"`
	PersonServerID *int64 `json:"person_server_id,omitempty"`
	Username       string `json:"username"`
	Password       string `json:"password,omitempty"`
	AccountType    string `json:"account_type,omitempty"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

type UserAccountDeletePayload struct {
	Ref
	Username string `json:"username,omitempty"`
}

type JobPositionUpsertPayload struct {
	Ref
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type JobPositionDeletePayload struct {
	Ref
}

type EmployeeUpsertPayload struct {
	Ref
	PersonClientID      string `json:"person_client_id,omitempty"`
	PersonServerID      *int64 `json:"person_server_id,omitempty"`
	RegistrationNumber  string `json:"registration_number"`
	JobPositionClientID string `json:"job_position_client_id,omitempty"`
	JobPositionServerID *int64 `json:"job_position_server_id,omitempty"`
	JobPositionName     string `json:"job_position_name,omitempty"`
}

type EmployeeDeletePayload struct {
	Ref
}

type ScheduleUpsertPayload struct {
	Ref
	EmployeeClientID string `json:"employee_client_id,omitempty"`
	EmployeeServerID *int64 `json:"employee_server_id,omitempty"`
	Name             string `json:"name,omitempty"`
}

type ScheduleHourUpsertPayload struct {
	Ref
	ScheduleClientID string `json:"schedule_client_id,omitempty"`
	ScheduleServerID *int64 `json:"schedule_server_id,omitempty"`
	Weekday          *int   `json:"weekday"`
	StartTimeMinutes *int   `json:"start_time_minutes"`
	EndTimeMinutes   *int   `json:"end_time_minutes"`
	BlockType        string `json:"block_type,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

type ScheduleHourDeletePayload struct {
	Ref
}

type ScheduleHourReplaceDayPayload struct {
	ScheduleClientID string                      `json:"schedule_client_id,omitempty"`
	ScheduleServerID *int64                      `json:"schedule_server_id,omitempty"`
	Weekday          *int                        `json:"weekday"`
	Hours            []ScheduleHourUpsertPayload `json:"hours"`
}

type ScheduleHourDeleteDayPayload struct {
	ScheduleClientID string `json:"schedule_client_id,omitempty"`
	ScheduleServerID *int64 `json:"schedule_server_id,omitempty"`
	Weekday          *int   `json:"weekday"`
}

type TimeClockEventCreatePayload struct {
	Ref
	EmployeeClientID string    `json:"employee_client_id,omitempty"`
	EmployeeServerID *int64    `json:"employee_server_id,omitempty"`
	EventType        string    `json:"event_type"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// DecodePayload unmarshals raw action payload bytes into the typed
// variant for the given action type. Unknown types return (nil, nil) so
// callers can treat them as tolerated no-ops.
func DecodePayload(t ActionType, raw json.RawMessage) (any, error) {
	var dst any
	switch t {
	case ActionPersonUpsert:
		dst = &PersonUpsertPayload{}
	case ActionPersonDelete:
		dst = &PersonDeletePayload{}
	case ActionUserAccountUpsert:
		dst = &UserAccountUpsertPayload{}
	case ActionUserAccountDelete:
		dst = &UserAccountDeletePayload{}
	case ActionJobPositionUpsert:
		dst = &JobPositionUpsertPayload{}
	case ActionJobPositionDelete:
		dst = &JobPositionDeletePayload{}
	case ActionEmployeeUpsert:
		dst = &EmployeeUpsertPayload{}
	case ActionEmployeeDelete:
		dst = &EmployeeDeletePayload{}
	case ActionScheduleUpsert:
		dst = &ScheduleUpsertPayload{}
	case ActionScheduleHourUpsert:
		dst = &ScheduleHourUpsertPayload{}
	case ActionScheduleHourReplaceDay:
		dst = &ScheduleHourReplaceDayPayload{}
	case ActionScheduleHourDeleteDay:
		dst = &ScheduleHourDeleteDayPayload{}
	case ActionScheduleHourDelete:
		dst = &ScheduleHourDeletePayload{}
	case ActionTimeClockEventCreate:
		dst = &TimeClockEventCreatePayload{}
	default:
		return nil, nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
