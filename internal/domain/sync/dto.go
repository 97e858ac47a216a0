package sync

import "time"

// Result statuses for individual push actions.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

type PushRequest struct {
	ClientTime time.Time `json:"client_time" format:"date-time"`
	Actions    []Action  `json:"actions"`
}

type PushResult struct {
	ID        string     `json:"id"`
	Status    string     `json:"status" enum:"OK,ERROR"`
	ServerID  *int64     `json:"server_id,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type PushResponse struct {
	Results    []PushResult `json:"results"`
	ServerTime time.Time    `json:"server_time" format:"date-time"`
}

type PullResponse struct {
	ServerTime time.Time `json:"server_time" format:"date-time"`
	Data       PullData  `json:"data"`
}

type PullData struct {
	Person       []PersonRow       `json:"person"`
	UserAccount  []UserAccountRow  `json:"user_account"`
	JobPosition  []JobPositionRow  `json:"job_position"`
	Employee     []EmployeeRow     `json:"employee"`
	Schedule     []ScheduleRow     `json:"schedule"`
	ScheduleHour []ScheduleHourRow `json:"schedule_hour"`
}

// Pull rows carry the authoritative server identity, the originating
// client identity when known, parent server ids and the server clock.

type PersonRow struct {
	ServerID  int64     `json:"server_id"`
	ClientID  string    `json:"client_id,omitempty"`
	CPF       string    `json:"cpf"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserAccountRow struct {
	ServerID       int64     `json:"server_id"`
	ClientID       string    `json:"client_id,omitempty"`
	PersonServerID int64     `json:"person_server_id"`
	Username       string    `json:"username"`
	AccountType    string    `json:"account_type,omitempty"`
	IsActive       bool      `json:"is_active"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type JobPositionRow struct {
	ServerID    int64     `json:"server_id"`
	ClientID    string    `json:"client_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EmployeeRow struct {
	ServerID            int64     `json:"server_id"`
	ClientID            string    `json:"client_id,omitempty"`
	PersonServerID      int64     `json:"person_server_id"`
	RegistrationNumber  string    `json:"registration_number"`
	JobPositionServerID *int64    `json:"job_position_server_id,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type ScheduleRow struct {
	ServerID         int64     `json:"server_id"`
	ClientID         string    `json:"client_id,omitempty"`
	EmployeeServerID int64     `json:"employee_server_id"`
	Name             string    `json:"name,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ScheduleHourRow struct {
	ServerID         int64     `json:"server_id"`
	ClientID         string    `json:"client_id,omitempty"`
	ScheduleServerID int64     `json:"schedule_server_id"`
	Weekday          int       `json:"weekday"`
	StartTimeMinutes int       `json:"start_time_minutes"`
	EndTimeMinutes   int       `json:"end_time_minutes"`
	BlockType        string    `json:"block_type"`
	Notes            string    `json:"notes,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}
