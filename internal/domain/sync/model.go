package sync

import "time"

// Authoritative server-side records. IDs are server-assigned and
// monotonically increasing; ClientID is the originating client identity
// when the row was created through a push.

type PersonRecord struct {
	ID        int64
	ClientID  string
	CPF       string
	Name      string
	UpdatedAt time.Time
}

type UserAccountRecord struct {
	ID           int64
	ClientID     string
	PersonID     int64
	Username     string
	PasswordHash string
	AccountType  string
	IsActive     bool
	UpdatedAt    time.Time
}

type JobPositionRecord struct {
	ID          int64
	ClientID    string
	Name        string
	Description string
	UpdatedAt   time.Time
}

type EmployeeRecord struct {
	ID                 int64
	ClientID           string
	PersonID           int64
	RegistrationNumber string
	JobPositionID      *int64
	UpdatedAt          time.Time
}

type ScheduleRecord struct {
	ID         int64
	ClientID   string
	EmployeeID int64
	Name       string
	UpdatedAt  time.Time
}

type ScheduleHourRecord struct {
	ID           int64
	ClientID     string
	ScheduleID   int64
	Weekday      int
	StartMinutes int
	EndMinutes   int
	BlockType    string
	Notes        string
	UpdatedAt    time.Time
}

type TimeClockEventRecord struct {
	ID         int64
	ClientID   string
	EmployeeID int64
	EventType  string
	OccurredAt time.Time
	UpdatedAt  time.Time
}
