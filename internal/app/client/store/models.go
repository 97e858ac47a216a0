package store

import (
	"encoding/json"
	"time"

	"pontosync/internal/domain/sync"
)

// SyncStatus is the lifecycle state of a local record relative to the
// server.
type SyncStatus string

const (
	StatusClean   SyncStatus = "CLEAN"
	StatusDirty   SyncStatus = "DIRTY"
	StatusDeleted SyncStatus = "DELETED"
)

// Local records are keyed by a client-generated uuid. ServerID is nil
// until the server acknowledges the row and never changes afterwards.

type Person struct {
	ClientID       string
	ServerID       *int64
	CPF            string
	Name           string
	SyncStatus     SyncStatus
	LocalUpdatedAt time.Time
	UpdatedAt      time.Time
}

type UserAccount struct {
	ClientID       string
	ServerID       *int64
	PersonClientID string
	Username       string
	AccountType    string
	IsActive       bool
	SyncStatus     SyncStatus
	LocalUpdatedAt time.Time
	UpdatedAt      time.Time
}

type JobPosition struct {
	ClientID       string
	ServerID       *int64
	Name           string
	Description    string
	SyncStatus     SyncStatus
	LocalUpdatedAt time.Time
	UpdatedAt      time.Time
}

type Employee struct {
	ClientID            string
	ServerID            *int64
	PersonClientID      string
	RegistrationNumber  string
	JobPositionClientID string
	SyncStatus          SyncStatus
	LocalUpdatedAt      time.Time
	UpdatedAt           time.Time
}

type Schedule struct {
	ClientID         string
	ServerID         *int64
	EmployeeClientID string
	Name             string
	SyncStatus       SyncStatus
	LocalUpdatedAt   time.Time
	UpdatedAt        time.Time
}

type ScheduleHour struct {
	ClientID         string
	ServerID         *int64
	ScheduleClientID string
	Weekday          int
	StartMinutes     int
	EndMinutes       int
	BlockType        string
	Notes            string
	SyncStatus       SyncStatus
	LocalUpdatedAt   time.Time
	UpdatedAt        time.Time
}

type TimeClockEvent struct {
	ClientID         string
	ServerID         *int64
	EmployeeClientID string
	EventType        string
	OccurredAt       time.Time
	SyncStatus       SyncStatus
	LocalUpdatedAt   time.Time
}

// OutboxStatus tracks one queued action through the push pipeline.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxFailed  OutboxStatus = "FAILED"
)

type OutboxEntry struct {
	ID         string
	Type       sync.ActionType
	Payload    json.RawMessage
	Status     OutboxStatus
	RetryCount int
	LastError  string
	CreatedAt  time.Time
	LastTryAt  *time.Time
}
