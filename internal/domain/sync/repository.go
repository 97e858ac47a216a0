package sync

import (
	"context"
	"time"
)

// Repository is the authoritative store behind the reconciliation
// service. Lookups return ErrNotFound when nothing matches.
type Repository interface {
	// Person
	GetPersonByID(ctx context.Context, id int64) (*PersonRecord, error)
	GetPersonByClientID(ctx context.Context, clientID string) (*PersonRecord, error)
	GetPersonByCPF(ctx context.Context, cpf string) (*PersonRecord, error)
	InsertPerson(ctx context.Context, rec *PersonRecord) (int64, error)
	UpdatePerson(ctx context.Context, rec *PersonRecord) error
	DeletePerson(ctx context.Context, id int64) error

	// UserAccount
	GetUserAccountByID(ctx context.Context, id int64) (*UserAccountRecord, error)
	GetUserAccountByClientID(ctx context.Context, clientID string) (*UserAccountRecord, error)
	GetUserAccountByUsername(ctx context.Context, username string) (*UserAccountRecord, error)
	GetUserAccountByPersonID(ctx context.Context, personID int64) (*UserAccountRecord, error)
	InsertUserAccount(ctx context.Context, rec *UserAccountRecord) (int64, error)
	UpdateUserAccount(ctx context.Context, rec *UserAccountRecord) error
	DeleteUserAccount(ctx context.Context, id int64) error

	// JobPosition
	GetJobPositionByID(ctx context.Context, id int64) (*JobPositionRecord, error)
	GetJobPositionByClientID(ctx context.Context, clientID string) (*JobPositionRecord, error)
	GetJobPositionByName(ctx context.Context, normalizedName string) (*JobPositionRecord, error)
	InsertJobPosition(ctx context.Context, rec *JobPositionRecord) (int64, error)
	UpdateJobPosition(ctx context.Context, rec *JobPositionRecord) error
	DeleteJobPosition(ctx context.Context, id int64) error
	CountEmployeesByJobPosition(ctx context.Context, jobPositionID int64) (int, error)

	// Employee
	GetEmployeeByID(ctx context.Context, id int64) (*EmployeeRecord, error)
	GetEmployeeByClientID(ctx context.Context, clientID string) (*EmployeeRecord, error)
	GetEmployeeByRegistration(ctx context.Context, registration string) (*EmployeeRecord, error)
	GetEmployeeByPersonID(ctx context.Context, personID int64) (*EmployeeRecord, error)
	InsertEmployee(ctx context.Context, rec *EmployeeRecord) (int64, error)
	UpdateEmployee(ctx context.Context, rec *EmployeeRecord) error
	DeleteEmployee(ctx context.Context, id int64) error

	// Schedule
	GetScheduleByID(ctx context.Context, id int64) (*ScheduleRecord, error)
	GetScheduleByClientID(ctx context.Context, clientID string) (*ScheduleRecord, error)
	ListSchedulesByEmployee(ctx context.Context, employeeID int64) ([]ScheduleRecord, error)
	InsertSchedule(ctx context.Context, rec *ScheduleRecord) (int64, error)
	UpdateSchedule(ctx context.Context, rec *ScheduleRecord) error
	DeleteSchedule(ctx context.Context, id int64) error

	// ScheduleHour
	GetScheduleHourByClientID(ctx context.Context, clientID string) (*ScheduleHourRecord, error)
	FindScheduleHourDuplicate(ctx context.Context, scheduleID int64, weekday, start, end int, blockType string) (*ScheduleHourRecord, error)
	ListScheduleHoursByDay(ctx context.Context, scheduleID int64, weekday int) ([]ScheduleHourRecord, error)
	InsertScheduleHour(ctx context.Context, rec *ScheduleHourRecord) (int64, error)
	UpdateScheduleHour(ctx context.Context, rec *ScheduleHourRecord) error
	DeleteScheduleHour(ctx context.Context, id int64) error
	DeleteScheduleHoursByDay(ctx context.Context, scheduleID int64, weekday int) error
	DeleteScheduleHoursBySchedule(ctx context.Context, scheduleID int64) error

	// TimeClockEvent
	GetTimeClockEventByClientID(ctx context.Context, clientID string) (*TimeClockEventRecord, error)
	InsertTimeClockEvent(ctx context.Context, rec *TimeClockEventRecord) (int64, error)

	// Pull deltas, ordered by updated_at ascending.
	ListPersonsSince(ctx context.Context, since time.Time) ([]PersonRecord, error)
	ListUserAccountsSince(ctx context.Context, since time.Time) ([]UserAccountRecord, error)
	ListJobPositionsSince(ctx context.Context, since time.Time) ([]JobPositionRecord, error)
	ListEmployeesSince(ctx context.Context, since time.Time) ([]EmployeeRecord, error)
	ListSchedulesSince(ctx context.Context, since time.Time) ([]ScheduleRecord, error)
	ListScheduleHoursSince(ctx context.Context, since time.Time) ([]ScheduleHourRecord, error)
}
