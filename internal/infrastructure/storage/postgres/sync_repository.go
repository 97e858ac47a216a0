package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"pontosync/internal/domain/sync"
)

// SyncRepository is the pgx-backed authoritative store behind the
// reconciliation service. Optional text columns are stored as NULL and
// surfaced as empty strings.
type SyncRepository struct {
	storage *Storage
	log     *slog.Logger
}

func NewSyncRepository(storage *Storage, log *slog.Logger) *SyncRepository {
	return &SyncRepository{
		storage: storage,
		log:     log.With(slog.String("component", "sync_repository")),
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sync.ErrNotFound
	}
	return err
}

// ---- Person ----

const personColumns = `person_id, COALESCE(client_id, ''), cpf, name, updated_at`

func scanPerson(row pgx.Row) (*sync.PersonRecord, error) {
	var rec sync.PersonRecord
	err := row.Scan(&rec.ID, &rec.ClientID, &rec.CPF, &rec.Name, &rec.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &rec, nil
}

func (r *SyncRepository) GetPersonByID(ctx context.Context, id int64) (*sync.PersonRecord, error) {
	return scanPerson(r.storage.Pool().QueryRow(ctx,
		`SELECT `+personColumns+` FROM person WHERE person_id = $1`, id))
}

func (r *SyncRepository) GetPersonByClientID(ctx context.Context, clientID string) (*sync.PersonRecord, error) {
	return scanPerson(r.storage.Pool().QueryRow(ctx,
		`SELECT `+personColumns+` FROM person WHERE client_id = $1`, clientID))
}

func (r *SyncRepository) GetPersonByCPF(ctx context.Context, cpf string) (*sync.PersonRecord, error) {
	return scanPerson(r.storage.Pool().QueryRow(ctx,
		`SELECT `+personColumns+` FROM person WHERE cpf = $1`, cpf))
}

func (r *SyncRepository) InsertPerson(ctx context.Context, rec *sync.PersonRecord) (int64, error) {
	var id int64
	err := r.storage.Pool().QueryRow(ctx,
		`INSERT INTO person (client_id, cpf, name, updated_at)
		 VALUES (NULLIF($1, ''), $2, $3, $4) RETURNING person_id`,
		rec.ClientID, rec.CPF, rec.Name, rec.UpdatedAt).Scan(&id)
	return id, err
}

func (r *SyncRepository) UpdatePerson(ctx context.Context, rec *sync.PersonRecord) error {
	_, err := r.storage.Pool().Exec(ctx,
		`UPDATE person SET client_id = COALESCE(client_id, NULLIF($2, '')), cpf = $3, name = $4, updated_at = $5
		 WHERE person_id = $1`,
		rec.ID, rec.ClientID, rec.CPF, rec.Name, rec.UpdatedAt)
	return err
}

func (r *SyncRepository) DeletePerson(ctx context.Context, id int64) error {
	_, err := r.storage.Pool().Exec(ctx, `DELETE FROM person WHERE person_id = $1`, id)
	return err
}

// ---- UserAccount ----

const accountColumns = `user_id, COALESCE(client_id, ''), person_id, username, password_hash,
	COALESCE(account_type, ''), is_active, updated_at`

func scanAccount(row pgx.Row) (*sync.UserAccountRecord, error) {
	var rec sync.UserAccountRecord
	err := row.Scan(&rec.ID, &rec.ClientID, &rec.PersonID, &rec.Username,
		&rec.PasswordHash, &rec.AccountType, &rec.IsActive, &rec.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &rec, nil
}

func (r *SyncRepository) GetUserAccountByID(ctx context.Context, id int64) (*sync.UserAccountRecord, error) {
	return scanAccount(r.storage.Pool().QueryRow(ctx,
		`SELECT `+accountColumns+` FROM user_account WHERE user_id = $1`, id))
}

func (r *SyncRepository) GetUserAccountByClientID(ctx context.Context, clientID string) (*sync.UserAccountRecord, error) {
	return scanAccount(r.storage.Pool().QueryRow(ctx,
		`SELECT `+accountColumns+` FROM user_account WHERE client_id = $1`, clientID))
}

func (r *SyncRepository) GetUserAccountByUsername(ctx context.Context, username string) (*sync.UserAccountRecord, error) {
	return scanAccount(r.storage.Pool().QueryRow(ctx,
		`SELECT `+accountColumns+` FROM user_account WHERE username = $1`, username))
}

func (r *SyncRepository) GetUserAccountByPersonID(ctx context.Context, personID int64) (*sync.UserAccountRecord, error) {
	return scanAccount(r.storage.Pool().QueryRow(ctx,
		`SELECT `+accountColumns+` FROM user_account WHERE person_id = $1`, personID))
}

func (r *SyncRepository) InsertUserAccount(ctx context.Context, rec *sync.UserAccountRecord) (int64, error) {
	var id int64
	err := r.storage.Pool().QueryRow(ctx,
		`INSERT INTO user_account (client_id, person_id, username, password_hash, account_type, is_active, updated_at)
		 VALUES (NULLIF($1, ''), $2, $3, $4, NULLIF($5, ''), $6, $7) RETURNING user_id`,
		rec.ClientID, rec.PersonID, rec.Username, rec.PasswordHash,
		rec.AccountType, rec.IsActive, rec.UpdatedAt).Scan(&id)
	return id, err
}

func (r *SyncRepository) UpdateUserAccount(ctx context.Context, rec *sync.UserAccountRecord) error {
	_, err := r.storage.Pool().Exec(ctx,
		`UPDATE user_account SET client_id = COALESCE(client_id, NULLIF($2, '')), person_id = $3,
		 username = $4, password_hash = $5, account_type = NULLIF($6, ''), is_active = $7, updated_at = $8
		 WHERE user_id = $1`,
		rec.ID, rec.ClientID, rec.PersonID, rec.Username, rec.PasswordHash,
		rec.AccountType, rec.IsActive, rec.UpdatedAt)
	return err
}

func (r *SyncRepository) DeleteUserAccount(ctx context.Context, id int64) error {
	_, err := r.storage.Pool().Exec(ctx, `DELETE FROM user_account WHERE user_id = $1`, id)
	return err
}

// ---- JobPosition ----

const jobPositionColumns = `job_position_id, COALESCE(client_id, ''), name, COALESCE(description, ''), updated_at`

func scanJobPosition(row pgx.Row) (*sync.JobPositionRecord, error) {
	var rec sync.JobPositionRecord
	err := row.Scan(&rec.ID, &rec.ClientID, &rec.Name, &rec.Description, &rec.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &rec, nil
}

func (r *SyncRepository) GetJobPositionByID(ctx context.Context, id int64) (*sync.JobPositionRecord, error) {
	return scanJobPosition(r.storage.Pool().QueryRow(ctx,
		`SELECT `+jobPositionColumns+` FROM job_position WHERE job_position_id = $1`, id))
}

func (r *SyncRepository) GetJobPositionByClientID(ctx context.Context, clientID string) (*sync.JobPositionRecord, error) {
	return scanJobPosition(r.storage.Pool().QueryRow(ctx,
		`SELECT `+jobPositionColumns+` FROM job_position WHERE client_id = $1`, clientID))
}

// GetJobPositionByName matches on the whitespace-collapsed lowercase
// form; callers pass an already normalized name.
func (r *SyncRepository) GetJobPositionByName(ctx context.Context, normalizedName string) (*sync.JobPositionRecord, error) {
	return scanJobPosition(r.storage.Pool().QueryRow(ctx,
		`SELECT `+jobPositionColumns+` FROM job_position
		 WHERE lower(regexp_replace(btrim(name), '\s+', ' ', 'g')) = $1`, normalizedName))
}

func (r *SyncRepository) InsertJobPosition(ctx context.Context, rec *sync.JobPositionRecord) (int64, error) {
	var id int64
	err := r.storage.Pool().QueryRow(ctx,
		`INSERT INTO job_position (client_id, name, description, updated_at)
		 VALUES (NULLIF($1, ''), $2, NULLIF($3, ''), $4) RETURNING job_position_id`,
		rec.ClientID, rec.Name, rec.Description, rec.UpdatedAt).Scan(&id)
	return id, err
}

func (r *SyncRepository) UpdateJobPosition(ctx context.Context, rec *sync.JobPositionRecord) error {
	_, err := r.storage.Pool().Exec(ctx,
		`UPDATE job_position SET client_id = COALESCE(client_id, NULLIF($2, '')),
		 name = $3, description = NULLIF($4, ''), updated_at = $5
		 WHERE job_position_id = $1`,
		rec.ID, rec.ClientID, rec.Name, rec.Description, rec.UpdatedAt)
	return err
}

func (r *SyncRepository) DeleteJobPosition(ctx context.Context, id int64) error {
	_, err := r.storage.Pool().Exec(ctx, `DELETE FROM job_position WHERE job_position_id = $1`, id)
	return err
}

func (r *SyncRepository) CountEmployeesByJobPosition(ctx context.Context, jobPositionID int64) (int, error) {
	var count int
	err := r.storage.Pool().QueryRow(ctx,
		`SELECT COUNT(*) FROM employee WHERE job_position_id = $1`, jobPositionID).Scan(&count)
	return count, err
}

// ---- Employee ----

const employeeColumns = `employee_id, COALESCE(client_id, ''), person_id, registration_number, job_position_id, updated_at`

func scanEmployee(row pgx.Row) (*sync.EmployeeRecord, error) {
	var rec sync.EmployeeRecord
	err := row.Scan(&rec.ID, &rec.ClientID, &rec.PersonID, &rec.RegistrationNumber,
		&rec.JobPositionID, &rec.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &rec, nil
}

func (r *SyncRepository) GetEmployeeByID(ctx context.Context, id int64) (*sync.EmployeeRecord, error) {
	return scanEmployee(r.storage.Pool().QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employee WHERE employee_id = $1`, id))
}

func (r *SyncRepository) GetEmployeeByClientID(ctx context.Context, clientID string) (*sync.EmployeeRecord, error) {
	return scanEmployee(r.storage.Pool().QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employee WHERE client_id = $1`, clientID))
}

func (r *SyncRepository) GetEmployeeByRegistration(ctx context.Context, registration string) (*sync.EmployeeRecord, error) {
	return scanEmployee(r.storage.Pool().QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employee WHERE registration_number = $1`, registration))
}

func (r *SyncRepository) GetEmployeeByPersonID(ctx context.Context, personID int64) (*sync.EmployeeRecord, error) {
	return scanEmployee(r.storage.Pool().QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employee WHERE person_id = $1`, personID))
}

func (r *SyncRepository) InsertEmployee(ctx context.Context, rec *sync.EmployeeRecord) (int64, error) {
	var id int64
	err := r.storage.Pool().QueryRow(ctx,
		`INSERT INTO employee (client_id, person_id, registration_number, job_position_id, updated_at)
		 VALUES (NULLIF($1, ''), $2, $3, $4, $5) RETURNING employee_id`,
		rec.ClientID, rec.PersonID, rec.RegistrationNumber, rec.JobPositionID, rec.UpdatedAt).Scan(&id)
	return id, err
}

func (r *SyncRepository) UpdateEmployee(ctx context.Context, rec *sync.EmployeeRecord) error {
	_, err := r.storage.Pool().Exec(ctx,
		`UPDATE employee SET client_id = COALESCE(client_id, NULLIF($2, '')), person_id = $3,
		 registration_number = $4, job_position_id = $5, updated_at = $6
		 WHERE employee_id = $1`,
		rec.ID, rec.ClientID, rec.PersonID, rec.RegistrationNumber, rec.JobPositionID, rec.UpdatedAt)
	return err
}

func (r *SyncRepository) DeleteEmployee(ctx context.Context, id int64) error {
	_, err := r.storage.Pool().Exec(ctx, `DELETE FROM employee WHERE employee_id = $1`, id)
	return err
}

// ---- Schedule ----

const scheduleColumns = `schedule_id, COALESCE(client_id, ''), employee_id, COALESCE(name, ''), updated_at`

func scanSchedule(row pgx.Row) (*sync.ScheduleRecord, error) {
	var rec sync.ScheduleRecord
	err := row.Scan(&rec.ID, &rec.ClientID, &rec.EmployeeID, &rec.Name, &rec.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &rec, nil
}

func (r *SyncRepository) GetScheduleByID(ctx context.Context, id int64) (*sync.ScheduleRecord, error) {
	return scanSchedule(r.storage.Pool().QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM schedule WHERE schedule_id = $1`, id))
}

func (r *SyncRepository) GetScheduleByClientID(ctx context.Context, clientID string) (*sync.ScheduleRecord, error) {
	return scanSchedule(r.storage.Pool().QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM schedule WHERE client_id = $1`, clientID))
}

func (r *SyncRepository) ListSchedulesByEmployee(ctx context.Context, employeeID int64) ([]sync.ScheduleRecord, error) {
	rows, err := r.storage.Pool().Query(ctx,
		`SELECT `+scheduleColumns+` FROM schedule WHERE employee_id = $1 ORDER BY schedule_id`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sync.ScheduleRecord
	for rows.Next() {
		var rec sync.ScheduleRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.EmployeeID, &rec.Name, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SyncRepository) InsertSchedule(ctx context.Context, rec *sync.ScheduleRecord) (int64, error) {
	var id int64
	err := r.storage.Pool().QueryRow(ctx,
		`INSERT INTO schedule (client_id, employee_id, name, updated_at)
		 VALUES (NULLIF($1, ''), $2, NULLIF($3, ''), $4) RETURNING schedule_id`,
		rec.ClientID, rec.EmployeeID, rec.Name, rec.UpdatedAt).Scan(&id)
	return id, err
}

func (r *SyncRepository) UpdateSchedule(ctx context.Context, rec *sync.ScheduleRecord) error {
	_, err := r.storage.Pool().Exec(ctx,
		`UPDATE schedule SET client_id = COALESCE(client_id, NULLIF($2, '')), employee_id = $3,
		 name = NULLIF($4, ''), updated_at = $5
		 WHERE schedule_id = $1`,
		rec.ID, rec.ClientID, rec.EmployeeID, rec.Name, rec.UpdatedAt)
	return err
}

func (r *SyncRepository) DeleteSchedule(ctx context.Context, id int64) error {
	_, err := r.storage.Pool().Exec(ctx, `DELETE FROM schedule WHERE schedule_id = $1`, id)
	return err
}

// ---- ScheduleHour ----

const hourColumns = `schedule_hour_id, COALESCE(client_id, ''), schedule_id, weekday,
	start_time_minutes, end_time_minutes, block_type, COALESCE(notes, ''), updated_at`

func scanHour(row pgx.Row) (*sync.ScheduleHourRecord, error) {
	var rec sync.ScheduleHourRecord
	err := row.Scan(&rec.ID, &rec.ClientID, &rec.ScheduleID, &rec.Weekday,
		&rec.StartMinutes, &rec.EndMinutes, &rec.BlockType, &rec.Notes, &rec.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &rec, nil
}

func (r *SyncRepository) GetScheduleHourByClientID(ctx context.Context, clientID string) (*sync.ScheduleHourRecord, error) {
	return scanHour(r.storage.Pool().QueryRow(ctx,
		`SELECT `+hourColumns+` FROM schedule_hour WHERE client_id = $1`, clientID))
}

func (r *SyncRepository) FindScheduleHourDuplicate(ctx context.Context, scheduleID int64, weekday, start, end int, blockType string) (*sync.ScheduleHourRecord, error) {
	return scanHour(r.storage.Pool().QueryRow(ctx,
		`SELECT `+hourColumns+` FROM schedule_hour
		 WHERE schedule_id = $1 AND weekday = $2 AND start_time_minutes = $3
		   AND end_time_minutes = $4 AND block_type = $5
		 LIMIT 1`,
		scheduleID, weekday, start, end, blockType))
}

func (r *SyncRepository) ListScheduleHoursByDay(ctx context.Context, scheduleID int64, weekday int) ([]sync.ScheduleHourRecord, error) {
	rows, err := r.storage.Pool().Query(ctx,
		`SELECT `+hourColumns+` FROM schedule_hour
		 WHERE schedule_id = $1 AND weekday = $2 ORDER BY start_time_minutes`,
		scheduleID, weekday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sync.ScheduleHourRecord
	for rows.Next() {
		var rec sync.ScheduleHourRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.ScheduleID, &rec.Weekday,
			&rec.StartMinutes, &rec.EndMinutes, &rec.BlockType, &rec.Notes, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SyncRepository) InsertScheduleHour(ctx context.Context, rec *sync.ScheduleHourRecord) (int64, error) {
	var id int64
	err := r.storage.Pool().QueryRow(ctx,
		`INSERT INTO schedule_hour (client_id, schedule_id, weekday, start_time_minutes, end_time_minutes, block_type, notes, updated_at)
		 VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, NULLIF($7, ''), $8) RETURNING schedule_hour_id`,
		rec.ClientID, rec.ScheduleID, rec.Weekday, rec.StartMinutes, rec.EndMinutes,
		rec.BlockType, rec.Notes, rec.UpdatedAt).Scan(&id)
	return id, err
}

func (r *SyncRepository) UpdateScheduleHour(ctx context.Context, rec *sync.ScheduleHourRecord) error {
	_, err := r.storage.Pool().Exec(ctx,
		`UPDATE schedule_hour SET client_id = COALESCE(client_id, NULLIF($2, '')), schedule_id = $3,
		 weekday = $4, start_time_minutes = $5, end_time_minutes = $6, block_type = $7,
		 notes = NULLIF($8, ''), updated_at = $9
		 WHERE schedule_hour_id = $1`,
		rec.ID, rec.ClientID, rec.ScheduleID, rec.Weekday, rec.StartMinutes,
		rec.EndMinutes, rec.BlockType, rec.Notes, rec.UpdatedAt)
	return err
}

func (r *SyncRepository) DeleteScheduleHour(ctx context.Context, id int64) error {
	_, err := r.storage.Pool().Exec(ctx, `DELETE FROM schedule_hour WHERE schedule_hour_id = $1`, id)
	return err
}

func (r *SyncRepository) DeleteScheduleHoursByDay(ctx context.Context, scheduleID int64, weekday int) error {
	_, err := r.storage.Pool().Exec(ctx,
		`DELETE FROM schedule_hour WHERE schedule_id = $1 AND weekday = $2`, scheduleID, weekday)
	return err
}

func (r *SyncRepository) DeleteScheduleHoursBySchedule(ctx context.Context, scheduleID int64) error {
	_, err := r.storage.Pool().Exec(ctx,
		`DELETE FROM schedule_hour WHERE schedule_id = $1`, scheduleID)
	return err
}

// ---- TimeClockEvent ----

func (r *SyncRepository) GetTimeClockEventByClientID(ctx context.Context, clientID string) (*sync.TimeClockEventRecord, error) {
	var rec sync.TimeClockEventRecord
	err := r.storage.Pool().QueryRow(ctx,
		`SELECT event_id, COALESCE(client_id, ''), employee_id, event_type, occurred_at, updated_at
		 FROM time_clock_event WHERE client_id = $1`, clientID).
		Scan(&rec.ID, &rec.ClientID, &rec.EmployeeID, &rec.EventType, &rec.OccurredAt, &rec.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &rec, nil
}

func (r *SyncRepository) InsertTimeClockEvent(ctx context.Context, rec *sync.TimeClockEventRecord) (int64, error) {
	var id int64
	err := r.storage.Pool().QueryRow(ctx,
		`INSERT INTO time_clock_event (client_id, employee_id, event_type, occurred_at, updated_at)
		 VALUES (NULLIF($1, ''), $2, $3, $4, $5) RETURNING event_id`,
		rec.ClientID, rec.EmployeeID, rec.EventType, rec.OccurredAt, rec.UpdatedAt).Scan(&id)
	return id, err
}

// ---- Pull deltas ----

func (r *SyncRepository) ListPersonsSince(ctx context.Context, since time.Time) ([]sync.PersonRecord, error) {
	rows, err := r.storage.Pool().Query(ctx,
		`SELECT `+personColumns+` FROM person WHERE updated_at >= $1 ORDER BY updated_at`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sync.PersonRecord
	for rows.Next() {
		var rec sync.PersonRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.CPF, &rec.Name, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SyncRepository) ListUserAccountsSince(ctx context.Context, since time.Time) ([]sync.UserAccountRecord, error) {
	rows, err := r.storage.Pool().Query(ctx,
		`SELECT `+accountColumns+` FROM user_account WHERE updated_at >= $1 ORDER BY updated_at`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sync.UserAccountRecord
	for rows.Next() {
		var rec sync.UserAccountRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.PersonID, &rec.Username,
			&rec.PasswordHash, &rec.AccountType, &rec.IsActive, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SyncRepository) ListJobPositionsSince(ctx context.Context, since time.Time) ([]sync.JobPositionRecord, error) {
	rows, err := r.storage.Pool().Query(ctx,
		`SELECT `+jobPositionColumns+` FROM job_position WHERE updated_at >= $1 ORDER BY updated_at`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sync.JobPositionRecord
	for rows.Next() {
		var rec sync.JobPositionRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.Name, &rec.Description, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SyncRepository) ListEmployeesSince(ctx context.Context, since time.Time) ([]sync.EmployeeRecord, error) {
	rows, err := r.storage.Pool().Query(ctx,
		`SELECT `+employeeColumns+` FROM employee WHERE updated_at >= $1 ORDER BY updated_at`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sync.EmployeeRecord
	for rows.Next() {
		var rec sync.EmployeeRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.PersonID, &rec.RegistrationNumber,
			&rec.JobPositionID, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SyncRepository) ListSchedulesSince(ctx context.Context, since time.Time) ([]sync.ScheduleRecord, error) {
	rows, err := r.storage.Pool().Query(ctx,
		`SELECT `+scheduleColumns+` FROM schedule WHERE updated_at >= $1 ORDER BY updated_at`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sync.ScheduleRecord
	for rows.Next() {
		var rec sync.ScheduleRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.EmployeeID, &rec.Name, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SyncRepository) ListScheduleHoursSince(ctx context.Context, since time.Time) ([]sync.ScheduleHourRecord, error) {
	rows, err := r.storage.Pool().Query(ctx,
		`SELECT `+hourColumns+` FROM schedule_hour WHERE updated_at >= $1 ORDER BY updated_at`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sync.ScheduleHourRecord
	for rows.Next() {
		var rec sync.ScheduleHourRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.ScheduleID, &rec.Weekday,
			&rec.StartMinutes, &rec.EndMinutes, &rec.BlockType, &rec.Notes, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
