package sync

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"pontosync/internal/domain/auth"
	"pontosync/internal/domain/schedule"
)

const (
	// BlockTypeWork is the default schedule hour block type; BlockTypeOff
	// marks a day off and zeroes the time range.
	BlockTypeWork = "WORK"
	BlockTypeOff  = "OFF"

	// DefaultJobPositionName is assigned to employees that arrive without
	// a resolvable job position.
	DefaultJobPositionName        = "Sem Cargo"
	defaultJobPositionDescription = "Criado automaticamente pela sincronização"
)

// Servicer reconciles client batches against the authoritative store.
type Servicer interface {
	Push(ctx context.Context, req PushRequest) (*PushResponse, error)
	Pull(ctx context.Context, since time.Time) (*PullResponse, error)
}

type Service struct {
	repo   Repository
	log    *slog.Logger
	pepper string
	now    func() time.Time
}

func NewService(repo Repository, log *slog.Logger, pepper string) *Service {
	return &Service{
		repo:   repo,
		log:    log.With(slog.String("component", "sync_service")),
		pepper: pepper,
		now:    time.Now,
	}
}

// Push applies one batch of actions. Every action gets exactly one
// result; business failures become per-action ERROR results, never a
// failed batch. All rows touched in one batch share one server time.
func (s *Service) Push(ctx context.Context, req PushRequest) (*PushResponse, error) {
	serverTime := s.now().UTC().Truncate(time.Millisecond)

	actions := make([]Action, len(req.Actions))
	copy(actions, req.Actions)
	SortActions(actions)

	results := make([]PushResult, 0, len(actions))
	for _, a := range actions {
		results = append(results, s.apply(ctx, a, serverTime))
	}

	return &PushResponse{Results: results, ServerTime: serverTime}, nil
}

// Pull returns every row changed at or after since, ordered by server
// update time.
func (s *Service) Pull(ctx context.Context, since time.Time) (*PullResponse, error) {
	serverTime := s.now().UTC().Truncate(time.Millisecond)
	data := PullData{
		Person:       []PersonRow{},
		UserAccount:  []UserAccountRow{},
		JobPosition:  []JobPositionRow{},
		Employee:     []EmployeeRow{},
		Schedule:     []ScheduleRow{},
		ScheduleHour: []ScheduleHourRow{},
	}

	persons, err := s.repo.ListPersonsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for _, p := range persons {
		data.Person = append(data.Person, PersonRow{
			ServerID: p.ID, ClientID: p.ClientID, CPF: p.CPF, Name: p.Name, UpdatedAt: p.UpdatedAt,
		})
	}

	accounts, err := s.repo.ListUserAccountsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		data.UserAccount = append(data.UserAccount, UserAccountRow{
			ServerID: a.ID, ClientID: a.ClientID, PersonServerID: a.PersonID,
			Username: a.Username, AccountType: a.AccountType, IsActive: a.IsActive, UpdatedAt: a.UpdatedAt,
		})
	}

	positions, err := s.repo.ListJobPositionsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for _, jp := range positions {
		data.JobPosition = append(data.JobPosition, JobPositionRow{
			ServerID: jp.ID, ClientID: jp.ClientID, Name: jp.Name, Description: jp.Description, UpdatedAt: jp.UpdatedAt,
		})
	}

	employees, err := s.repo.ListEmployeesSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		data.Employee = append(data.Employee, EmployeeRow{
			ServerID: e.ID, ClientID: e.ClientID, PersonServerID: e.PersonID,
			RegistrationNumber: e.RegistrationNumber, JobPositionServerID: e.JobPositionID, UpdatedAt: e.UpdatedAt,
		})
	}

	schedules, err := s.repo.ListSchedulesSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for _, sc := range schedules {
		data.Schedule = append(data.Schedule, ScheduleRow{
			ServerID: sc.ID, ClientID: sc.ClientID, EmployeeServerID: sc.EmployeeID, Name: sc.Name, UpdatedAt: sc.UpdatedAt,
		})
	}

	hours, err := s.repo.ListScheduleHoursSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for _, h := range hours {
		data.ScheduleHour = append(data.ScheduleHour, ScheduleHourRow{
			ServerID: h.ID, ClientID: h.ClientID, ScheduleServerID: h.ScheduleID,
			Weekday: h.Weekday, StartTimeMinutes: h.StartMinutes, EndTimeMinutes: h.EndMinutes,
			BlockType: h.BlockType, Notes: h.Notes, UpdatedAt: h.UpdatedAt,
		})
	}

	return &PullResponse{ServerTime: serverTime, Data: data}, nil
}

func (s *Service) apply(ctx context.Context, a Action, now time.Time) PushResult {
	payload, err := DecodePayload(a.Type, a.Payload)
	if err != nil {
		return PushResult{ID: a.ID, Status: StatusError, Error: CodeInvalidPayload}
	}
	if payload == nil {
		// Unknown action types from newer clients are tolerated.
		return PushResult{ID: a.ID, Status: StatusOK}
	}

	var serverID int64
	switch p := payload.(type) {
	case *PersonUpsertPayload:
		serverID, err = s.applyPersonUpsert(ctx, p, now)
	case *PersonDeletePayload:
		err = s.applyPersonDelete(ctx, p)
	case *UserAccountUpsertPayload:
		serverID, err = s.applyUserAccountUpsert(ctx, p, now)
	case *UserAccountDeletePayload:
		err = s.applyUserAccountDelete(ctx, p)
	case *JobPositionUpsertPayload:
		serverID, err = s.applyJobPositionUpsert(ctx, p, now)
	case *JobPositionDeletePayload:
		err = s.applyJobPositionDelete(ctx, p)
	case *EmployeeUpsertPayload:
		serverID, err = s.applyEmployeeUpsert(ctx, p, now)
	case *EmployeeDeletePayload:
		err = s.applyEmployeeDelete(ctx, p)
	case *ScheduleUpsertPayload:
		serverID, err = s.applyScheduleUpsert(ctx, p, now)
	case *ScheduleHourUpsertPayload:
		serverID, err = s.applyScheduleHourUpsert(ctx, p, now)
	case *ScheduleHourReplaceDayPayload:
		err = s.applyScheduleHourReplaceDay(ctx, p, now)
	case *ScheduleHourDeleteDayPayload:
		err = s.applyScheduleHourDeleteDay(ctx, p)
	case *ScheduleHourDeletePayload:
		err = s.applyScheduleHourDelete(ctx, p)
	case *TimeClockEventCreatePayload:
		serverID, err = s.applyTimeClockEventCreate(ctx, p, now)
	default:
		return PushResult{ID: a.ID, Status: StatusError, Error: CodeInvalidAction}
	}

	if err != nil {
		var actErr *ActionError
		if errors.As(err, &actErr) {
			if actErr.Code == CodeMissingSchedule {
				// Tolerated: the schedule never made it to the server, the
				// hour is acknowledged so the client stops retrying it.
				return PushResult{ID: a.ID, Status: StatusOK, Error: CodeMissingSchedule}
			}
			return PushResult{ID: a.ID, Status: StatusError, Error: actErr.Code}
		}
		s.log.Error("action apply failed", slog.String("action_id", a.ID), slog.String("type", string(a.Type)), slog.String("error", err.Error()))
		return PushResult{ID: a.ID, Status: StatusError, Error: CodeInternal}
	}

	res := PushResult{ID: a.ID, Status: StatusOK, UpdatedAt: &now}
	if serverID > 0 {
		res.ServerID = &serverID
	}
	return res
}

// NormalizeJobName collapses whitespace and lowercases a job position
// name; natural-key uniqueness is enforced on the normalized form.
func NormalizeJobName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// notFoundOK converts ErrNotFound into a nil record.
func notFoundOK[T any](rec *T, err error) (*T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (s *Service) resolvePersonID(ctx context.Context, clientID string, serverID *int64) (int64, error) {
	if serverID != nil && *serverID > 0 {
		return *serverID, nil
	}
	if clientID != "" {
		p, err := notFoundOK(s.repo.GetPersonByClientID(ctx, clientID))
		if err != nil {
			return 0, err
		}
		if p != nil {
			return p.ID, nil
		}
	}
	return 0, nil
}

func (s *Service) resolveEmployeeID(ctx context.Context, clientID string, serverID *int64) (int64, error) {
	if serverID != nil && *serverID > 0 {
		return *serverID, nil
	}
	if clientID != "" {
		e, err := notFoundOK(s.repo.GetEmployeeByClientID(ctx, clientID))
		if err != nil {
			return 0, err
		}
		if e != nil {
			return e.ID, nil
		}
	}
	return 0, nil
}

// resolveScheduleID verifies server ids against the store: a dangling
// schedule reference must be detected, not trusted.
func (s *Service) resolveScheduleID(ctx context.Context, clientID string, serverID *int64) (int64, error) {
	if serverID != nil && *serverID > 0 {
		sc, err := notFoundOK(s.repo.GetScheduleByID(ctx, *serverID))
		if err != nil {
			return 0, err
		}
		if sc != nil {
			return sc.ID, nil
		}
	}
	if clientID != "" {
		sc, err := notFoundOK(s.repo.GetScheduleByClientID(ctx, clientID))
		if err != nil {
			return 0, err
		}
		if sc != nil {
			return sc.ID, nil
		}
	}
	return 0, nil
}

func (s *Service) resolveJobPositionID(ctx context.Context, p *EmployeeUpsertPayload) (int64, error) {
	if p.JobPositionServerID != nil && *p.JobPositionServerID > 0 {
		return *p.JobPositionServerID, nil
	}
	if p.JobPositionClientID != "" {
		jp, err := notFoundOK(s.repo.GetJobPositionByClientID(ctx, p.JobPositionClientID))
		if err != nil {
			return 0, err
		}
		if jp != nil {
			return jp.ID, nil
		}
	}
	if p.JobPositionName != "" {
		jp, err := notFoundOK(s.repo.GetJobPositionByName(ctx, NormalizeJobName(p.JobPositionName)))
		if err != nil {
			return 0, err
		}
		if jp != nil {
			return jp.ID, nil
		}
	}
	return 0, nil
}

func (s *Service) ensureDefaultJobPosition(ctx context.Context, now time.Time) (int64, error) {
	jp, err := notFoundOK(s.repo.GetJobPositionByName(ctx, NormalizeJobName(DefaultJobPositionName)))
	if err != nil {
		return 0, err
	}
	if jp != nil {
		return jp.ID, nil
	}
	return s.repo.InsertJobPosition(ctx, &JobPositionRecord{
		Name:        DefaultJobPositionName,
		Description: defaultJobPositionDescription,
		UpdatedAt:   now,
	})
}

func (s *Service) applyPersonUpsert(ctx context.Context, p *PersonUpsertPayload, now time.Time) (int64, error) {
	if p.CPF == "" || p.Name == "" {
		return 0, actionErr(CodeMissingPersonFields)
	}

	id, err := s.resolvePersonID(ctx, p.ClientID, p.ServerID)
	if err != nil {
		return 0, err
	}

	byCPF, err := notFoundOK(s.repo.GetPersonByCPF(ctx, p.CPF))
	if err != nil {
		return 0, err
	}
	if byCPF != nil && byCPF.ID != id {
		return 0, actionErr(CodeDuplicateCPF)
	}

	if id > 0 {
		existing, err := notFoundOK(s.repo.GetPersonByID(ctx, id))
		if err != nil {
			return 0, err
		}
		if existing != nil {
			existing.CPF = p.CPF
			existing.Name = p.Name
			if existing.ClientID == "" {
				existing.ClientID = p.ClientID
			}
			existing.UpdatedAt = now
			return id, s.repo.UpdatePerson(ctx, existing)
		}
	}

	return s.repo.InsertPerson(ctx, &PersonRecord{
		ClientID: p.ClientID, CPF: p.CPF, Name: p.Name, UpdatedAt: now,
	})
}

func (s *Service) applyPersonDelete(ctx context.Context, p *PersonDeletePayload) error {
	id, err := s.resolvePersonID(ctx, p.ClientID, p.ServerID)
	if err != nil {
		return err
	}
	if id == 0 {
		return nil
	}

	// Explicit cascade in dependency order: employee subtree first, then
	// the account, then the person itself.
	emp, err := notFoundOK(s.repo.GetEmployeeByPersonID(ctx, id))
	if err != nil {
		return err
	}
	if emp != nil {
		if err := s.deleteEmployeeCascade(ctx, emp.ID); err != nil {
			return err
		}
	}

	acc, err := notFoundOK(s.repo.GetUserAccountByPersonID(ctx, id))
	if err != nil {
		return err
	}
	if acc != nil {
		if err := s.repo.DeleteUserAccount(ctx, acc.ID); err != nil {
			return err
		}
	}

	return s.repo.DeletePerson(ctx, id)
}

func (s *Service) applyUserAccountUpsert(ctx context.Context, p *UserAccountUpsertPayload, now time.Time) (int64, error) {
	if p.Username == "" {
		return 0, actionErr(CodeMissingUserAccountFields)
	}

	personID, err := s.resolvePersonID(ctx, p.PersonClientID, p.PersonServerID)
	if err != nil {
		return 0, err
	}
	if personID == 0 {
		return 0, actionErr(CodeMissingUserAccountFields)
	}

	var existing *UserAccountRecord
	if p.ServerID != nil && *p.ServerID > 0 {
		existing, err = notFoundOK(s.repo.GetUserAccountByID(ctx, *p.ServerID))
	}
	if existing == nil && err == nil && p.ClientID != "" {
		existing, err = notFoundOK(s.repo.GetUserAccountByClientID(ctx, p.ClientID))
	}
	if existing == nil && err == nil {
		existing, err = notFoundOK(s.repo.GetUserAccountByPersonID(ctx, personID))
	}
	if err != nil {
		return 0, err
	}

	byUsername, err := notFoundOK(s.repo.GetUserAccountByUsername(ctx, p.Username))
	if err != nil {
		return 0, err
	}
	if byUsername != nil && (existing == nil || byUsername.ID != existing.ID) {
		return 0, actionErr(CodeDuplicateUsername)
	}

	isActive := true
	if p.IsActive != nil {
		isActive = *p.IsActive
	}

	if existing != nil {
		existing.Username = p.Username
		existing.PersonID = personID
		existing.IsActive = isActive
		if p.AccountType != "" {
			existing.AccountType = p.AccountType
		}
		if existing.ClientID == "" {
			existing.ClientID = p.ClientID
		}
		if p.Password != "" {
			hash, err := auth.HashPassword(p.Password, s.pepper)
			if err != nil {
				return 0, err
			}
			existing.PasswordHash = hash
		}
		existing.UpdatedAt = now
		return existing.ID, s.repo.UpdateUserAccount(ctx, existing)
	}

	if p.Password == "" {
		return 0, actionErr(CodeMissingPassword)
	}
	hash, err := auth.HashPassword(p.Password, s.pepper)
	if err != nil {
		return 0, err
	}

	return s.repo.InsertUserAccount(ctx, &UserAccountRecord{
		ClientID:     p.ClientID,
		PersonID:     personID,
		Username:     p.Username,
		PasswordHash: hash,
		AccountType:  p.AccountType,
		IsActive:     isActive,
		UpdatedAt:    now,
	})
}

func (s *Service) applyUserAccountDelete(ctx context.Context, p *UserAccountDeletePayload) error {
	var existing *UserAccountRecord
	var err error
	if p.ServerID != nil && *p.ServerID > 0 {
		existing, err = notFoundOK(s.repo.GetUserAccountByID(ctx, *p.ServerID))
	}
	if existing == nil && err == nil && p.ClientID != "" {
		existing, err = notFoundOK(s.repo.GetUserAccountByClientID(ctx, p.ClientID))
	}
	if existing == nil && err == nil && p.Username != "" {
		existing, err = notFoundOK(s.repo.GetUserAccountByUsername(ctx, p.Username))
	}
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	return s.repo.DeleteUserAccount(ctx, existing.ID)
}

func (s *Service) applyJobPositionUpsert(ctx context.Context, p *JobPositionUpsertPayload, now time.Time) (int64, error) {
	if p.Name == "" {
		return 0, actionErr(CodeInvalidAction)
	}

	var existing *JobPositionRecord
	var err error
	if p.ServerID != nil && *p.ServerID > 0 {
		existing, err = notFoundOK(s.repo.GetJobPositionByID(ctx, *p.ServerID))
	}
	if existing == nil && err == nil && p.ClientID != "" {
		existing, err = notFoundOK(s.repo.GetJobPositionByClientID(ctx, p.ClientID))
	}
	if existing == nil && err == nil {
		existing, err = notFoundOK(s.repo.GetJobPositionByName(ctx, NormalizeJobName(p.Name)))
	}
	if err != nil {
		return 0, err
	}

	if existing != nil {
		existing.Name = p.Name
		if p.Description != "" {
			existing.Description = p.Description
		}
		if existing.ClientID == "" {
			existing.ClientID = p.ClientID
		}
		existing.UpdatedAt = now
		return existing.ID, s.repo.UpdateJobPosition(ctx, existing)
	}

	return s.repo.InsertJobPosition(ctx, &JobPositionRecord{
		ClientID: p.ClientID, Name: p.Name, Description: p.Description, UpdatedAt: now,
	})
}

func (s *Service) applyJobPositionDelete(ctx context.Context, p *JobPositionDeletePayload) error {
	var existing *JobPositionRecord
	var err error
	if p.ServerID != nil && *p.ServerID > 0 {
		existing, err = notFoundOK(s.repo.GetJobPositionByID(ctx, *p.ServerID))
	}
	if existing == nil && err == nil && p.ClientID != "" {
		existing, err = notFoundOK(s.repo.GetJobPositionByClientID(ctx, p.ClientID))
	}
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	count, err := s.repo.CountEmployeesByJobPosition(ctx, existing.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return actionErr(CodeJobPositionInUse)
	}

	return s.repo.DeleteJobPosition(ctx, existing.ID)
}

func (s *Service) applyEmployeeUpsert(ctx context.Context, p *EmployeeUpsertPayload, now time.Time) (int64, error) {
	if p.RegistrationNumber == "" {
		return 0, actionErr(CodeMissingEmployeeFields)
	}

	personID, err := s.resolvePersonID(ctx, p.PersonClientID, p.PersonServerID)
	if err != nil {
		return 0, err
	}
	if personID == 0 {
		return 0, actionErr(CodeMissingEmployeeFields)
	}

	var existing *EmployeeRecord
	if p.ServerID != nil && *p.ServerID > 0 {
		existing, err = notFoundOK(s.repo.GetEmployeeByID(ctx, *p.ServerID))
	}
	if existing == nil && err == nil && p.ClientID != "" {
		existing, err = notFoundOK(s.repo.GetEmployeeByClientID(ctx, p.ClientID))
	}
	if existing == nil && err == nil {
		existing, err = notFoundOK(s.repo.GetEmployeeByPersonID(ctx, personID))
	}
	if err != nil {
		return 0, err
	}

	byReg, err := notFoundOK(s.repo.GetEmployeeByRegistration(ctx, p.RegistrationNumber))
	if err != nil {
		return 0, err
	}
	if byReg != nil && (existing == nil || byReg.ID != existing.ID) {
		return 0, actionErr(CodeDuplicateRegistration)
	}

	jobPositionID, err := s.resolveJobPositionID(ctx, p)
	if err != nil {
		return 0, err
	}
	if jobPositionID == 0 {
		jobPositionID, err = s.ensureDefaultJobPosition(ctx, now)
		if err != nil {
			return 0, err
		}
	}

	if existing != nil {
		existing.PersonID = personID
		existing.RegistrationNumber = p.RegistrationNumber
		existing.JobPositionID = &jobPositionID
		if existing.ClientID == "" {
			existing.ClientID = p.ClientID
		}
		existing.UpdatedAt = now
		return existing.ID, s.repo.UpdateEmployee(ctx, existing)
	}

	return s.repo.InsertEmployee(ctx, &EmployeeRecord{
		ClientID:           p.ClientID,
		PersonID:           personID,
		RegistrationNumber: p.RegistrationNumber,
		JobPositionID:      &jobPositionID,
		UpdatedAt:          now,
	})
}

func (s *Service) deleteEmployeeCascade(ctx context.Context, employeeID int64) error {
	schedules, err := s.repo.ListSchedulesByEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	for _, sc := range schedules {
		if err := s.repo.DeleteScheduleHoursBySchedule(ctx, sc.ID); err != nil {
			return err
		}
		if err := s.repo.DeleteSchedule(ctx, sc.ID); err != nil {
			return err
		}
	}
	return s.repo.DeleteEmployee(ctx, employeeID)
}

func (s *Service) applyEmployeeDelete(ctx context.Context, p *EmployeeDeletePayload) error {
	id, err := s.resolveEmployeeID(ctx, p.ClientID, p.ServerID)
	if err != nil {
		return err
	}
	if id == 0 {
		return nil
	}
	existing, err := notFoundOK(s.repo.GetEmployeeByID(ctx, id))
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	return s.deleteEmployeeCascade(ctx, id)
}

func (s *Service) applyScheduleUpsert(ctx context.Context, p *ScheduleUpsertPayload, now time.Time) (int64, error) {
	employeeID, err := s.resolveEmployeeID(ctx, p.EmployeeClientID, p.EmployeeServerID)
	if err != nil {
		return 0, err
	}
	if employeeID == 0 {
		return 0, actionErr(CodeMissingScheduleFields)
	}

	var existing *ScheduleRecord
	if p.ServerID != nil && *p.ServerID > 0 {
		existing, err = notFoundOK(s.repo.GetScheduleByID(ctx, *p.ServerID))
	}
	if existing == nil && err == nil && p.ClientID != "" {
		existing, err = notFoundOK(s.repo.GetScheduleByClientID(ctx, p.ClientID))
	}
	if err != nil {
		return 0, err
	}

	if existing != nil {
		existing.EmployeeID = employeeID
		if p.Name != "" {
			existing.Name = p.Name
		}
		if existing.ClientID == "" {
			existing.ClientID = p.ClientID
		}
		existing.UpdatedAt = now
		return existing.ID, s.repo.UpdateSchedule(ctx, existing)
	}

	return s.repo.InsertSchedule(ctx, &ScheduleRecord{
		ClientID: p.ClientID, EmployeeID: employeeID, Name: p.Name, UpdatedAt: now,
	})
}

func clampMinutes(v int) int {
	if v < 0 {
		return 0
	}
	if v > schedule.MinutesPerDay-1 {
		return schedule.MinutesPerDay - 1
	}
	return v
}

func (s *Service) applyScheduleHourUpsert(ctx context.Context, p *ScheduleHourUpsertPayload, now time.Time) (int64, error) {
	blockType := p.BlockType
	if blockType == "" {
		blockType = BlockTypeWork
	}

	if p.Weekday == nil {
		return 0, actionErr(CodeMissingHourFields)
	}
	weekday, err := schedule.NormalizeWeekday(*p.Weekday)
	if err != nil {
		return 0, actionErr(CodeMissingHourFields)
	}

	var start, end int
	if blockType == BlockTypeOff {
		start, end = 0, 0
	} else {
		if p.StartTimeMinutes == nil || p.EndTimeMinutes == nil {
			return 0, actionErr(CodeMissingHourFields)
		}
		start = clampMinutes(*p.StartTimeMinutes)
		end = clampMinutes(*p.EndTimeMinutes)
	}

	if p.ScheduleClientID == "" && (p.ScheduleServerID == nil || *p.ScheduleServerID == 0) {
		return 0, actionErr(CodeMissingHourFields)
	}
	scheduleID, err := s.resolveScheduleID(ctx, p.ScheduleClientID, p.ScheduleServerID)
	if err != nil {
		return 0, err
	}
	if scheduleID == 0 {
		return 0, actionErr(CodeMissingSchedule)
	}

	var existing *ScheduleHourRecord
	if p.ClientID != "" {
		existing, err = notFoundOK(s.repo.GetScheduleHourByClientID(ctx, p.ClientID))
		if err != nil {
			return 0, err
		}
	}
	if existing == nil && p.ServerID != nil && *p.ServerID > 0 {
		// Updates addressed purely by server id.
		existing = &ScheduleHourRecord{ID: *p.ServerID}
	}

	if existing != nil && existing.ID > 0 {
		existing.ScheduleID = scheduleID
		existing.Weekday = weekday
		existing.StartMinutes = start
		existing.EndMinutes = end
		existing.BlockType = blockType
		existing.Notes = p.Notes
		if existing.ClientID == "" {
			existing.ClientID = p.ClientID
		}
		existing.UpdatedAt = now
		return existing.ID, s.repo.UpdateScheduleHour(ctx, existing)
	}

	dup, err := notFoundOK(s.repo.FindScheduleHourDuplicate(ctx, scheduleID, weekday, start, end, blockType))
	if err != nil {
		return 0, err
	}
	if dup != nil {
		return 0, actionErr(CodeDuplicateScheduleHour)
	}

	if start < end {
		day, err := s.repo.ListScheduleHoursByDay(ctx, scheduleID, weekday)
		if err != nil {
			return 0, err
		}
		candidate := schedule.Range{Start: start, End: end}
		for _, h := range day {
			if schedule.Overlaps(candidate, schedule.Range{Start: h.StartMinutes, End: h.EndMinutes}) {
				return 0, actionErr(CodeScheduleHourConflict)
			}
		}
	}

	return s.repo.InsertScheduleHour(ctx, &ScheduleHourRecord{
		ClientID:     p.ClientID,
		ScheduleID:   scheduleID,
		Weekday:      weekday,
		StartMinutes: start,
		EndMinutes:   end,
		BlockType:    blockType,
		Notes:        p.Notes,
		UpdatedAt:    now,
	})
}

func (s *Service) applyScheduleHourReplaceDay(ctx context.Context, p *ScheduleHourReplaceDayPayload, now time.Time) error {
	if p.Weekday == nil {
		return actionErr(CodeMissingHourFields)
	}
	weekday, err := schedule.NormalizeWeekday(*p.Weekday)
	if err != nil {
		return actionErr(CodeMissingHourFields)
	}

	scheduleID, err := s.resolveScheduleID(ctx, p.ScheduleClientID, p.ScheduleServerID)
	if err != nil {
		return err
	}
	if scheduleID == 0 {
		return actionErr(CodeMissingSchedule)
	}

	if err := s.repo.DeleteScheduleHoursByDay(ctx, scheduleID, weekday); err != nil {
		return err
	}

	for _, h := range p.Hours {
		blockType := h.BlockType
		if blockType == "" {
			blockType = BlockTypeWork
		}
		var start, end int
		if blockType == BlockTypeOff {
			start, end = 0, 0
		} else {
			if h.StartTimeMinutes == nil || h.EndTimeMinutes == nil {
				return actionErr(CodeMissingHourFields)
			}
			start = clampMinutes(*h.StartTimeMinutes)
			end = clampMinutes(*h.EndTimeMinutes)
		}
		_, err := s.repo.InsertScheduleHour(ctx, &ScheduleHourRecord{
			ClientID:     h.ClientID,
			ScheduleID:   scheduleID,
			Weekday:      weekday,
			StartMinutes: start,
			EndMinutes:   end,
			BlockType:    blockType,
			Notes:        h.Notes,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) applyScheduleHourDeleteDay(ctx context.Context, p *ScheduleHourDeleteDayPayload) error {
	if p.Weekday == nil {
		return actionErr(CodeMissingHourFields)
	}
	weekday, err := schedule.NormalizeWeekday(*p.Weekday)
	if err != nil {
		return actionErr(CodeMissingHourFields)
	}

	scheduleID, err := s.resolveScheduleID(ctx, p.ScheduleClientID, p.ScheduleServerID)
	if err != nil {
		return err
	}
	if scheduleID == 0 {
		return nil
	}
	return s.repo.DeleteScheduleHoursByDay(ctx, scheduleID, weekday)
}

func (s *Service) applyScheduleHourDelete(ctx context.Context, p *ScheduleHourDeletePayload) error {
	if p.ServerID != nil && *p.ServerID > 0 {
		return s.repo.DeleteScheduleHour(ctx, *p.ServerID)
	}
	if p.ClientID != "" {
		existing, err := notFoundOK(s.repo.GetScheduleHourByClientID(ctx, p.ClientID))
		if err != nil {
			return err
		}
		if existing != nil {
			return s.repo.DeleteScheduleHour(ctx, existing.ID)
		}
	}
	return nil
}

func (s *Service) applyTimeClockEventCreate(ctx context.Context, p *TimeClockEventCreatePayload, now time.Time) (int64, error) {
	if p.ClientID != "" {
		existing, err := notFoundOK(s.repo.GetTimeClockEventByClientID(ctx, p.ClientID))
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return existing.ID, nil
		}
	}

	employeeID, err := s.resolveEmployeeID(ctx, p.EmployeeClientID, p.EmployeeServerID)
	if err != nil {
		return 0, err
	}
	if employeeID == 0 || p.EventType == "" {
		return 0, actionErr(CodeMissingEmployeeFields)
	}

	return s.repo.InsertTimeClockEvent(ctx, &TimeClockEventRecord{
		ClientID:   p.ClientID,
		EmployeeID: employeeID,
		EventType:  p.EventType,
		OccurredAt: p.OccurredAt,
		UpdatedAt:  now,
	})
}
