package sync

import (
	"encoding/json"
	"sort"
	"time"
)

// ActionType identifies one variant of the outbox action union.
type ActionType string

const (
	ActionPersonUpsert           ActionType = "PERSON_UPSERT"
	ActionPersonDelete           ActionType = "PERSON_DELETE"
	ActionUserAccountUpsert      ActionType = "USER_ACCOUNT_UPSERT"
	ActionUserAccountDelete      ActionType = "USER_ACCOUNT_DELETE"
	ActionJobPositionUpsert      ActionType = "JOB_POSITION_UPSERT"
	ActionJobPositionDelete      ActionType = "JOB_POSITION_DELETE"
	ActionEmployeeUpsert         ActionType = "EMPLOYEE_UPSERT"
	ActionEmployeeDelete         ActionType = "EMPLOYEE_DELETE"
	ActionScheduleUpsert         ActionType = "SCHEDULE_UPSERT"
	ActionScheduleHourUpsert     ActionType = "SCHEDULE_HOUR_UPSERT"
	ActionScheduleHourReplaceDay ActionType = "SCHEDULE_HOUR_REPLACE_DAY"
	ActionScheduleHourDeleteDay  ActionType = "SCHEDULE_HOUR_DELETE_DAY"
	ActionScheduleHourDelete     ActionType = "SCHEDULE_HOUR_DELETE"
	ActionTimeClockEventCreate   ActionType = "TIME_CLOCK_EVENT_CREATE"
)

// actionPriority orders a drained batch so that referenced entities are
// created before their dependents and deletes run last, person deletes
// absolute last.
var actionPriority = map[ActionType]int{
	ActionPersonUpsert:           1,
	ActionUserAccountUpsert:      2,
	ActionJobPositionUpsert:      2,
	ActionEmployeeUpsert:         3,
	ActionScheduleUpsert:         4,
	ActionScheduleHourReplaceDay: 5,
	ActionScheduleHourDeleteDay:  6,
	ActionScheduleHourUpsert:     6,
	ActionScheduleHourDelete:     6,
	ActionTimeClockEventCreate:   7,
	ActionUserAccountDelete:      90,
	ActionJobPositionDelete:      90,
	ActionEmployeeDelete:         91,
	ActionPersonDelete:           92,
}

const unknownActionPriority = 99

// Priority returns the drain-order rank of the action type.
func (t ActionType) Priority() int {
	if p, ok := actionPriority[t]; ok {
		return p
	}
	return unknownActionPriority
}

// IsDelete reports whether a confirmed result for this action removes the
// local record instead of marking it clean.
func (t ActionType) IsDelete() bool {
	switch t {
	case ActionPersonDelete, ActionUserAccountDelete, ActionJobPositionDelete,
		ActionEmployeeDelete, ActionScheduleHourDelete:
		return true
	}
	return false
}

// Action is one wire-format outbox entry.
type Action struct {
	ID        string          `json:"id"`
	Type      ActionType      `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// SortActions orders actions by type priority, tie-broken by creation
// time ascending.
func SortActions(actions []Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		pi, pj := actions[i].Type.Priority(), actions[j].Type.Priority()
		if pi != pj {
			return pi < pj
		}
		return actions[i].CreatedAt.Before(actions[j].CreatedAt)
	})
}
