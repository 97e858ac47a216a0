package store

import "context"

// Purge methods hard-remove rows after the server confirmed a delete.
// They ignore sync_status on purpose: by then the subtree is already
// soft-deleted locally and invisible to the active lookups.

func (q *queries) PurgeEmployeeTree(ctx context.Context, employeeClientID string) error {
	_, err := q.q.ExecContext(ctx, `
		DELETE FROM schedule_hour WHERE schedule_client_id IN
			(SELECT client_id FROM schedule WHERE employee_client_id = ?)
	`, employeeClientID)
	if err != nil {
		return err
	}
	if _, err := q.q.ExecContext(ctx, `DELETE FROM schedule WHERE employee_client_id = ?`, employeeClientID); err != nil {
		return err
	}
	_, err = q.q.ExecContext(ctx, `DELETE FROM employee WHERE client_id = ?`, employeeClientID)
	return err
}

func (q *queries) PurgePersonTree(ctx context.Context, personClientID string) error {
	rows, err := q.q.QueryContext(ctx, `SELECT client_id FROM employee WHERE person_client_id = ?`, personClientID)
	if err != nil {
		return err
	}
	var employeeIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		employeeIDs = append(employeeIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, id := range employeeIDs {
		if err := q.PurgeEmployeeTree(ctx, id); err != nil {
			return err
		}
	}
	if _, err := q.q.ExecContext(ctx, `DELETE FROM user_account WHERE person_client_id = ?`, personClientID); err != nil {
		return err
	}
	_, err = q.q.ExecContext(ctx, `DELETE FROM person WHERE client_id = ?`, personClientID)
	return err
}
