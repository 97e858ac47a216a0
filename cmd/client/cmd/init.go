package cmd

import (
	"pontosync/cmd/client/cmd/auth"
	"pontosync/cmd/client/cmd/clock"
	"pontosync/cmd/client/cmd/employee"
	"pontosync/cmd/client/cmd/schedule"
	"pontosync/cmd/client/cmd/sync"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	rootCmd.AddCommand(employee.EmployeeCmd)
	employee.EmployeeCmd.AddCommand(employee.CreateCmd)
	employee.EmployeeCmd.AddCommand(employee.ListCmd)
	employee.EmployeeCmd.AddCommand(employee.RemoveCmd)

	rootCmd.AddCommand(schedule.ScheduleCmd)
	schedule.ScheduleCmd.AddCommand(schedule.AddCmd)
	schedule.ScheduleCmd.AddCommand(schedule.ListCmd)
	schedule.ScheduleCmd.AddCommand(schedule.ReplaceDayCmd)
	schedule.ScheduleCmd.AddCommand(schedule.RemoveDayCmd)
	schedule.ScheduleCmd.AddCommand(schedule.ApplyDefaultCmd)

	rootCmd.AddCommand(clock.ClockCmd)
	clock.ClockCmd.AddCommand(clock.PunchCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
