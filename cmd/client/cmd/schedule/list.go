package schedule

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pontosync/internal/app/client/store"
	"pontosync/internal/domain/schedule"
	"pontosync/internal/domain/sync"
)

var ListCmd = &cobra.Command{
	Use:   "list <matrícula>",
	Short: "Listar a escala de um funcionário",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		employee, err := findEmployee(cmd, app, args[0])
		if err != nil {
			return err
		}

		schedules, err := app.Store.ListSchedulesByEmployee(ctx, employee.ClientID)
		if err != nil {
			return err
		}

		byDay := map[int][]store.ScheduleHour{}
		for _, s := range schedules {
			hours, err := app.Store.ListScheduleHoursBySchedule(ctx, s.ClientID)
			if err != nil {
				return err
			}
			for _, h := range hours {
				byDay[h.Weekday] = append(byDay[h.Weekday], h)
			}
		}
		if len(byDay) == 0 {
			fmt.Println("Nenhum horário cadastrado")
			return nil
		}

		bold := color.New(color.Bold)
		for wd := schedule.MinWeekday; wd <= schedule.MaxWeekday; wd++ {
			hours := byDay[wd]
			if len(hours) == 0 {
				continue
			}
			bold.Println(weekdayNames[wd])
			for _, h := range hours {
				if h.BlockType == sync.BlockTypeOff {
					fmt.Println("  folga")
					continue
				}
				fmt.Printf("  %s - %s\n", schedule.FormatTime(h.StartMinutes), schedule.FormatTime(h.EndMinutes))
			}
		}
		return nil
	},
}
