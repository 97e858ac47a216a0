package schedule

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var RemoveDayCmd = &cobra.Command{
	Use:   "remove-day <matrícula> <dia 0-6>",
	Short: "Limpar todos os horários de um dia",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		employee, err := findEmployee(cmd, app, args[0])
		if err != nil {
			return err
		}
		weekday, err := parseWeekday(args[1])
		if err != nil {
			return err
		}

		msg, err := app.Actions.RemoveDay(cmd.Context(), employee.ClientID, weekday)
		if err != nil {
			return err
		}
		color.Green("✓ %s", msg)
		return nil
	},
}
