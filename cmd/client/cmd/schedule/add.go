package schedule

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var addAll bool

var AddCmd = &cobra.Command{
	Use:   "add [matrícula] <dia 0-6> <início> <fim>",
	Short: "Adicionar um horário de trabalho",
	Long: `Adiciona um bloco de trabalho na escala do funcionário. O bloco é
recusado se conflitar com outro horário já cadastrado no mesmo dia.
Com --all o bloco é adicionado a todos os funcionários; os que já têm
conflito no dia são contados e pulados.

Exemplo: pontosync schedule add 1001 1 08:00 12:00`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if addAll {
			if len(args) != 3 {
				return fmt.Errorf("com --all informe apenas dia, início e fim")
			}
			weekday, err := parseWeekday(args[0])
			if err != nil {
				return err
			}

			employees, err := app.Store.ListEmployees(ctx)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(employees))
			for _, e := range employees {
				ids = append(ids, e.ClientID)
			}

			result, err := app.Actions.BulkAddScheduleHour(ctx, ids, weekday, args[1], args[2])
			if result != nil {
				color.Green("✓ Horário adicionado a %d funcionário(s)", result.Applied)
				if result.Conflicts > 0 {
					color.Yellow("⚠ %d funcionário(s) com conflito no dia", result.Conflicts)
				}
			}
			return err
		}

		if len(args) != 4 {
			return fmt.Errorf("informe a matrícula ou use --all")
		}
		employee, err := findEmployee(cmd, app, args[0])
		if err != nil {
			return err
		}
		weekday, err := parseWeekday(args[1])
		if err != nil {
			return err
		}

		msg, err := app.Actions.AddScheduleHour(ctx, employee.ClientID, weekday, args[2], args[3])
		if err != nil {
			return err
		}
		color.Green("✓ %s", msg)
		return nil
	},
}

func init() {
	AddCmd.Flags().BoolVar(&addAll, "all", false, "adicionar a todos os funcionários")
}
