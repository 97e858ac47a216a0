package schedule

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var replaceAll bool

var ReplaceDayCmd = &cobra.Command{
	Use:   "replace-day [matrícula] <dia 0-6> <início-fim>...",
	Short: "Substituir todos os horários de um dia",
	Long: `Troca o dia inteiro da escala por um novo conjunto de blocos. Com
--all o dia é substituído em todos os funcionários.

Exemplo: pontosync schedule replace-day 1001 3 08:00-12:00 14:00-18:00`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if replaceAll {
			weekday, err := parseWeekday(args[0])
			if err != nil {
				return err
			}
			pairs, err := parsePairs(args[1:])
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

			result, err := app.Actions.BulkReplaceDay(ctx, ids, weekday, pairs)
			if result != nil {
				color.Green("✓ Dia substituído em %d funcionário(s)", result.Applied)
				if result.Conflicts > 0 {
					color.Yellow("⚠ %d funcionário(s) não atualizados", result.Conflicts)
				}
			}
			return err
		}

		if len(args) < 3 {
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
		pairs, err := parsePairs(args[2:])
		if err != nil {
			return err
		}

		msg, err := app.Actions.ReplaceDay(ctx, employee.ClientID, weekday, pairs)
		if err != nil {
			return err
		}
		color.Green("✓ %s", msg)
		return nil
	},
}

func init() {
	ReplaceDayCmd.Flags().BoolVar(&replaceAll, "all", false, "substituir em todos os funcionários")
}
