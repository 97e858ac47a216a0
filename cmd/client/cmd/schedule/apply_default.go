package schedule

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var applyAll bool

var ApplyDefaultCmd = &cobra.Command{
	Use:   "apply-default [matrícula]",
	Short: "Aplicar o horário padrão",
	Long: `Aplica a semana padrão (08:00-12:00 e 13:00-17:00 de segunda a
sexta, folga no fim de semana) a um funcionário, ou a todos com --all.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if applyAll {
			employees, err := app.Store.ListEmployees(ctx)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(employees))
			for _, e := range employees {
				ids = append(ids, e.ClientID)
			}

			result, err := app.Actions.BulkApplyDefaultSchedule(ctx, ids)
			if result != nil {
				color.Green("✓ Horário padrão aplicado a %d funcionário(s)", result.Applied)
				if result.Conflicts > 0 {
					color.Yellow("⚠ %d funcionário(s) não atualizados", result.Conflicts)
				}
			}
			return err
		}

		if len(args) != 1 {
			return fmt.Errorf("informe a matrícula ou use --all")
		}
		employee, err := findEmployee(cmd, app, args[0])
		if err != nil {
			return err
		}

		msg, err := app.Actions.ApplyDefaultSchedule(ctx, employee.ClientID)
		if err != nil {
			return err
		}
		color.Green("✓ %s", msg)
		return nil
	},
}

func init() {
	ApplyDefaultCmd.Flags().BoolVar(&applyAll, "all", false, "aplicar a todos os funcionários")
}
