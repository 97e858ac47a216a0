package employee

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pontosync/internal/app/client/actions"
	"pontosync/internal/app/client/store"
)

var removePerson bool

var RemoveCmd = &cobra.Command{
	Use:   "remove <matrícula>",
	Short: "Remover um funcionário",
	Long: `Remove o vínculo empregatício e suas escalas. Com --person remove
também a pessoa e a conta de acesso.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		employee, err := app.Store.GetEmployeeByRegistration(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return actions.ErrEmployeeNotFound
		}
		if err != nil {
			return err
		}

		if removePerson {
			if err := app.Actions.DeletePerson(ctx, employee.PersonClientID); err != nil {
				return err
			}
			color.Green("✓ Pessoa e vínculo removidos")
			return nil
		}

		if err := app.Actions.DeleteEmployee(ctx, employee.ClientID); err != nil {
			return err
		}
		color.Green("✓ Funcionário removido")
		return nil
	},
}

func init() {
	RemoveCmd.Flags().BoolVar(&removePerson, "person", false, "remover também a pessoa e a conta")
}
