package employee

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pontosync/internal/app/client/actions"
)

var createInput actions.EmployeeInput

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Cadastrar um funcionário",
	Long: `Cadastra a pessoa, o vínculo empregatício, o cargo e a conta de
acesso (quando informada) em uma única operação local. A sincronização
envia tudo ao servidor na próxima oportunidade.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		employee, err := app.Actions.CreateEmployee(cmd.Context(), createInput)
		if err != nil {
			return err
		}

		color.Green("✓ Funcionário cadastrado (matrícula %s)", employee.RegistrationNumber)
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVar(&createInput.CPF, "cpf", "", "CPF da pessoa")
	CreateCmd.Flags().StringVar(&createInput.Name, "name", "", "nome completo")
	CreateCmd.Flags().StringVar(&createInput.RegistrationNumber, "registration", "", "matrícula")
	CreateCmd.Flags().StringVar(&createInput.JobPositionName, "job", "", "nome do cargo")
	CreateCmd.Flags().StringVar(&createInput.Username, "username", "", "usuário de acesso (opcional)")
	CreateCmd.Flags().StringVar(&createInput.Password, "password", "", "senha de acesso")
	CreateCmd.Flags().StringVar(&createInput.AccountType, "type", "", "tipo da conta")

	_ = CreateCmd.MarkFlagRequired("cpf")
	_ = CreateCmd.MarkFlagRequired("name")
	_ = CreateCmd.MarkFlagRequired("registration")
}
