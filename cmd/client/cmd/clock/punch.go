package clock

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pontosync/internal/app/client/actions"
	"pontosync/internal/app/client/store"
)

var (
	punchType string
	punchAt   string
)

var PunchCmd = &cobra.Command{
	Use:   "punch <matrícula>",
	Short: "Registrar uma batida de ponto",
	Long: `Registra a batida localmente mesmo sem conexão; o envio ao servidor
acontece na próxima sincronização.`,
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

		eventType := strings.ToUpper(strings.TrimSpace(punchType))
		if eventType != "IN" && eventType != "OUT" {
			return fmt.Errorf("tipo de batida inválido: %s", punchType)
		}

		occurredAt := time.Now()
		if punchAt != "" {
			occurredAt, err = time.Parse(time.RFC3339, punchAt)
			if err != nil {
				return fmt.Errorf("data/hora inválida: %s", punchAt)
			}
		}

		if err := app.Actions.RegisterTimeClockEvent(ctx, employee.ClientID, eventType, occurredAt); err != nil {
			return err
		}
		color.Green("✓ Ponto registrado (%s às %s)", eventType, occurredAt.Local().Format("02/01/2006 15:04"))
		return nil
	},
}

func init() {
	PunchCmd.Flags().StringVar(&punchType, "type", "IN", "tipo da batida: IN ou OUT")
	PunchCmd.Flags().StringVar(&punchAt, "at", "", "momento da batida em RFC3339 (padrão: agora)")
}
