package auth

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pontosync/cmd/client/cmd/types"
	"pontosync/internal/app/client"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Encerrar a sessão",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("aplicação não inicializada")
		}

		if err := app.Logout(cmd.Context()); err != nil {
			return err
		}
		color.Green("✓ Sessão encerrada")
		return nil
	},
}
