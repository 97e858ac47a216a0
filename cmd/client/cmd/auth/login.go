package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pontosync/cmd/client/cmd/types"
	"pontosync/internal/app/client"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Entrar no sistema",
	Long: `Autentica no servidor PontoSync.

O token da sessão fica salvo localmente e é reutilizado pelos próximos
comandos e pela sincronização em segundo plano.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("aplicação não inicializada")
		}

		fmt.Print("Usuário: ")
		var username string
		_, _ = fmt.Scanln(&username)

		fmt.Print("Senha: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("falha ao ler senha: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Login(ctx, username, string(password)); err != nil {
			return err
		}
		color.Green("✓ Login realizado")

		result := app.Sync.Sync(ctx)
		switch result.Status {
		case client.SyncOK:
			color.Green("✓ Dados sincronizados (%d enviados, %d recebidos)", result.Pushed, result.Pulled)
		case client.SyncSkipped:
			color.Yellow("⚠ Sincronização adiada: %s", result.Message)
		default:
			color.Yellow("⚠ %s", result.Message)
		}
		return nil
	},
}
