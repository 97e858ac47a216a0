package sync

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pontosync/cmd/client/cmd/types"
	"pontosync/internal/app/client"
	"pontosync/internal/app/client/store"
)

var (
	watch      bool
	showStatus bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sincronizar com o servidor",
	Long: `Executa um ciclo de sincronização: envia as alterações pendentes e
recebe as novidades do servidor. Com --watch mantém a sincronização
periódica em execução até ser interrompida.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("aplicação não inicializada")
		}
		ctx := cmd.Context()

		if showStatus {
			return printStatus(cmd, app)
		}

		if watch {
			fmt.Printf("Sincronizando a cada %ds. Ctrl+C para sair.\n", app.Config.SyncIntervalSeconds)
			return app.Run(ctx)
		}

		start := time.Now()
		result := app.Sync.Sync(ctx)

		switch result.Status {
		case client.SyncOK:
			color.Green("✓ Sincronização concluída em %v", time.Since(start).Round(time.Millisecond))
			fmt.Printf("Enviados: %d\n", result.Pushed)
			fmt.Printf("Recebidos: %d\n", result.Pulled)
			for _, w := range result.Warnings {
				color.Yellow("⚠ %s", w)
			}
		case client.SyncSkipped:
			color.Yellow("⚠ Sincronização adiada: %s", result.Message)
		default:
			return fmt.Errorf("%s", result.Message)
		}
		return nil
	},
}

func printStatus(cmd *cobra.Command, app *client.App) error {
	ctx := cmd.Context()

	pending, err := app.Store.CountPending(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Ações pendentes: %d\n", pending)

	lastSync, err := app.Store.GetMeta(ctx, store.MetaLastSyncAt)
	if err != nil {
		return err
	}
	if lastSync == "" {
		fmt.Println("Última sincronização: nunca")
	} else if t, err := time.Parse(time.RFC3339, lastSync); err == nil {
		fmt.Printf("Última sincronização: %s\n", t.Local().Format("02/01/2006 15:04:05"))
	} else {
		fmt.Printf("Última sincronização: %s\n", lastSync)
	}

	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == "" {
		color.Yellow("Sessão: não autenticado")
	} else {
		fmt.Printf("Sessão: %s\n", user)
	}

	fmt.Print("Servidor: ")
	if err := app.API.HealthCheck(ctx); err != nil {
		color.Red("indisponível")
	} else {
		color.Green("disponível")
	}
	return nil
}

func init() {
	SyncCmd.Flags().BoolVarP(&watch, "watch", "w", false, "sincronização periódica contínua")
	SyncCmd.Flags().BoolVar(&showStatus, "status", false, "mostrar o estado da sincronização")
}
