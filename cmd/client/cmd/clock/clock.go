package clock

import (
	"fmt"

	"github.com/spf13/cobra"

	"pontosync/cmd/client/cmd/types"
	"pontosync/internal/app/client"
)

var ClockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Registro de ponto",
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("aplicação não inicializada")
	}
	return app, nil
}
