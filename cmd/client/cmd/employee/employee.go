package employee

import (
	"fmt"

	"github.com/spf13/cobra"

	"pontosync/cmd/client/cmd/types"
	"pontosync/internal/app/client"
)

var EmployeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "Gestão de funcionários",
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("aplicação não inicializada")
	}
	return app, nil
}
