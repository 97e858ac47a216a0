package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pontosync/cmd/client/cmd/types"
	"pontosync/internal/app/client"
	"pontosync/internal/app/client/actions"
	"pontosync/internal/app/client/store"
	"pontosync/internal/domain/schedule"
)

var ScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Gestão de escalas de trabalho",
}

// weekdayNames indexes Portuguese weekday labels by the 0=Sunday scheme.
var weekdayNames = [7]string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("aplicação não inicializada")
	}
	return app, nil
}

func findEmployee(cmd *cobra.Command, app *client.App, registration string) (*store.Employee, error) {
	employee, err := app.Store.GetEmployeeByRegistration(cmd.Context(), registration)
	if errors.Is(err, store.ErrNotFound) {
		return nil, actions.ErrEmployeeNotFound
	}
	return employee, err
}

func parseWeekday(arg string) (int, error) {
	wd, err := strconv.Atoi(arg)
	if err != nil {
		return 0, schedule.ErrInvalidWeekday
	}
	return schedule.NormalizeWeekday(wd)
}

// parsePairs splits "08:00-12:00" style arguments into start/end pairs.
func parsePairs(args []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, "-")
		if len(parts) != 2 {
			return nil, schedule.ErrInvalidTime
		}
		pairs = append(pairs, [2]string{parts[0], parts[1]})
	}
	return pairs, nil
}
