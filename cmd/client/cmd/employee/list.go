package employee

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pontosync/internal/app/client/store"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listar funcionários",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		employees, err := app.Store.ListEmployees(ctx)
		if err != nil {
			return err
		}
		if len(employees) == 0 {
			fmt.Println("Nenhum funcionário cadastrado")
			return nil
		}

		bold := color.New(color.Bold)
		bold.Printf("%-12s %-30s %-20s %s\n", "MATRÍCULA", "NOME", "CARGO", "STATUS")

		for _, e := range employees {
			name := ""
			if person, err := app.Store.GetPerson(ctx, e.PersonClientID); err == nil {
				name = person.Name
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			job := ""
			if e.JobPositionClientID != "" {
				if jp, err := app.Store.GetJobPosition(ctx, e.JobPositionClientID); err == nil {
					job = jp.Name
				} else if !errors.Is(err, store.ErrNotFound) {
					return err
				}
			}

			status := "sincronizado"
			if e.SyncStatus != store.StatusClean {
				status = "pendente"
			}
			fmt.Printf("%-12s %-30s %-20s %s\n", e.RegistrationNumber, name, job, status)
		}

		pending, err := app.Store.CountPending(ctx)
		if err != nil {
			return err
		}
		if pending > 0 {
			color.Yellow("\n%d alteração(ões) aguardando sincronização", pending)
		}
		return nil
	},
}
