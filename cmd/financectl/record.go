package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gestaofinanceira/internal/config"
	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/services"
)

func recordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   `record "<phrase>"`,
		Short: "Interpret a phrase and store the record",
		Example: `  financectl record "gastei 50,00 com mercado" --user ana@example.com
  financectl record "recebi 1.500,00 de salário"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			manager, err := openDatabase()
			if err != nil {
				return err
			}
			defer manager.Close()
			db := manager.DB()

			var userID string
			if email != "" {
				user, err := services.NewUserService(db).GetUserByEmail(email)
				if err != nil {
					return fmt.Errorf("user %s: %w", email, err)
				}
				userID = user.ID
			}

			result, err := services.NewCommandService(db, config.Get().CurrencySymbol).
				Interpret(userID, strings.Join(args, " "))
			if err != nil {
				var appErr *apperrors.AppError
				if errors.As(err, &appErr) {
					return errors.New(appErr.Message)
				}
				return err
			}

			audit := services.NewAuditService(db)
			if result.CategoryCreated {
				audit.Log(userID, "CREATE_CATEGORY", "category", result.Category.ID, "",
					map[string]any{"name": result.Category.Name, "kind": result.Category.Kind, "source": "cli"})
			}
			audit.Log(userID, "CREATE_RECORD", "record", result.Record.ID, "",
				map[string]any{"amount": result.Amount, "kind": result.Kind, "source": "cli"})

			fmt.Fprintln(c.OutOrStdout(), result.Message)
			if result.CategoryCreated {
				fmt.Fprintf(c.OutOrStdout(), "Categoria %q criada.\n", result.Category.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "user", "", "email of the user the record is attributed to")
	return cmd
}
