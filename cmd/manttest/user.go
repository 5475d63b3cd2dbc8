package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/manttest/internal/database/repository"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage registered users",
}

var userPassword string

var userAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Register a user who can sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, auth, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		u, err := auth.Register(cmd.Context(), args[0], userPassword)
		if err != nil {
			return err
		}
		logger.Info("user registered", zap.String("username", u.Username), zap.String("id", u.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", u.Username)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		users, err := repository.NewUserRepo(db).List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tCREATED\tLAST LOGIN")
		for _, u := range users {
			last := "never"
			if u.LastLoginAt != nil {
				last = u.LastLoginAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.CreatedAt.Local().Format("2006-01-02 15:04"), last)
		}
		return w.Flush()
	},
}

func init() {
	userAddCmd.Flags().StringVarP(&userPassword, "password", "p", "", "password for the new user")
	_ = userAddCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userAddCmd, userListCmd)
}
