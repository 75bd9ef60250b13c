package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/support-desk/internal/bootstrap"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
)

var newUser struct {
	name     string
	email    string
	password string
	role     string
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account with an explicit role",
	Long: `Create a user directly in storage. Registration over HTTP only creates customers,
so support agents are provisioned with this command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := bootstrap.OpenStorage(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer storage.Close()

		authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{UserRepo: storage.Repos.Users})
		user, err := authService.CreateUser(cmd.Context(), service.RegisterInput{
			Name:     newUser.name,
			Email:    newUser.email,
			Password: newUser.password,
		}, domain.Role(newUser.role))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUser.name, "name", "", "display name")
	createUserCmd.Flags().StringVar(&newUser.email, "email", "", "login email")
	createUserCmd.Flags().StringVar(&newUser.password, "password", "", "initial password")
	createUserCmd.Flags().StringVar(&newUser.role, "role", string(domain.RoleSupportAgent), "CUSTOMER or SUPPORT_AGENT")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
	_ = createUserCmd.MarkFlagRequired("name")
}
