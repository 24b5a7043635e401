package command

import (
	"fmt"
	"strings"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/service"
	"reviewhub/internal/shared"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
	Long:  `Create users and change their roles without going through signup`,
}

var (
	createUsername string
	createEmail    string
	createRole     string
	createStaff    bool
)

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Example: `  reviewhub-cli user create --username root --email root@example.com --role admin --staff
  reviewhub-cli user create --username alice --email alice@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newUser(createUsername, createEmail, createRole, createStaff)
		if err != nil {
			return err
		}

		db, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := repository.NewUserRepository(db).Create(cmd.Context(), user); err != nil {
			return fmt.Errorf("create user: %s", shared.Message(err))
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✓ User created successfully!")
		fmt.Fprintf(cmd.OutOrStdout(), "Username: %s\nEmail: %s\nRole: %s\nStaff: %t\n",
			user.Username, user.Email, user.Role, user.IsStaff)
		return nil
	},
}

var setRoleCmd = &cobra.Command{
	Use:     "set-role USERNAME ROLE",
	Short:   "Change the role of a user (user, moderator, admin)",
	Args:    cobra.ExactArgs(2),
	Example: `  reviewhub-cli user set-role alice moderator`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(args[1])
		if err != nil {
			return err
		}

		db, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		users := repository.NewUserRepository(db)
		user, err := users.FindByUsername(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("find user %q: %s", args[0], shared.Message(err))
		}
		if user.Role == role {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s\n", user.Username, role)
			return nil
		}
		user.Role = role
		if err := users.Update(cmd.Context(), user); err != nil {
			return fmt.Errorf("update user: %s", shared.Message(err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is now %s\n", user.Username, role)
		return nil
	},
}

// newUser validates the flags with the same rules the API applies.
func newUser(username, email, role string, staff bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = service.NormalizeEmail(email)
	if err := service.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("--username: %s", shared.Message(err))
	}
	if err := service.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("--email: %s", shared.Message(err))
	}
	r, err := parseRole(role)
	if err != nil {
		return nil, err
	}
	return &models.User{Username: username, Email: email, Role: r, IsStaff: staff}, nil
}

func parseRole(s string) (models.Role, error) {
	r := models.Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q: must be one of user, moderator, admin", s)
	}
	return r, nil
}

func init() {
	createUserCmd.Flags().StringVar(&createUsername, "username", "", "username (required)")
	createUserCmd.Flags().StringVar(&createEmail, "email", "", "email address (required)")
	createUserCmd.Flags().StringVar(&createRole, "role", string(models.RoleUser), "role: user, moderator or admin")
	createUserCmd.Flags().BoolVar(&createStaff, "staff", false, "mark the account as staff (full admin rights)")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("email")

	userCmd.AddCommand(createUserCmd, setRoleCmd)
	rootCmd.AddCommand(userCmd)
}
