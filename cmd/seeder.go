package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/user"
	userPostgres "github.com/frahmantamala/staff-requests/internal/user/postgres"
)

var (
	seedEmail     string
	seedFirstName string
	seedLastName  string
	seedPassword  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the first HR account",
	Long:  `Create the HR administrator that can then invite every other collaborator. Does nothing if the email already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		repo := userPostgres.NewUserRepository(db.Gorm)
		email := strings.ToLower(strings.TrimSpace(seedEmail))

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			fmt.Println("HR account already exists:", email)
			return nil
		} else if !errors.Is(err, internal.ErrUserNotFound) {
			return err
		}

		password := seedPassword
		if password == "" {
			if password, err = user.GenerateTemporaryPassword(12); err != nil {
				return err
			}
		}
		cost := cfg.Security.BCryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return err
		}

		if err := repo.Create(ctx, &user.User{
			Email:        email,
			FirstName:    seedFirstName,
			LastName:     seedLastName,
			Role:         internal.RoleHR,
			PasswordHash: string(hash),
			IsActive:     true,
		}); err != nil {
			return err
		}

		fmt.Println("Seeded HR account:", email)
		if seedPassword == "" {
			fmt.Println("Temporary password:", password)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "rh@example.com", "HR account email")
	seedCmd.Flags().StringVar(&seedFirstName, "first-name", "Service", "HR account first name")
	seedCmd.Flags().StringVar(&seedLastName, "last-name", "RH", "HR account last name")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "password to set; a random one is printed when empty")
}
