package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/adapter/postgres"
	"github.com/croftlabs/verdant/internal/config"
	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/service"
)

// runAdmin dispatches admin subcommands. They talk to the database directly
// and act with unrestricted scope, so they belong on the server host only.
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "create-super-admin":
		return runAdminCreateSuperAdmin(args[1:])
	case "create-user":
		return runAdminCreateUser(args[1:])
	case "reset-password":
		return runAdminResetPassword(args[1:])
	case "list-users":
		return runAdminListUsers(args[1:])
	case "migrate-status":
		return runAdminMigrateStatus()
	case "migrate-down":
		return runAdminMigrateDown(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: verdant admin <command> [options]

Commands:
  create-super-admin   Create a super admin account
  create-user          Create a user with a role and affiliations
  reset-password       Reset a user's password
  list-users           List all users
  migrate-status       Print the current migration version
  migrate-down         Roll back migrations (--steps N, default 1)
  help                 Show this help message

Examples:
  verdant admin create-super-admin --username root --email root@farm.io
  verdant admin create-user --username ravi --email ravi@farm.io \
      --role application_user --org <org-id> --plots <plot-id>,<plot-id>
  verdant admin reset-password --email ravi@farm.io
  verdant admin list-users
`)
}

type adminDeps struct {
	store *postgres.Store
	users *service.UserService
	auth  *service.AuthService
}

// superIdentity is the caller identity admin commands act under.
var superIdentity = user.Identity{ID: "cli-admin", Role: user.RoleSuperAdmin}

func loadAdminDeps() (*adminDeps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	store := postgres.NewStore(pool)
	authSvc := service.NewAuthService(store, &cfg.Auth)
	deps := &adminDeps{
		store: store,
		users: service.NewUserService(store, authSvc),
		auth:  authSvc,
	}
	return deps, pool.Close, nil
}

func runAdminCreateSuperAdmin(args []string) error {
	fs := flag.NewFlagSet("create-super-admin", flag.ContinueOnError)
	username := fs.String("username", "", "login name (required)")
	email := fs.String("email", "", "email address (required)")
	firstName := fs.String("first-name", "Super", "first name")
	lastName := fs.String("last-name", "Admin", "last name")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *email == "" {
		return fmt.Errorf("--username and --email are required")
	}

	pass, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	u, err := deps.users.Create(context.Background(), superIdentity, user.CreateRequest{
		Username:  *username,
		Email:     *email,
		Password:  pass,
		FirstName: *firstName,
		LastName:  *lastName,
		Role:      user.RoleSuperAdmin,
	})
	if err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Super admin created: %s (id=%s)\n", u.Email, u.ID)
	return nil
}

func runAdminCreateUser(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	username := fs.String("username", "", "login name (required)")
	email := fs.String("email", "", "email address (required)")
	firstName := fs.String("first-name", "", "first name (required)")
	lastName := fs.String("last-name", "", "last name (required)")
	role := fs.String("role", string(user.RoleApplicationUser), "role to grant")
	org := fs.String("org", "", "organization id")
	domainID := fs.String("domain", "", "domain id (domain admins)")
	plots := fs.String("plots", "", "comma-separated plot ids (application users)")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *email == "" {
		return fmt.Errorf("--username and --email are required")
	}
	if *firstName == "" || *lastName == "" {
		return fmt.Errorf("--first-name and --last-name are required")
	}

	pass, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	var plotIDs []string
	if *plots != "" {
		plotIDs = strings.Split(*plots, ",")
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	u, err := deps.users.Create(context.Background(), superIdentity, user.CreateRequest{
		Username:       *username,
		Email:          *email,
		Password:       pass,
		FirstName:      *firstName,
		LastName:       *lastName,
		Role:           user.Role(*role),
		OrganizationID: *org,
		DomainID:       *domainID,
		PlotIDs:        plotIDs,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(os.Stderr, "User created: %s (id=%s, role=%s)\n", u.Email, u.ID, u.Role)
	return nil
}

func runAdminResetPassword(args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	email := fs.String("email", "", "user email address (required)")
	password := fs.String("password", "", "new password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	newPass, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	u, err := deps.store.GetUserByEmail(ctx, *email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	hash, err := deps.auth.HashPassword(newPass)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	if err := deps.store.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Password reset successfully for %s\n", *email)
	return nil
}

func runAdminListUsers(args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	users, _, err := deps.users.List(context.Background(), superIdentity,
		access.ListFilter{IncludeInactive: true}, access.Page{Page: 1, Limit: 100})
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tORG\tENABLED")
	for i := range users {
		u := &users[i]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			u.ID, u.Username, u.Email, u.Role, u.OrganizationID, u.Enabled)
	}
	return w.Flush()
}

// resolvePassword returns the flag value or prompts for one twice.
func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	pass, err := promptPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if pass != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return pass, nil
}

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func runAdminMigrateStatus() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	version, err := postgres.MigrationVersion(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	fmt.Printf("migration version: %d\n", version)
	return nil
}

func runAdminMigrateDown(args []string) error {
	fs := flag.NewFlagSet("migrate-down", flag.ContinueOnError)
	steps := fs.Int("steps", 1, "number of migrations to roll back")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	if err := postgres.RollbackMigrations(ctx, cfg.Postgres.DSN, *steps); err != nil {
		return err
	}
	version, err := postgres.MigrationVersion(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	fmt.Printf("rolled back %d migration(s), now at version %d\n", *steps, version)
	return nil
}
