// Command brightsteps-admin is the operational CLI: migrations, local
// database resets, development seeding, and admin account bootstrap.
// Destructive commands refuse to run against hosts that do not look local
// unless explicitly overridden.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/brightsteps/brightsteps-web/config"
	"github.com/brightsteps/brightsteps-web/internal/bootstrap"
	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/devseed"
	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/service"
)

const defaultCommandTimeout = 5 * time.Minute

type commandContext struct {
	Logger *slog.Logger
	Config config.AppConfig
	Ctx    context.Context
}

type command struct {
	description string
	run         func(ctx *commandContext, args []string) error
}

func commands() map[string]command {
	return map[string]command{
		"migrate":      {"Run database migrations", runMigrations},
		"db-reset":     {"Drop the database schema, run migrations, and optionally seed data", runDBReset},
		"db-seed":      {"Run database migrations and seed development data", runDBSeed},
		"create-admin": {"Create an admin account (bootstrap the first super admin)", runCreateAdmin},
		"list-admins":  {"List admin accounts", runListAdmins},
	}
}

func main() {
	os.Exit(run(os.Args[1:])) //nolint:forbidigo // CLI entry point must report status to the shell
}

func run(args []string) int {
	logger := bootstrap.InitLogger()

	if len(args) == 0 {
		printUsage()
		return 2
	}
	cmd, ok := commands()[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printUsage()
		return 2
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		return 1
	}

	cmdCtx := &commandContext{Logger: logger, Config: cfg, Ctx: context.Background()}
	if runErr := cmd.run(cmdCtx, args[1:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", args[0], "error", runErr)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprint(os.Stdout, "Usage: brightsteps-admin <command> [flags]\n\nAvailable commands:\n")
	for name, c := range commands() {
		fmt.Fprintf(os.Stdout, "  %-16s %s\n", name, c.description)
	}
}

// withDatabase connects, applies signal handling plus the command timeout,
// and hands the live handle to f.
func withDatabase(cmdCtx *commandContext, timeout time.Duration, f func(context.Context, *sql.DB) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(cmdCtx.Config.Postgres, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer closeDB(cmdCtx.Logger, db)

	return f(ctx, db)
}

func closeDB(logger *slog.Logger, db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Warn("db close failed", "error", err)
	}
}

// Commands

// migrateStep and seedStep are shared by every command that needs a current
// schema or fresh development data.

func migrateStep(ctx context.Context, cmdCtx *commandContext, db *sql.DB) error {
	cmdCtx.Logger.InfoContext(ctx, "applying database migrations")
	if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func seedStep(ctx context.Context, cmdCtx *commandContext, db *sql.DB) error {
	cmdCtx.Logger.InfoContext(ctx, "seeding development data")
	if err := devseed.Seed(ctx, seedDeps(cmdCtx, db)); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	return nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		return migrateStep(ctx, cmdCtx, db)
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	flags, err := parseDBResetFlags(args)
	if err != nil {
		return err
	}

	pg := cmdCtx.Config.Postgres
	if err := guardRemoteHost(cmdCtx, flags.AllowRemote, "drop and recreate the public schema"); err != nil {
		return err
	}
	target := fmt.Sprintf("database %q on %s:%d", pg.Name, pg.Host, pg.Port)
	if err := confirmAction(flags.Yes, "reset database schema", target); err != nil {
		return err
	}

	return withDatabase(cmdCtx, flags.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.InfoContext(ctx, "dropping public schema", "database", pg.Name)
		if err := cmdCtx.resetDatabase(ctx, db); err != nil {
			return err
		}
		if err := migrateStep(ctx, cmdCtx, db); err != nil {
			return err
		}
		if flags.Seed {
			if err := seedStep(ctx, cmdCtx, db); err != nil {
				return err
			}
		}
		cmdCtx.Logger.InfoContext(ctx, "database reset complete")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	flags, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}
	if err := guardRemoteHost(cmdCtx, flags.AllowRemote, "seed development data on the configured database"); err != nil {
		return err
	}

	return withDatabase(cmdCtx, flags.Timeout, func(ctx context.Context, db *sql.DB) error {
		if err := migrateStep(ctx, cmdCtx, db); err != nil {
			return err
		}
		if err := seedStep(ctx, cmdCtx, db); err != nil {
			return err
		}
		cmdCtx.Logger.InfoContext(ctx, "database seeding complete")
		return nil
	})
}

// seedDeps builds the content services the seeder needs from a raw DB handle.
func seedDeps(cmdCtx *commandContext, db *sql.DB) devseed.Deps {
	return devseed.Deps{
		Blog:         service.NewBlogService(service.BlogServiceOptions{Repo: data.NewBlogRepo(db), Logger: cmdCtx.Logger}),
		Gallery:      service.NewGalleryService(service.GalleryServiceOptions{Repo: data.NewGalleryRepo(db)}),
		Coaches:      service.NewCoachService(service.CoachServiceOptions{Repo: data.NewCoachRepo(db)}),
		Coachees:     service.NewCoacheeService(service.CoacheeServiceOptions{Repo: data.NewCoacheeRepo(db)}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{Repo: data.NewApplicationRepo(db), Logger: cmdCtx.Logger}),
		Events:       service.NewEventService(service.EventServiceOptions{Repo: data.NewEventsRepo(db)}),
		Admins:       service.NewAdminService(service.AdminServiceOptions{Repo: data.NewAdminRepo(db)}),
		Logger:       cmdCtx.Logger,

		AdminEmail:       cmdCtx.Config.Auth.DevAuth.Email,
		AdminDisplayName: cmdCtx.Config.Auth.DevAuth.DisplayName,
		AdminPassword:    cmdCtx.Config.Auth.DevAuth.Password,
	}
}

func runCreateAdmin(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateAdminFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		admins := service.NewAdminService(service.AdminServiceOptions{Repo: data.NewAdminRepo(db)})

		account, createErr := admins.Create(ctx, &model.CreateAdminAccountRequest{
			Email:       opts.Email,
			DisplayName: opts.DisplayName,
			Role:        domainauth.Role(opts.Role),
			Password:    opts.Password,
		})
		if createErr != nil {
			return fmt.Errorf("create admin account: %w", createErr)
		}

		cmdCtx.Logger.Info("admin account created",
			"id", account.ID,
			"email", account.Email,
			"role", account.Role,
		)
		return nil
	})
}

func runListAdmins(cmdCtx *commandContext, _ []string) error {
	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		admins := service.NewAdminService(service.AdminServiceOptions{Repo: data.NewAdminRepo(db)})

		accounts, err := admins.List(ctx)
		if err != nil {
			return fmt.Errorf("list admin accounts: %w", err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprint(tw, "ID\tEMAIL\tNAME\tROLE\tACTIVE\n")
		for _, a := range accounts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", a.ID, a.Email, a.DisplayName, a.Role, a.Active)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flush admin listing: %w", err)
		}
		return nil
	})
}

// Flag parsing

type migrateOptions struct {
	Timeout time.Duration
}

type dbResetOptions struct {
	Yes         bool
	Seed        bool
	AllowRemote bool
	Timeout     time.Duration
}

type dbSeedOptions struct {
	AllowRemote bool
	Timeout     time.Duration
}

type createAdminOptions struct {
	Email       string
	DisplayName string
	Role        string
	Password    string
	Timeout     time.Duration
}

// newFlagSet wires the common timeout flag into a fresh flag set and returns
// both. validTimeout enforces the shared lower bound after parsing.
func newFlagSet(name, timeoutHelp string) (*flag.FlagSet, *time.Duration) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	timeout := fs.Duration("timeout", defaultCommandTimeout, timeoutHelp)
	return fs, timeout
}

func validTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return errors.New("--timeout must be greater than zero")
	}
	return nil
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs, timeout := newFlagSet("migrate", "Maximum duration to wait for migrations to complete")
	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if err := validTimeout(*timeout); err != nil {
		return migrateOptions{}, err
	}
	return migrateOptions{Timeout: *timeout}, nil
}

func parseDBResetFlags(args []string) (dbResetOptions, error) {
	fs, timeout := newFlagSet("db-reset", "Maximum duration to wait for reset operations to complete")
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	seed := fs.Bool("seed", false, "Run database seeding after reset completes")
	allowRemote := fs.Bool("allow-remote", false,
		"Permit running against database hosts that do not look local")

	if err := fs.Parse(args); err != nil {
		return dbResetOptions{}, err
	}
	if err := validTimeout(*timeout); err != nil {
		return dbResetOptions{}, err
	}
	return dbResetOptions{Timeout: *timeout, Yes: *yes, Seed: *seed, AllowRemote: *allowRemote}, nil
}

func parseDBSeedFlags(args []string) (dbSeedOptions, error) {
	fs, timeout := newFlagSet("db-seed", "Maximum duration to wait for seeding to complete")
	allowRemote := fs.Bool("allow-remote", false,
		"Permit running against database hosts that do not look local")

	if err := fs.Parse(args); err != nil {
		return dbSeedOptions{}, err
	}
	if err := validTimeout(*timeout); err != nil {
		return dbSeedOptions{}, err
	}
	return dbSeedOptions{Timeout: *timeout, AllowRemote: *allowRemote}, nil
}

func parseCreateAdminFlags(args []string) (createAdminOptions, error) {
	fs, timeout := newFlagSet("create-admin", "Maximum duration to wait for account creation to complete")
	var opts createAdminOptions
	fs.StringVar(&opts.Email, "email", "", "Email for the new admin account (required)")
	fs.StringVar(&opts.DisplayName, "name", "", "Display name for the new admin account (required)")
	fs.StringVar(&opts.Role, "role", string(domainauth.RoleSuperAdmin), "Role: super_admin or admin")
	fs.StringVar(&opts.Password, "password", "", "Password for the new admin account; prompts when omitted")

	if err := fs.Parse(args); err != nil {
		return createAdminOptions{}, err
	}
	opts.Timeout = *timeout

	switch {
	case opts.Email == "":
		return createAdminOptions{}, errors.New("--email is required")
	case opts.DisplayName == "":
		return createAdminOptions{}, errors.New("--name is required")
	}
	if opts.Password == "" {
		pw, err := promptPassword()
		if err != nil {
			return createAdminOptions{}, err
		}
		opts.Password = pw
	}
	return opts, nil
}

// Prompts and safeguards

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := readLine()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if pw == "" {
		return "", errors.New("password cannot be empty")
	}
	return pw, nil
}

func confirmAction(yes bool, actionType, target string) error {
	if yes {
		return nil
	}

	fmt.Fprintf(os.Stdout, "About to %s for %s.\nContinue? [y/N]: ", actionType, target)
	resp, err := readLine()
	if err != nil {
		fmt.Fprintf(os.Stdout, "\nFailed to read confirmation input: %v\n", err)
		return errors.New("aborted by user")
	}
	switch strings.ToLower(strings.TrimSpace(resp)) {
	case "y", "yes":
		return nil
	}
	return errors.New("aborted by user")
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) error {
	host := cmdCtx.Config.Postgres.Host
	if !isLikelyRemoteHost(host) {
		return nil
	}
	if !allow {
		return fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			host,
		)
	}

	// The operator must type the hostname back to proceed.
	fmt.Fprintf(os.Stderr,
		"\nWARNING: database host %q does not look like a local address.\nThis operation will %s.\n",
		host, action)
	fmt.Fprintf(os.Stderr, "Type %q to continue or press enter to abort: ", host)

	resp, err := readLine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to read confirmation input: %v\n", err)
		return errors.New("aborted by user")
	}
	if strings.TrimSpace(resp) != host {
		fmt.Fprintln(os.Stderr, "\nRemote safeguard check failed; aborting.")
		return errors.New("aborted by user")
	}
	return nil
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" || h == "localhost" || strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

// Database reset

func (cmdCtx *commandContext) resetDatabase(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if user := strings.TrimSpace(cmdCtx.Config.Postgres.User); user != "" && !strings.EqualFold(user, "public") {
		statements = append(statements, "GRANT ALL ON SCHEMA public TO "+pgx.Identifier{user}.Sanitize())
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
		cmdCtx.Logger.DebugContext(ctx, "reset statement applied", "sql", stmt)
	}
	return nil
}
