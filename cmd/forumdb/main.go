// Package main is forumdb, a maintenance tool for the sports forum database.
//
// Usage:
//
//	forumdb [flags] create|populate|reset|clear|destroy|users|orders
//
// Settings come from FORUM_* environment variables (see internal/config);
// -db overrides FORUM_DB_PATH for a single run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sakif/sportsforum/internal/auth"
	"github.com/sakif/sportsforum/internal/config"
	"github.com/sakif/sportsforum/internal/repository"
	"github.com/sakif/sportsforum/internal/repository/sqlite"
)

const usage = `usage: forumdb [flags] <command>

commands:
  create    create the schema in an empty database
  populate  load sample data (or -data FILE) into an existing schema
  reset     destroy, create and populate in one go
  clear     delete every row, keep the tables
  destroy   remove the database file
  users     list registered users
  orders    list sign-ups, newest first

flags:
`

var errUsage = errors.New("forumdb: bad usage")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], cfg, logger, os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			logger.Error("command failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}

// run parses args and executes one command against the configured database.
func run(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	fs := flag.NewFlagSet("forumdb", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}

	dbPath := fs.String("db", cfg.DBPath, "database file")
	schemaFile := fs.String("schema", "", "schema script for create (default: built-in schema)")
	dataFile := fs.String("data", "", "data script for populate (default: built-in sample data)")
	nickname := fs.String("user", "", "orders: only this user's sign-ups")
	since := fs.Duration("since", 0, "orders: only sign-ups newer than this, e.g. 48h")
	limit := fs.Int("limit", 0, "orders: at most this many rows (0 = all)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	engine := sqlite.NewEngine(*dbPath, auth.NewPasswordService(cfg.BcryptCost), logger)

	switch cmd := fs.Arg(0); cmd {
	case "create":
		return create(ctx, engine, *schemaFile)
	case "populate":
		return populate(ctx, engine, *dataFile)
	case "reset":
		if err := engine.Destroy(); err != nil {
			return err
		}
		if err := create(ctx, engine, *schemaFile); err != nil {
			return err
		}
		return populate(ctx, engine, *dataFile)
	case "clear":
		return engine.Clear(ctx)
	case "destroy":
		return engine.Destroy()
	case "users":
		return listUsers(ctx, engine, out)
	case "orders":
		filter := repository.OrderFilter{Nickname: *nickname, Limit: *limit}
		if *since > 0 {
			filter.After = time.Now().Add(-*since)
		}
		return listOrders(ctx, engine, filter, out)
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", cmd)
		fs.Usage()
		return errUsage
	}
}

func create(ctx context.Context, engine *sqlite.Engine, schemaFile string) error {
	if schemaFile == "" {
		return engine.CreateStorage(ctx)
	}
	f, err := os.Open(schemaFile)
	if err != nil {
		return fmt.Errorf("opening schema script: %w", err)
	}
	defer f.Close()
	return engine.CreateStorageFrom(ctx, f)
}

func populate(ctx context.Context, engine *sqlite.Engine, dataFile string) error {
	if dataFile == "" {
		return engine.PopulateStorage(ctx)
	}
	f, err := os.Open(dataFile)
	if err != nil {
		return fmt.Errorf("opening data script: %w", err)
	}
	defer f.Close()
	return engine.PopulateStorageFrom(ctx, f)
}

func listUsers(ctx context.Context, engine *sqlite.Engine, out io.Writer) error {
	conn, err := engine.Open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	users, err := conn.ListUsers(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NICKNAME\tREGISTERED\tLAST LOGIN\tVIEWS")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			u.Nickname,
			u.RegistrationDate.Format(time.DateTime),
			u.LastLogin.Format(time.DateTime),
			u.TimesViewed,
		)
	}
	return w.Flush()
}

func listOrders(ctx context.Context, engine *sqlite.Engine, filter repository.OrderFilter, out io.Writer) error {
	conn, err := engine.Open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	orders, err := conn.ListOrders(ctx, filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tSPORT\tSIGNED UP")
	for _, o := range orders {
		nick := o.Nickname
		if nick == "" {
			nick = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.ID, nick, o.SportName, o.Timestamp.Format(time.DateTime))
	}
	return w.Flush()
}
