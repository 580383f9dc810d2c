// AngelaMos | 2026
// main.go

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

	"github.com/carterperez-dev/startup-perks/internal/auth"
	"github.com/carterperez-dev/startup-perks/internal/claim"
	"github.com/carterperez-dev/startup-perks/internal/config"
	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/deal"
	"github.com/carterperez-dev/startup-perks/internal/seed"
	"github.com/carterperez-dev/startup-perks/internal/user"
)

const usage = `usage: admin [-config file] <command> [flags]

commands:
  verify        -email E [-revoke]     set or clear a user's verified flag
  claim-status  -id ID -status S       set a claim to pending, approved or rejected
  seed                                 replace the catalog with the sample deals
  migrate                              apply database migrations
  keygen        -private P -public Q   write a new ES256 key pair
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		slog.Error("admin command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("admin", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "path to optional YAML config file")
	if err := global.Parse(args); err != nil {
		return errUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		return errUsage
	}
	cmd, cmdArgs := rest[0], rest[1:]

	if cmd == "keygen" {
		return keygen(cmdArgs, stdout, stderr)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := core.NewLogger(cfg.Log, stderr)
	slog.SetDefault(logger)

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("database close error", "error", cerr)
		}
	}()

	switch cmd {
	case "verify":
		return verify(ctx, user.NewService(user.NewRepository(db.DB)), cmdArgs, stdout, stderr)
	case "claim-status":
		svc := claim.NewService(claim.NewRepository(db.DB), deal.NewService(deal.NewRepository(db.DB)), nil)
		return claimStatus(ctx, svc, cmdArgs, stdout, stderr)
	case "seed":
		res, err := seed.NewSeeder(seed.NewSQLStore(db.DB), logger).Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "seeded %d deals (removed %d deals, %d claims)\n",
			len(res.Deals), res.DealsDeleted, res.ClaimsDeleted)
		return nil
	case "migrate":
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "migrations applied")
		return nil
	default:
		return errUsage
	}
}

type verifiedSetter interface {
	SetVerifiedByEmail(ctx context.Context, email string, verified bool) (*user.User, error)
}

func verify(
	ctx context.Context,
	users verifiedSetter,
	args []string,
	stdout, stderr io.Writer,
) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "account email, matched exactly")
	revoke := fs.Bool("revoke", false, "clear the flag instead of setting it")
	if err := fs.Parse(args); err != nil || *email == "" {
		return errUsage
	}

	u, err := users.SetVerifiedByEmail(ctx, *email, !*revoke)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("no user with email %q", *email)
		}
		return err
	}

	fmt.Fprintf(stdout, "%s verified=%t\n", u.Email, u.Verified)
	return nil
}

type statusSetter interface {
	SetStatus(ctx context.Context, id string, status claim.Status) error
}

func claimStatus(
	ctx context.Context,
	claims statusSetter,
	args []string,
	stdout, stderr io.Writer,
) error {
	fs := flag.NewFlagSet("claim-status", flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.String("id", "", "claim id")
	status := fs.String("status", "", "pending, approved or rejected")
	if err := fs.Parse(args); err != nil || *id == "" || *status == "" {
		return errUsage
	}

	if err := claims.SetStatus(ctx, *id, claim.Status(*status)); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("no claim with id %q", *id)
		}
		return err
	}

	fmt.Fprintf(stdout, "claim %s status=%s\n", *id, *status)
	return nil
}

func keygen(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	priv := fs.String("private", "keys/private.pem", "private key output path")
	pub := fs.String("public", "keys/public.pem", "public key output path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := auth.GenerateKeyPair(*priv, *pub); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %s and %s\n", *priv, *pub)
	return nil
}
