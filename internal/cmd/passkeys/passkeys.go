// Package passkeys parses passkey CLI flags and dispatches the management
// subcommands.
package passkeys

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"text/tabwriter"
	"time"

	"github.com/ente-io/passkeys-go/internal/api"
	"github.com/ente-io/passkeys-go/internal/passkeys"
	"github.com/ente-io/passkeys-go/internal/platform/config"
	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
	"github.com/ente-io/passkeys-go/internal/platform/otel"
	"github.com/ente-io/passkeys-go/internal/platform/timeouts"
)

// Config holds passkeys command configuration.
type Config struct {
	APIURL        string `env:"ENTE_PASSKEYS_API_URL"        envDefault:"https://api.ente.io"`
	AuthToken     string `env:"ENTE_PASSKEYS_AUTH_TOKEN"`
	ClientPackage string `env:"ENTE_PASSKEYS_CLIENT_PACKAGE" envDefault:"io.ente.accounts.web"`

	Command string
	Args    []string
}

// ParseConfig parses environment and flags into a Config. Anything left
// after the flags is the subcommand and its arguments.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "relying party base URL")
	fs.StringVar(&cfg.AuthToken, "token", cfg.AuthToken, "user auth token")
	fs.StringVar(&cfg.ClientPackage, "client-package", cfg.ClientPackage, "client package header value")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	if len(rest) > 0 {
		cfg.Command = rest[0]
		cfg.Args = rest[1:]
	}
	return cfg, nil
}

// Run executes the passkeys command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	shutdown, err := otel.Setup(ctx, "passkeys")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.OTELShutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	if cfg.AuthToken == "" {
		return apperrors.E(apperrors.KindInvalidInput, "auth token is required (set ENTE_PASSKEYS_AUTH_TOKEN or pass -token)")
	}

	client := api.NewClient(api.Config{
		BaseURL:       cfg.APIURL,
		AuthToken:     cfg.AuthToken,
		ClientPackage: cfg.ClientPackage,
	})
	manager := passkeys.NewManager(client)

	switch cfg.Command {
	case "", "list":
		return runList(ctx, manager, out)
	case "rename":
		if len(cfg.Args) != 2 {
			return apperrors.E(apperrors.KindInvalidInput, "usage: passkeys rename <id> <name>")
		}
		return manager.RenamePasskey(ctx, cfg.Args[0], cfg.Args[1])
	case "delete":
		if len(cfg.Args) != 1 {
			return apperrors.E(apperrors.KindInvalidInput, "usage: passkeys delete <id>")
		}
		return manager.DeletePasskey(ctx, cfg.Args[0])
	default:
		return apperrors.Ef(apperrors.KindInvalidInput, "unknown command %q (valid commands: list, rename, delete)", cfg.Command)
	}
}

func runList(ctx context.Context, manager *passkeys.Manager, out io.Writer) error {
	keys, err := manager.ListPasskeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(out, "no passkeys registered")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED")
	for _, key := range keys {
		created := time.UnixMilli(key.CreatedAt).UTC().Format(time.RFC3339)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", key.ID, key.FriendlyName, created)
	}
	return tw.Flush()
}
