package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/slotfinder/internal/infrastructure/config"
	"github.com/example/slotfinder/internal/infrastructure/cowin"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

type rootOptions struct {
	configPath string
	quiet      bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "slotfinder",
		Short:         "Poll the CoWIN API for an open vaccination slot and book it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.PathFromEnv(), "path to the YAML config (env SLOTFINDER_CONFIG)")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress diagnostic logging on stderr")

	root.AddCommand(newFindCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newPingCmd(opts))
	root.AddCommand(newDistrictsCmd(opts))
	root.AddCommand(newKeysCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (o *rootOptions) logger(cmd *cobra.Command, prefix string) *log.Logger {
	if o.quiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), prefix, log.LstdFlags)
}

func newClient(cfg config.Config, logger *log.Logger) *cowin.Client {
	return cowin.New(cowin.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.RequestTimeout,
		Retries:   cfg.API.Retries,
		UserAgent: cfg.API.UserAgent,
		OTPSecret: cfg.API.OTPSecret,
		Logger:    logger,
	})
}

// loadOrDefault reads the config file when it exists and otherwise falls
// back to defaults, for commands that only need the API settings.
func loadOrDefault(path string) (config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}
