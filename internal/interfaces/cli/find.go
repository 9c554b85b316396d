package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/slotfinder/internal/application/usecases"
	"github.com/example/slotfinder/internal/domain/appointment"
	"github.com/example/slotfinder/internal/infrastructure/config"
	"github.com/example/slotfinder/internal/infrastructure/cowin"
	"github.com/example/slotfinder/internal/infrastructure/release"
	"github.com/example/slotfinder/internal/infrastructure/sessioncache"
	"github.com/example/slotfinder/internal/internaltypes"
	"github.com/example/slotfinder/internal/metrics"
)

func newFindCmd(opts *rootOptions) *cobra.Command {
	var (
		date        string
		maxAttempts int
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Poll for an open slot and book it for every configured subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("date") {
				cfg.Search.Date = date
			}
			if cmd.Flags().Changed("max-attempts") {
				cfg.Run.MaxAttempts = maxAttempts
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			runID := uuid.NewString()
			logger := opts.logger(cmd, "run "+runID[:8]+" ")
			out := newConsoleReporter(cmd.OutOrStdout())
			client := newClient(cfg, logger)

			m := metrics.New()
			if cfg.Metrics.Addr != "" {
				go func() {
					if err := m.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
						logger.Printf("metrics: %v", err)
					}
				}()
			}

			var auth appointment.Authenticator = &cowin.Authenticator{
				Client: client,
				Prompt: stdinPrompt(cmd.InOrStdin(), cmd.ErrOrStderr()),
				Logger: logger,
			}
			var store *sessioncache.Store
			if cfg.Session.CachePath != "" {
				store, err = sessioncache.New(cfg.Session.CachePath, cfg.Session.Secret)
				if err != nil {
					return fmt.Errorf("%w: %v", internaltypes.ErrConfigurationFormat, err)
				}
				auth = &sessioncache.Authenticator{Next: auth, Store: store, Logger: logger}
			}

			uc := usecases.FindSlot{
				Config: cfg,
				Gate: &release.Gate{
					Enabled:     cfg.VersionCheck.Enabled,
					ManifestURL: cfg.VersionCheck.ManifestURL,
					Current:     Version,
					Logger:      logger,
					Notice:      out.Notice,
				},
				Auth:     auth,
				Slots:    m.InstrumentQuerier(&cowin.Querier{Client: client, Logger: logger}),
				Reporter: usecases.Reporters{out, m},
				Logger:   logger,
				NewRunID: func() string { return runID },
			}
			_, err = uc.Execute(ctx)
			if store != nil && errors.Is(err, internaltypes.ErrUnauthorized) {
				// the provider revoked the token; do not reuse it next time
				if cerr := store.Clear(); cerr != nil {
					logger.Printf("session: %v", cerr)
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "search date as dd-mm-yyyy (overrides search.date)")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "attempt limit (overrides run.max_attempts)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address (overrides metrics.addr)")
	return cmd
}

// stdinPrompt reads one line per OTP request. The read is abandoned when ctx
// is cancelled.
func stdinPrompt(in io.Reader, out io.Writer) cowin.OTPPrompt {
	r := bufio.NewReader(in)
	return func(ctx context.Context, phone string) (string, error) {
		fmt.Fprintf(out, "Enter the OTP sent to %s: ", phone)
		type line struct {
			s   string
			err error
		}
		ch := make(chan line, 1)
		go func() {
			s, err := r.ReadString('\n')
			ch <- line{s, err}
		}()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case l := <-ch:
			s := strings.TrimSpace(l.s)
			if s == "" && l.err != nil {
				return "", fmt.Errorf("read OTP: %w", l.err)
			}
			return s, nil
		}
	}
}
