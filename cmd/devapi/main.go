// devapi serves the in-memory tax API on a local port so the taxdesk client
// can be tried without the real backend. State lives in memory and is lost
// on exit.
//
//	devapi --addr 127.0.0.1:8000 --prefix /api
//
// With --seed (the default) three demo accounts are created; their
// passwords are printed on start.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/taxdesk/internal/apitest"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type demoUser struct {
	email    string
	password string
	role     models.Role
	name     string
	taxDue   models.Amount
}

var demoUsers = []demoUser{
	{"admin@taxdesk.local", "admin-pass-1", models.RoleAdministrator, "Mkuu Admin", 0},
	{"officer@taxdesk.local", "officer-pass-1", models.RoleMunicipalOfficer, "Baraka Officer", 0},
	{"asha@taxdesk.local", "asha-pass-1", models.RoleTaxpayer, "Asha Mushi", 250000},
}

func run() error {
	var (
		addr      string
		prefix    string
		secret    string
		seed      bool
		logLevel  string
		accessTTL time.Duration
	)

	flagSet := pflag.NewFlagSet("devapi", pflag.ContinueOnError)
	flagSet.StringVarP(&addr, "addr", "a", "127.0.0.1:8000", "listen address")
	flagSet.StringVar(&prefix, "prefix", "/api", "path prefix of every route")
	flagSet.StringVar(&secret, "secret", "", "JWT signing secret (random when empty)")
	flagSet.BoolVar(&seed, "seed", true, "create demo accounts")
	flagSet.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flagSet.DurationVar(&accessTTL, "access-ttl", apitest.DefaultAccessTTL, "access token lifetime")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("generating secret: %w", err)
		}
	}

	backend := apitest.NewBackend(key)
	backend.AccessTTL = accessTTL
	if seed {
		for _, d := range demoUsers {
			u := backend.AddUser(d.email, d.password, d.role, d.name)
			if d.taxDue > 0 {
				backend.SetTaxDue(u.ID, d.taxDue, time.Now().AddDate(0, 3, 0).Format(time.DateOnly))
			}
			fmt.Printf("  %-24s %-16s %s\n", d.email, d.password, d.role)
		}
	}

	var handler http.Handler = backend.Handler()
	if prefix = strings.TrimRight(prefix, "/"); prefix != "" {
		handler = http.StripPrefix(prefix, handler)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "dev api listening", "addr", addr, "base_url", "http://"+addr+prefix)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return srv.Shutdown(shutdownCtx)
}
