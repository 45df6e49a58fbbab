package cmdimport

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"milk-bench/connectors/config"
	"milk-bench/connectors/remote"
)

// Run executes the import subcommand: it downloads the configured remote
// sample exports and stores them as local chunked JSON files that the web
// and report commands load.
//
// Flags: -url (comma-separated, overrides config), -out (target directory).
// ENV: REMOTE_CLIENT_SECRET supplies the OAuth2 client secret when the
// config declares a token URL.
func Run(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	urlList := fs.String("url", "", "Comma-separated sample resource URLs (overrides config remote.urls)")
	out := fs.String("out", "./data", "Directory to store downloaded sample files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var cfg *config.Config
	if c, err := config.Load(config.Path()); err == nil {
		cfg = c
	} else if !os.IsNotExist(err) {
		return err
	}

	var urls []string
	if *urlList != "" {
		for _, u := range strings.Split(*urlList, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
	} else if cfg != nil {
		urls = cfg.Remote.URLs
	}
	if len(urls) == 0 {
		slog.Error("import.validation.error", "reason", "no urls")
		return fmt.Errorf("missing -url or CONFIG_PATH with remote.urls")
	}

	tokenURL, clientID := "", ""
	var scopes []string
	if cfg != nil {
		tokenURL, clientID, scopes = cfg.Remote.TokenURL, cfg.Remote.ClientID, cfg.Remote.Scopes
	}
	secret := os.Getenv("REMOTE_CLIENT_SECRET")
	if tokenURL != "" && secret == "" {
		slog.Error("import.validation.error", "reason", "missing REMOTE_CLIENT_SECRET")
		return fmt.Errorf("missing REMOTE_CLIENT_SECRET for token url %s", tokenURL)
	}

	slog.Info("import.start", "urls", len(urls), "out", *out)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	ctx := context.Background()
	client := remote.NewClient(ctx, tokenURL, clientID, secret, scopes)

	total := 0
	for i, u := range urls {
		rows, err := client.FetchSamples(ctx, u)
		if err != nil {
			slog.Error("import.fetch.error", "url", u, "error", err)
			return err
		}
		path := filepath.Join(*out, fmt.Sprintf("samples_%03d.json", i))
		b, err := json.Marshal(rows)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return err
		}
		slog.Info("import.chunk.saved", "url", u, "path", path, "rows", len(rows))
		total += len(rows)
	}

	slog.Info("import.done", "files", len(urls), "rows", total)
	return nil
}
