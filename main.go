package main

import (
	"fmt"
	"log/slog"
	"os"

	cmdimport "milk-bench/command/import"
	cmdreport "milk-bench/command/report"
	cmdweb "milk-bench/command/web"
)

// milk-bench benchmarks dairy quality KPIs (somatic cells, bacterial load,
// urea, fat, protein, ...) of one farm or processing plant against a peer
// group, by lactation cycle (October-September).
// Usage:
//   milk-bench import [-url a,b] [-out ./data]
//   milk-bench report -entity <id> [-mode network|processor|region] [-province XX] [-lactations N]
//   milk-bench web [-addr :8080] [-ui ./ui/dist]
// Notes:
// - Dataset files and the KPI catalog come from a YAML config (CONFIG_PATH,
//   default ./config.yml).
// - import fetches remote sample exports; REMOTE_CLIENT_SECRET supplies the
//   OAuth2 client secret when remote.token_url is configured.

func main() {
	args := os.Args
	// Initialize slog logger (text to stderr, INFO level for now)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		switch sub {
		case "import":
			if err := cmdimport.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "report":
			if err := cmdreport.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "web":
			if err := cmdweb.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: milk-bench import [-url <list>] [-out <dir>] | report -entity <id> | web [-addr :8080] [-ui <dir>]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)")
	os.Exit(2)
}
