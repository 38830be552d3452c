package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/skylark-aero/skylark/pkg/agent"
	"github.com/skylark-aero/skylark/pkg/config"
	"github.com/skylark-aero/skylark/pkg/conflict"
	"github.com/skylark-aero/skylark/pkg/logging"
	"github.com/skylark-aero/skylark/pkg/model"
	"github.com/skylark-aero/skylark/pkg/sheets"
	"github.com/skylark-aero/skylark/pkg/storage"
	"github.com/skylark-aero/skylark/pkg/tool"
)

// Version information - set via ldflags during build
var (
	version   = "1.0.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const usage = `skylark - drone fleet operations coordinator

Usage:
  skylark chat                start an interactive coordinator session
  skylark ask "<question>"    answer a single question and exit
  skylark scan [detector]     run conflict detection across the fleet data
  skylark config              print the effective configuration
  skylark version             print version information

Flags:
  -config <path>   load configuration from a specific file
  -session <id>    resume an existing chat session
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("skylark", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file")
	sessionID := fs.String("session", "", "session ID to resume")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	cmd, cmdArgs := rest[0], rest[1:]

	switch cmd {
	case "version":
		fmt.Printf("skylark %s (commit %s, built %s)\n", version, commit, buildDate)
		return 0
	case "chat", "ask", "scan", "config":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 2
	}

	if cmd == "config" {
		printConfig(cfg)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sid := *sessionID
	if sid == "" {
		sid = agent.NewSessionID()
	}
	log, err := logging.NewLogger(cfg.Logging.Dir, sid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logs: %v\n", err)
		return 1
	}
	defer log.Close()
	if cfg.Logging.Level != "" {
		log.SetMinLevel(logging.Level(cfg.Logging.Level))
	}

	facade, err := buildFacade(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to fleet data: %v\n", err)
		return 1
	}

	if cmd == "scan" {
		return runScan(ctx, facade, cmdArgs)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	exec, store, err := buildExecutor(cfg, facade, log, cmd == "chat")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if store != nil {
		defer store.Close()
	}

	switch cmd {
	case "ask":
		return runAsk(ctx, exec, sid, cmdArgs)
	case "chat":
		return runChat(ctx, exec, sid)
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// buildFacade assembles the data access stack: the remote spreadsheet when
// credentials are configured, falling back to the local workbook, falling
// back to read-only CSV files.
func buildFacade(ctx context.Context, cfg *config.Config, log *logging.Logger) (*sheets.Facade, error) {
	var primary, fallback sheets.Store

	if cfg.Sheets.SpreadsheetID != "" {
		if _, err := os.Stat(cfg.Sheets.CredentialsPath); err == nil {
			store, err := sheets.NewSheetsStore(ctx, cfg.Sheets.CredentialsPath, cfg.Sheets.SpreadsheetID)
			if err != nil {
				return nil, fmt.Errorf("connecting to spreadsheet: %w", err)
			}
			primary = store
		}
	}

	if _, err := os.Stat(cfg.Sheets.WorkbookPath); err == nil {
		fallback = sheets.NewWorkbookStore(cfg.Sheets.WorkbookPath)
	} else if cfg.Sheets.CSVDir != "" {
		fallback = sheets.NewCSVStore(cfg.Sheets.CSVDir)
	}

	if primary == nil && fallback == nil {
		return nil, fmt.Errorf("no data source available: configure sheets.spreadsheet_id, a workbook, or a CSV directory")
	}
	if primary == nil {
		primary, fallback = fallback, nil
	}
	return sheets.NewFacade(primary, fallback, log), nil
}

func buildExecutor(cfg *config.Config, facade *sheets.Facade, log *logging.Logger, persistent bool) (*agent.Executor, *storage.Store, error) {
	provider := model.NewGroqProvider(cfg.Provider.APIKey, cfg.Provider.BaseURL)
	registry := tool.NewDefaultRegistry(facade)
	registry.SetLogger(log)

	exec := agent.NewExecutor(provider, registry)
	exec.Log = log
	exec.Model = cfg.Provider.Model
	exec.Temperature = cfg.Provider.Temperature
	exec.MaxTokens = cfg.Provider.MaxTokens
	if cfg.Agent.MaxRounds > 0 {
		exec.MaxRounds = cfg.Agent.MaxRounds
	}
	if cfg.Agent.TurnTimeout > 0 {
		exec.TurnTimeout = cfg.Agent.TurnTimeout.Std()
	}

	var store *storage.Store
	if persistent {
		var err error
		store, err = storage.New(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening session store: %w", err)
		}
		exec.Store = store
	}
	return exec, store, nil
}

func runAsk(ctx context.Context, exec *agent.Executor, sessionID string, args []string) int {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "Usage: skylark ask \"<question>\"")
		return 2
	}
	result, err := exec.Submit(ctx, sessionID, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(result.Answer)
	return 0
}

func runChat(ctx context.Context, exec *agent.Executor, sessionID string) int {
	fmt.Printf("Skylark fleet coordinator (session %s). Type 'exit' to quit.\n", sessionID)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return 0
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return 0
		}
		result, err := exec.Submit(ctx, sessionID, line)
		if err != nil {
			if ctx.Err() != nil {
				return 0
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Println(result.Answer)
	}
}

func runScan(ctx context.Context, facade *sheets.Facade, args []string) int {
	snap, err := facade.Snapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fleet data: %v\n", err)
		return 1
	}

	var findings []conflict.Finding
	if len(args) > 0 {
		kind, ok := conflict.ParseKind(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown detector %q. Available: %s\n", args[0], strings.Join(conflict.KindNames(), ", "))
			return 2
		}
		findings = conflict.Detect(kind, snap)
	} else {
		findings = conflict.Scan(snap)
	}

	if len(findings) == 0 {
		fmt.Println("No conflicts detected.")
		return 0
	}
	critical := 0
	for _, f := range findings {
		if f.Severity == conflict.SeverityCritical {
			critical++
		}
		loc := f.Mission
		if loc == "" {
			loc = f.Pilot
		}
		if loc == "" {
			loc = f.Drone
		}
		fmt.Printf("[%s] %-22s %-10s %s\n", f.Severity, f.Type, loc, f.Detail)
	}
	fmt.Printf("\n%d conflict(s): %d critical, %d warning.\n", len(findings), critical, len(findings)-critical)
	return 0
}

func printConfig(cfg *config.Config) {
	masked := "(not set)"
	if cfg.Provider.APIKey != "" {
		masked = "****"
	}
	fmt.Printf("provider:      %s\n", cfg.Provider.Name)
	fmt.Printf("model:         %s\n", cfg.Provider.Model)
	fmt.Printf("api key:       %s\n", masked)
	fmt.Printf("spreadsheet:   %s\n", orDefault(cfg.Sheets.SpreadsheetID, "(not set)"))
	fmt.Printf("credentials:   %s\n", cfg.Sheets.CredentialsPath)
	fmt.Printf("workbook:      %s\n", cfg.Sheets.WorkbookPath)
	fmt.Printf("csv dir:       %s\n", cfg.Sheets.CSVDir)
	fmt.Printf("sessions db:   %s\n", cfg.Storage.DatabasePath)
	fmt.Printf("log dir:       %s\n", cfg.Logging.Dir)
	fmt.Printf("max rounds:    %d\n", cfg.Agent.MaxRounds)
	fmt.Printf("turn timeout:  %s\n", cfg.Agent.TurnTimeout)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
