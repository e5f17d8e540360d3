package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattjoyce/glossa/domains/hypermedia"
	"github.com/mattjoyce/glossa/internal/api"
	"github.com/mattjoyce/glossa/internal/auth"
	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/config"
	"github.com/mattjoyce/glossa/internal/doctor"
	"github.com/mattjoyce/glossa/internal/dsl"
	"github.com/mattjoyce/glossa/internal/events"
	"github.com/mattjoyce/glossa/internal/history"
	"github.com/mattjoyce/glossa/internal/inspect"
	"github.com/mattjoyce/glossa/internal/lock"
	"github.com/mattjoyce/glossa/internal/log"
	"github.com/mattjoyce/glossa/internal/scanner"
	"github.com/mattjoyce/glossa/internal/storage"
	"github.com/mattjoyce/glossa/internal/tui"
	"github.com/mattjoyce/glossa/internal/tui/watch"
	"gopkg.in/yaml.v3"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(cliArgs []string) int {
	if len(cliArgs) < 1 {
		printUsage()
		return 1
	}

	cmd := cliArgs[0]
	args := cliArgs[1:]

	if cmd == "--version" {
		return runVersion(args)
	}

	switch cmd {
	// --- NOUNS ---
	case "system":
		return runSystemNoun(args)
	case "config":
		return runConfigNoun(args)
	case "history":
		return runHistoryNoun(args)

	// --- ROOT SHORTCUTS ---
	case "serve":
		if hasHelpFlag(args) {
			printSystemServeHelp()
			return 0
		}
		return runServe(args)
	case "console":
		if hasHelpFlag(args) {
			printSystemConsoleHelp()
			return 0
		}
		return runConsole(args)
	case "watch":
		if hasHelpFlag(args) {
			printSystemWatchHelp()
			return 0
		}
		return runWatch(args)
	case "scan":
		if hasHelpFlag(args) {
			printScanHelp()
			return 0
		}
		return runScan(args)
	case "doctor": // Alias for config check
		return runConfigCheck(args)
	case "version":
		return runVersion(args)
	case "help", "--help", "-h":
		printUsage()
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		return 1
	}
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func runVersion(args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output version metadata as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "Usage: glossa version [--json]")
		return 1
	}

	info := currentVersionInfo()

	if *jsonOut {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render version JSON: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Printf("glossa %s\n", info.Version)
	fmt.Printf("commit: %s\n", info.Commit)
	fmt.Printf("built_at: %s\n", info.BuildTime)
	return 0
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:   strings.TrimSpace(version),
		Commit:    "unknown",
		BuildTime: "unknown",
	}

	if info.Version == "" {
		info.Version = "0.0.0-dev"
	}

	resolvedCommit := strings.TrimSpace(gitCommit)
	if resolvedCommit == "" || resolvedCommit == "unknown" {
		resolvedCommit = strings.TrimSpace(readBuildSetting("vcs.revision"))
	}
	if resolvedCommit != "" {
		info.Commit = shortenCommit(resolvedCommit)
	}

	resolvedBuildTime := strings.TrimSpace(buildDate)
	if resolvedBuildTime == "" || resolvedBuildTime == "unknown" {
		resolvedBuildTime = strings.TrimSpace(readBuildSetting("vcs.time"))
	}
	if normalizedBuildTime, ok := normalizeBuildTimeUTC(resolvedBuildTime); ok {
		info.BuildTime = normalizedBuildTime
	}

	return info
}

func shortenCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}

func normalizeBuildTimeUTC(raw string) (string, bool) {
	if raw == "" || raw == "unknown" {
		return "", false
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "", false
	}

	return t.UTC().Format(time.RFC3339), true
}

func readBuildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func printUsage() {
	fmt.Print(`glossa - Multilingual command DSL engine and compile service

Usage:
  glossa <noun> <action> [flags]

Core Resources (Nouns):
  system    Service lifecycle and interactive tooling
  config    Configuration and profile-pack integrity
  history   Recorded compilations

System Commands:
  system serve      Run the compile service in the foreground
  system console    Interactive compile console (in-process engine)
  system watch      Real-time service monitoring TUI

Config Commands:
  config check      Validate configuration, packs, and schema
  config show       Show resolved configuration (credentials redacted)
  config get        Read a single configuration value
  config lock       Authorize profile packs (regenerate integrity hashes)

History Commands:
  history list      List recent compilations
  history inspect   Full report of one recorded compilation

Tools:
  scan              Audit template trees for embedded commands

General:
  --version         Show version information
  version           Show version information
  help              Show this help message

The serve, console, watch, and scan commands also work without a noun.

Use 'glossa <noun> help' for resource-specific flags.
`)
}

// --- NOUN DISPATCHERS ---

func runSystemNoun(args []string) int {
	if len(args) < 1 {
		printSystemNounHelp(os.Stderr)
		return 1
	}
	if isHelpToken(args[0]) {
		printSystemNounHelp(os.Stdout)
		return 0
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "serve", "start": // start kept as a familiar spelling
		if hasHelpFlag(actionArgs) {
			printSystemServeHelp()
			return 0
		}
		return runServe(actionArgs)
	case "console":
		if hasHelpFlag(actionArgs) {
			printSystemConsoleHelp()
			return 0
		}
		return runConsole(actionArgs)
	case "watch":
		if hasHelpFlag(actionArgs) {
			printSystemWatchHelp()
			return 0
		}
		return runWatch(actionArgs)
	case "help":
		printSystemNounHelp(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown system action: %s\n", action)
		return 1
	}
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		printConfigNounHelp(os.Stderr)
		return 1
	}

	if isHelpToken(args[0]) {
		printConfigNounHelp(os.Stdout)
		return 0
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "check":
		if hasHelpFlag(actionArgs) {
			printConfigCheckHelp()
			return 0
		}
		return runConfigCheck(actionArgs)
	case "show":
		if hasHelpFlag(actionArgs) {
			printConfigShowHelp()
			return 0
		}
		return runConfigShow(actionArgs)
	case "get":
		if hasHelpFlag(actionArgs) {
			printConfigGetHelp()
			return 0
		}
		return runConfigGet(actionArgs)
	case "lock":
		if hasHelpFlag(actionArgs) {
			printConfigLockHelp()
			return 0
		}
		return runConfigLock(actionArgs)
	case "help":
		printConfigNounHelp(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func runHistoryNoun(args []string) int {
	if len(args) < 1 {
		printHistoryNounHelp(os.Stderr)
		return 1
	}

	if isHelpToken(args[0]) {
		printHistoryNounHelp(os.Stdout)
		return 0
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "list":
		if hasHelpFlag(actionArgs) {
			printHistoryListHelp()
			return 0
		}
		return runHistoryList(actionArgs)
	case "inspect":
		if hasHelpFlag(actionArgs) {
			printHistoryInspectHelp()
			return 0
		}
		return runHistoryInspect(actionArgs)
	case "help":
		printHistoryNounHelp(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown history action: %s\n", action)
		return 1
	}
}

func isHelpToken(token string) bool {
	return token == "help" || token == "--help" || token == "-h"
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}

func printSystemNounHelp(w *os.File) {
	fmt.Fprintln(w, "Usage: glossa system <action>")
	fmt.Fprintln(w, "Actions: serve, console, watch")
}

func printConfigNounHelp(w *os.File) {
	fmt.Fprintln(w, "Usage: glossa config <action> [flags]")
	fmt.Fprintln(w, "Actions: check, show, get, lock")
}

func printHistoryNounHelp(w *os.File) {
	fmt.Fprintln(w, "Usage: glossa history <action>")
	fmt.Fprintln(w, "Actions: list, inspect")
}

func printSystemServeHelp() {
	fmt.Println("Usage: glossa serve [--config PATH]")
	fmt.Println("Run the compile service in the foreground.")
}

func printSystemConsoleHelp() {
	fmt.Println("Usage: glossa console [--config PATH]")
	fmt.Println()
	fmt.Println("Interactive compile console over the in-process engine.")
	fmt.Println("Type a command, compile it, and see the parsed roles, every")
	fmt.Println("language's rendering, and the generated code.")
	fmt.Println()
	fmt.Println("Keybindings:")
	fmt.Println("  enter            Compile the input")
	fmt.Println("  tab, shift+tab   Cycle input language")
	fmt.Println("  up/down          Scroll results")
	fmt.Println("  esc, Ctrl+C      Quit")
}

func printSystemWatchHelp() {
	fmt.Println("Usage: glossa watch [flags]")
	fmt.Println()
	fmt.Println("Real-time service monitoring TUI.")
	fmt.Println("Shows service health, per-language activity, and the event stream.")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --api-url URL    Service API URL (default: http://localhost:8080)")
	fmt.Println("  --api-key KEY    API bearer token (or GLOSSA_API_KEY env var)")
	fmt.Println()
	fmt.Println("Keybindings:")
	fmt.Println("  q, Ctrl+C        Quit")
	fmt.Println("  up/down, k/j     Navigate languages")
}

func printScanHelp() {
	fmt.Println("Usage: glossa scan [--dir DIR] [--check] [--json] [--language CODE] [--config PATH]")
	fmt.Println()
	fmt.Println("Audit a template tree for embedded commands.")
	fmt.Println("Recognizes _=\"...\" and data-glossa=\"...\" attributes,")
	fmt.Println("<script type=\"text/glossa\"> blocks, and {% glossa %} tags.")
	fmt.Println("With --check every distinct snippet is compiled and defects are")
	fmt.Println("reported; defective snippets make the command exit 1.")
}

func printConfigCheckHelp() {
	fmt.Println("Usage: glossa config check [--config PATH] [--format human|json] [--strict] [--json]")
	fmt.Println("Validate configuration, profile packs, and schema registration.")
	fmt.Println("")
	fmt.Println("Exit codes:")
	fmt.Println("  0  Valid")
	fmt.Println("  1  One or more errors")
	fmt.Println("  2  Warnings present and --strict was set")
}

func printConfigShowHelp() {
	fmt.Println("Usage: glossa config show [path] [--config PATH] [--json]")
	fmt.Println("Show the full resolved configuration, or one node of it, with")
	fmt.Println("credentials redacted.")
}

func printConfigGetHelp() {
	fmt.Println("Usage: glossa config get <path> [--config PATH] [--json]")
	fmt.Println("Read a single value from the resolved configuration.")
}

func printConfigLockHelp() {
	fmt.Println("Usage: glossa config lock [--config PATH | --dir PATH] [-v|--verbose]")
	fmt.Println("Authorize the profile-pack directory by regenerating its")
	fmt.Println("integrity hashes. Loads refuse packs modified after locking.")
}

func printHistoryListHelp() {
	fmt.Println("Usage: glossa history list [--config PATH] [--limit N] [--json]")
	fmt.Println("List recent recorded compilations, newest first.")
}

func printHistoryInspectHelp() {
	fmt.Println("Usage: glossa history inspect <id> [--config PATH] [--json]")
	fmt.Println("Show the full report of one recorded compilation. A unique id")
	fmt.Println("prefix from the listing is accepted.")
}

// --- ACTION IMPLEMENTATIONS ---

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	if *configPath == "" {
		discovered, err := config.DiscoverConfigDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to discover config: %v\n", err)
			return 1
		}
		*configPath = discovered
		fmt.Fprintf(os.Stderr, "Using discovered config: %s\n", *configPath)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	logger := log.WithComponent("main")
	logger.Info("glossa starting", "version", version, "config", *configPath)

	handle, err := buildEngine(cfg)
	if err != nil {
		logger.Error("failed to build engine", "error", err)
		return 1
	}
	logger.Info("domain loaded", "domain", handle.Name(),
		"languages", len(handle.SupportedLanguages()), "actions", len(handle.Actions()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := events.NewHub(cfg.Events.Buffer)
	recorders := []compiler.Recorder{events.NewRecorder(hub)}

	var store *history.Store
	if cfg.History.Enabled {
		pidLock, err := lock.Acquire(getPIDLockPath(cfg))
		if err != nil {
			logger.Error("failed to acquire pid lock (another instance may be running)", "error", err)
			return 1
		}
		defer pidLock.Release()
		logger.Info("acquired pid lock", "path", pidLock.Path())

		db, err := storage.OpenSQLite(ctx, cfg.History.Path)
		if err != nil {
			logger.Error("failed to open history database", "path", cfg.History.Path, "error", err)
			return 1
		}
		defer db.Close()
		logger.Info("history database opened", "path", cfg.History.Path)

		store = history.NewStore(db)
		recorders = append(recorders, history.NewRecorder(store))

		if cfg.History.Retention > 0 {
			go purgeLoop(ctx, store, cfg.History.Retention, logger)
		}
	}

	handle.SetRecorder(compiler.FanOut(recorders...))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)

	if cfg.API.Enabled {
		tokens := make([]auth.TokenConfig, 0, len(cfg.API.Auth.Tokens))
		for _, t := range cfg.API.Auth.Tokens {
			tokens = append(tokens, auth.TokenConfig{
				Token:  t.Token,
				Scopes: t.Scopes,
			})
		}
		apiConfig := api.Config{
			Listen:        cfg.API.Listen,
			Version:       version,
			APIKey:        cfg.API.Auth.APIKey,
			Tokens:        tokens,
			MinConfidence: cfg.Engine.MinConfidence,
		}
		var hist api.HistoryStore
		if store != nil {
			hist = store
		}
		apiServer := api.New(apiConfig, handle, hist, hub, log.WithComponent("api"))
		go func() {
			if err := apiServer.Start(ctx); err != nil && err != context.Canceled {
				errCh <- fmt.Errorf("api: %w", err)
			}
		}()
		logger.Info("API server enabled", "listen", cfg.API.Listen)
	} else {
		logger.Warn("api.enabled is false; compile requests can only arrive in-process")
	}

	hub.Publish(events.TypeServiceStarted, events.ServiceStarted{
		Name:      cfg.Service.Name,
		Version:   version,
		Languages: handle.SupportedLanguages(),
	})

	logger.Info("glossa running (press Ctrl+C to stop)")

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	case err := <-errCh:
		logger.Error("component failed", "error", err)
		cancel()
		return 1
	}

	logger.Info("glossa stopped")
	return 0
}

// purgeLoop trims history to the retention limit at startup and then
// hourly.
func purgeLoop(ctx context.Context, store *history.Store, keep int, logger *slog.Logger) {
	purge := func() {
		removed, err := store.Purge(ctx, keep)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("history purge failed", "error", err)
			}
			return
		}
		if removed > 0 {
			logger.Info("history purged", "removed", removed, "kept", keep)
		}
	}
	purge()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purge()
		}
	}
}

func runConsole(args []string) int {
	fs := flag.NewFlagSet("console", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	cfg, err := loadConfigOrDefaults(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	handle, err := buildEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build engine: %v\n", err)
		return 1
	}

	m := tui.NewConsole(handle)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		return 1
	}
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	apiURL := fs.String("api-url", "http://localhost:8080", "Service API URL")
	apiKey := fs.String("api-key", os.Getenv("GLOSSA_API_KEY"), "API bearer token")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	m := watch.New(*apiURL, *apiKey)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		return 1
	}
	return 0
}

func runScan(args []string) int {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	dir := fs.String("dir", ".", "Directory to scan for embedded commands")
	check := fs.Bool("check", false, "Compile every distinct snippet and report defects")
	jsonOut := fs.Bool("json", false, "Output the report as JSON")
	language := fs.String("language", "", "Language used by --check (default: engine default)")
	configPath := fs.String("config", "", "Path to configuration file or directory")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	sc := scanner.New(scanner.Config{})
	report, err := sc.ScanDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		return 1
	}

	if *check {
		cfg, err := loadConfigOrDefaults(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			return 1
		}
		handle, err := buildEngine(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build engine: %v\n", err)
			return 1
		}
		lang := *language
		if lang == "" {
			lang = handle.DefaultLanguage()
		}
		if err := report.Check(handle, lang); err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			return 1
		}
	}

	if *jsonOut {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render report: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
	} else {
		printScanReport(report)
	}

	if report.DefectCount() > 0 {
		return 1
	}
	return 0
}

func printScanReport(report *scanner.Report) {
	fmt.Printf("Scanned %d files under %s (%d with usages)\n",
		report.FilesScanned, report.Root, report.FilesWithUsages)

	if len(report.ByCarrier) > 0 {
		carriers := make([]string, 0, len(report.ByCarrier))
		for c := range report.ByCarrier {
			carriers = append(carriers, string(c))
		}
		sort.Strings(carriers)
		fmt.Println("\nCarriers:")
		for _, c := range carriers {
			fmt.Printf("  %-14s %d\n", c, report.ByCarrier[scanner.Carrier(c)])
		}
	}

	if len(report.Snippets) > 0 {
		fmt.Printf("\nDistinct snippets (%d):\n", len(report.Snippets))
		for _, s := range report.Snippets {
			marker := ""
			if s.Checked {
				if s.OK {
					marker = "  ok"
				} else {
					marker = "  DEFECT"
				}
			}
			fmt.Printf("  %4d  %s%s\n", s.Count, s.Snippet, marker)
			if s.Checked && !s.OK {
				for _, d := range s.Diagnostics {
					fmt.Printf("        [%s] %s: %s\n", d.Severity, d.Code, d.Message)
				}
			}
		}
	}

	if n := report.DefectCount(); n > 0 {
		fmt.Printf("\n%d defective snippet(s)\n", n)
	}
}

func runHistoryList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	limit := fs.Int("limit", 20, "Maximum number of records")
	jsonOut := fs.Bool("json", false, "Output records as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	store, closeDB, err := openHistory(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeDB()

	entries, err := store.Recent(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read history: %v\n", err)
		return 1
	}

	if *jsonOut {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render history JSON: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	if len(entries) == 0 {
		fmt.Println("No recorded compilations.")
		return 0
	}

	fmt.Printf("%-8s  %-19s  %-4s  %-6s  %-5s  %-10s  %s\n",
		"ID", "CREATED", "LANG", "STATUS", "CONF", "ACTION", "INPUT")
	for _, e := range entries {
		status := "ok"
		if !e.OK {
			status = "failed"
		}
		action := e.Action
		if action == "" {
			action = "-"
		}
		fmt.Printf("%-8s  %-19s  %-4s  %-6s  %-5s  %-10s  %s\n",
			shortID(e.ID),
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			e.Language,
			status,
			fmt.Sprintf("%.2f", e.Confidence),
			action,
			truncate(e.Input, 48))
	}
	return 0
}

func runHistoryInspect(args []string) int {
	// Flags may follow the record id, as in
	// 'glossa history inspect 1f0a --json'.
	var configPath string
	var jsonOut bool

	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Path to configuration file or directory")
	fs.BoolVar(&jsonOut, "json", false, "Output report as JSON")

	var recordID string
	var remainingArgs []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") && recordID == "" {
			recordID = arg
		} else {
			remainingArgs = append(remainingArgs, arg)
		}
	}

	if err := fs.Parse(remainingArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	if recordID == "" {
		fmt.Fprintf(os.Stderr, "Usage: glossa history inspect <id> [--config PATH] [--json]\n")
		return 1
	}

	store, closeDB, err := openHistory(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeDB()

	var report string
	if jsonOut {
		report, err = inspect.BuildJSONReport(context.Background(), store, recordID)
	} else {
		report, err = inspect.BuildReport(context.Background(), store, recordID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inspect failed: %v\n", err)
		return 1
	}

	if jsonOut {
		fmt.Println(report)
	} else {
		fmt.Print(report)
	}
	return 0
}

func runConfigCheck(args []string) int {
	var configPath string
	var strict, jsonOut bool
	var format string

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Path to configuration file or directory")
	fs.BoolVar(&strict, "strict", false, "Treat warnings as errors")
	fs.StringVar(&format, "format", "human", "Output format (human, json)")
	fs.BoolVar(&jsonOut, "json", false, "Output in JSON")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	if jsonOut {
		format = "json"
	}

	cfg, err := loadConfigForTool(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config load error: %v\n", err)
		return 1
	}

	doc := doctor.New(cfg, hypermedia.Domain())
	result := doc.Validate()

	switch format {
	case "json":
		out, err := doctor.FormatJSON(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "JSON format error: %v\n", err)
			return 1
		}
		fmt.Println(out)
	default:
		fmt.Print(doctor.FormatHuman(result))
	}

	if !result.Valid {
		return 1
	}
	if strict && len(result.Warnings) > 0 {
		return 2
	}
	return 0
}

func runConfigShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	jsonOut := fs.Bool("json", false, "Output in structured JSON format")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := loadConfigForTool(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load error: %v\n", err)
		return 1
	}
	redacted := cfg.Redacted()

	var result any = redacted
	if fs.NArg() > 0 {
		res, err := redacted.GetPath(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		result = res
	} else if *jsonOut {
		// The config struct carries yaml tags only; round-trip for
		// lowercase keys.
		result, _ = redacted.GetPath("")
	}

	if *jsonOut {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		data, _ := yaml.Marshal(result)
		fmt.Print(string(data))
	}
	return 0
}

func runConfigGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	jsonOut := fs.Bool("json", false, "Output in structured JSON format")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: glossa config get <path> [--json]\n")
		return 1
	}
	path := fs.Arg(0)

	cfg, err := loadConfigForTool(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	val, err := cfg.GetPath(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *jsonOut {
		data, _ := json.MarshalIndent(val, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Printf("%v\n", val)
	}
	return 0
}

func runConfigLock(args []string) int {
	var configPath, dir string
	var verbose, verboseShort bool

	fs := flag.NewFlagSet("lock", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Path to configuration file or directory")
	fs.StringVar(&dir, "dir", "", "Profile pack directory to lock directly")
	fs.BoolVar(&verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&verboseShort, "v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	isVerbose := verbose || verboseShort

	if configPath != "" && dir != "" {
		fmt.Fprintln(os.Stderr, "Error: use only one of --config or --dir")
		return 1
	}

	target := dir
	if target == "" {
		resolved := configPath
		if resolved == "" {
			discovered, err := config.DiscoverConfigDir()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to discover config: %v\n", err)
				return 1
			}
			resolved = discovered
		}
		profileDir, err := config.ProfileDir(resolved)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config load error: %v\n", err)
			return 1
		}
		if profileDir == "" {
			fmt.Fprintln(os.Stderr, "Error: engine.profile_dir is not configured; use --dir to lock a directory directly")
			return 1
		}
		target = profileDir
	}

	manifest, err := config.LockProfiles(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to lock %s: %v\n", target, err)
		return 1
	}

	if isVerbose {
		names := make([]string, 0, len(manifest.Hashes))
		for name := range manifest.Hashes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  HASH %s: %s\n", name, manifest.Hashes[name])
		}
	}

	fmt.Printf("Locked %d profile pack file(s) in %s\n", len(manifest.Hashes), target)
	return 0
}

// --- SHARED HELPERS ---

func loadConfigForTool(configPath string) (*config.Config, error) {
	if configPath == "" {
		discovered, err := config.DiscoverConfigDir()
		if err != nil {
			return nil, err
		}
		configPath = discovered
	}
	return config.Load(configPath)
}

// loadConfigOrDefaults behaves like loadConfigForTool but falls back
// to built-in defaults when nothing is configured yet, so local tools
// work out of the box.
func loadConfigOrDefaults(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	discovered, err := config.DiscoverConfigDir()
	if err != nil {
		return config.Defaults(), nil
	}
	return config.Load(discovered)
}

// buildEngine assembles the compiled-in domain with any profile packs
// layered on top.
func buildEngine(cfg *config.Config) (*dsl.Handle, error) {
	domain := hypermedia.Domain()
	packs, err := dsl.LoadPacks(cfg.Engine.ProfileDir)
	if err != nil {
		return nil, fmt.Errorf("load profile packs: %w", err)
	}
	domain.Profiles = dsl.MergeProfiles(domain.Profiles, packs)
	return dsl.New(domain, dsl.Options{
		DefaultLanguage: cfg.Engine.DefaultLanguage,
		CacheCapacity:   cfg.Engine.CacheCapacity,
	})
}

// openHistory loads the configuration and opens the history store it
// points at.
func openHistory(configPath string) (*history.Store, func(), error) {
	cfg, err := loadConfigForTool(configPath)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.History.Enabled || cfg.History.Path == "" {
		return nil, nil, fmt.Errorf("history is disabled (set history.enabled and history.path in config.yaml)")
	}
	db, err := storage.OpenSQLite(context.Background(), cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open history database: %w", err)
	}
	return history.NewStore(db), func() { _ = db.Close() }, nil
}

func getPIDLockPath(cfg *config.Config) string {
	dbPath := cfg.History.Path
	dbDir := filepath.Dir(dbPath)
	dbBase := filepath.Base(dbPath)
	ext := filepath.Ext(dbBase)
	nameWithoutExt := dbBase[:len(dbBase)-len(ext)]
	return filepath.Join(dbDir, nameWithoutExt+".pid")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
