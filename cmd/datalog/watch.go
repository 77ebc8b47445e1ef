package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conduit-lang/datalog/internal/config"
	"github.com/conduit-lang/datalog/internal/datalog/parser"
	"github.com/conduit-lang/datalog/internal/datalog/program"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run the interpreter whenever the source file changes",
	Long: `Watch re-runs the full parse -> evaluate -> print pipeline every time
the given file is written. Each run is a fresh, independent evaluation over
the file's current contents - watch never carries state between runs, so it
does not incrementally update a live database.`,
	Args: cobra.ExactArgs(1),
	RunE: watchRunE,
}

func watchRunE(cmd *cobra.Command, args []string) error {
	path := args[0]
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	verbose := cfg.Verbose || viper.GetBool("verbose")
	if !cfg.Color {
		color.NoColor = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}

	runOnce(absPath, verbose)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var debounce *time.Timer
	var runMu sync.Mutex
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != absPath {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(cfg.WatchDebounce, func() {
				runMu.Lock()
				defer runMu.Unlock()
				runOnce(absPath, verbose)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "watch error:", err)
		case <-sigChan:
			return nil
		}
	}
}

// runOnce evaluates the file at path exactly as the default run command
// does, tagging its own run and printing a rule between successive runs so
// watch output stays readable in a terminal.
func runOnce(path string, verbose bool) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reading", path, "-", err)
		return
	}

	logger := newLogger(verbose)
	defer logger.Sync()

	if viper.GetBool("no-color") {
		color.NoColor = true
	}
	fmt.Println(color.New(color.Faint).Sprintf("--- %s ---", time.Now().Format(time.RFC3339)))

	res, err := program.Run(string(source), newZapTracer(logger))
	if err != nil {
		var tokErr *parser.TokenError
		if errors.As(err, &tokErr) {
			writeFailure(tokErr)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		return
	}
	program.WriteSuccess(os.Stdout, res)
}
