// Package watch provides the "ttreport watch" commands for drop-folder automation.
package watch

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	"github.com/deeemdeeem/tt-report-automation/internal/history"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/output"
	"github.com/deeemdeeem/tt-report-automation/internal/report"
	w "github.com/deeemdeeem/tt-report-automation/internal/watch"
)

// NewCommand creates the "watch" command with subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Generate decks automatically for worksheets dropped in a folder",
		Long: `Watch inbox directories for new or modified worksheets (.xlsm, .xlsx) and
generate a deck for each one once it has finished saving.

Example:
  ttreport watch start ./inbox --out-dir ./decks
  ttreport watch status
  ttreport watch stop`,
	}

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func newStartCmd() *cobra.Command {
	var (
		outDir       string
		templatePath string
		layoutPath   string
		recursive    bool
		debounce     int
	)

	cmd := &cobra.Command{
		Use:   "start <directory> [directory...]",
		Short: "Start watching directories for worksheets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			l, err := cfg.LoadLayout(layoutPath)
			if err != nil {
				return err
			}
			if debounce <= 0 {
				debounce = cfg.Watch.DebounceMS
			}

			wcfg := w.Config{
				Directories: args,
				OutDir:      config.Pick(outDir, cfg.Output.Dir),
				Template:    config.Pick(templatePath, cfg.Template),
				Layout:      config.Pick(layoutPath, cfg.Layout),
				Recursive:   recursive,
				Debounce:    debounce,
			}
			if _, err := os.Stat(wcfg.Template); err != nil {
				return fmt.Errorf("template not found: %s — set it with --template or 'ttreport config set template <path>'", wcfg.Template)
			}

			watcher, err := w.New(wcfg)
			if err != nil {
				return err
			}
			watcher.Handler = generator(cmd, wcfg, l, cfg.HistoryStore())

			stateDir := w.DefaultStateDir()
			if err := w.WritePIDFile(stateDir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not write PID file: %v\n", err)
			}
			defer w.RemovePIDFile(stateDir)

			if err := w.SaveConfig(stateDir, wcfg); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save watch config: %v\n", err)
			}

			fmt.Printf("Watching %s for worksheets → %s\n", strings.Join(args, ", "), wcfg.OutDir)
			fmt.Println("Press Ctrl+C to stop")

			return watcher.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for generated decks (default: config 'output.dir')")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Report template .pptx (default: config 'template')")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "Layout YAML overriding the built-in bindings and rules")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().IntVar(&debounce, "debounce", 0, "Quiet period in milliseconds before a file is processed (default: config 'watch.debounce_ms')")

	return cmd
}

func generator(cmd *cobra.Command, wcfg w.Config, l *layout.Layout, store *history.Store) w.Handler {
	return func(path string) (string, error) {
		started := time.Now()
		out := report.BatchOutputPath(wcfg.OutDir, path)
		res, err := report.Generate(cmd.Context(), report.GenerateOptions{
			WorkbookPath: path,
			TemplatePath: wcfg.Template,
			OutputPath:   out,
			Layout:       l,
		})
		slides := 0
		if res != nil {
			slides = res.Slides
		}
		store.Track(history.SourceWatch, path, out, slides, started, err)
		if err != nil {
			return "", err
		}
		return res.OutputPath, nil
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			stateDir := w.DefaultStateDir()
			pid, err := w.ReadPIDFile(stateDir)
			if err != nil {
				return fmt.Errorf("no watcher running (PID file not found)")
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("could not find process %d: %w", pid, err)
			}

			if err := process.Signal(syscall.SIGTERM); err != nil {
				w.RemovePIDFile(stateDir)
				return fmt.Errorf("could not stop watcher (PID %d): %w", pid, err)
			}
			w.RemovePIDFile(stateDir)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("watch.stop", map[string]any{"stopped": true, "pid": pid})
			}

			fmt.Printf("Stopped watcher (PID %d)\n", pid)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current watcher status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stateDir := w.DefaultStateDir()
			status := w.Status{}

			if pid, err := w.ReadPIDFile(stateDir); err == nil {
				// Signal 0 probes whether the process still exists.
				if process, err := os.FindProcess(pid); err == nil && process.Signal(syscall.Signal(0)) == nil {
					status.Running = true
					status.PID = pid
				} else {
					w.RemovePIDFile(stateDir)
				}
			}
			if status.Running {
				if wcfg, err := w.LoadConfig(stateDir); err == nil {
					status.Directories = wcfg.Directories
					status.OutDir = wcfg.OutDir
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("watch.status", status)
			}

			if !status.Running {
				fmt.Println("Watcher is not running")
				return nil
			}
			fmt.Printf("Watcher is running (PID %d)\n", status.PID)
			if len(status.Directories) > 0 {
				fmt.Printf("  Directories: %s\n", strings.Join(status.Directories, ", "))
				fmt.Printf("  Output:      %s\n", status.OutDir)
			}
			return nil
		},
	}
}
