package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"
	"productdash/internal/engine/importer"
	"productdash/internal/engine/notify"
)

func newImportCmd(a *app) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Upload a CSV file for bulk import",
		Long:  "Uploads the file and prints the task id. With --wait, follows the import to completion with a progress bar.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			notices := notify.NewCenter(a.cfg.Dashboard.ToastTTL)
			im := importer.New(a.client, a.cfg.Import, notices)
			defer im.Close()

			out := cmd.OutOrStdout()
			if wait {
				im.OnUpdate(progressPrinter(cmd.ErrOrStderr()))
			}

			if err := im.Upload(a.ctx(cmd), filepath.Base(path), f); err != nil {
				return err
			}
			snap := im.Snapshot()
			fmt.Fprintln(out, snap.TaskID)
			if !wait {
				return nil
			}

			finished := make(chan struct{})
			defer close(finished)
			go func() {
				select {
				case <-a.ctx(cmd).Done():
					im.Cancel()
				case <-finished:
				}
			}()
			im.Wait()

			final := im.Snapshot()
			switch final.State {
			case importer.StateCompleted:
				a.done(cmd, "Import finished")
				return nil
			case importer.StateFailed:
				return fmt.Errorf("import failed: %s", final.Err)
			default:
				return fmt.Errorf("import %s at %d%%", final.State, final.Progress)
			}
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "poll until the import completes")
	return cmd
}

func newProgressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <task-id>",
		Short: "Show the progress of an import task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Progress(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p, a.query)
		},
	}
}

// progressPrinter redraws a single progress line on w for every new value.
func progressPrinter(w io.Writer) func(importer.Snapshot) {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	var (
		mu   sync.Mutex
		last = -1
	)
	return func(s importer.Snapshot) {
		if s.State != importer.StateProcessing && s.State != importer.StateCompleted {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if s.Progress == last {
			return
		}
		last = s.Progress

		fmt.Fprintf(w, "\r%s %s", bar.ViewAs(float64(s.Progress)/100), mutedStyle.Render(s.Message))
		if s.Progress >= 100 {
			fmt.Fprintln(w)
		}
	}
}
