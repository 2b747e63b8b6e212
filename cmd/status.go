package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gitplit/gitplit/repo"
)

const statusDebounce = 100 * time.Millisecond

var statusCmdWatch bool

// Displays branches, staged files and working tree changes
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Displays the branches, the staging area and unstaged changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return status(args)
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusCmdWatch, "watch", "w", false,
		"Print the status again whenever the working tree changes")
}

func status(args []string) error {
	if err := argCount(args, 0); err != nil {
		return err
	}
	r, err := openRepo()
	if err != nil {
		return err
	}
	if err = printStatus(r); err != nil {
		return err
	}
	if !statusCmdWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watchStatus(ctx, r)
}

func printStatus(r *repo.Repository) error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(fOut, createStatusText(st))
	return err
}

// Creates the user visible text for a status report
func createStatusText(st *repo.Status) string {
	var b strings.Builder
	b.WriteString("=== Branches ===\n")
	for _, br := range st.Branches {
		if br.Current {
			b.WriteString(highlight("*"+br.Name) + "\n")
		} else {
			b.WriteString(br.Name + "\n")
		}
	}
	b.WriteString("\n=== Staged Files ===\n")
	for _, p := range st.Staged {
		b.WriteString(p + "\n")
	}
	b.WriteString("\n=== Removed Files ===\n")
	for _, p := range st.Removed {
		b.WriteString(p + "\n")
	}
	b.WriteString("\n=== Modifications Not Staged For Commit ===\n")
	for _, m := range st.Modifications {
		fmt.Fprintf(&b, "%s (%s)\n", m.Path, m.Kind)
	}
	b.WriteString("\n=== Untracked Files ===\n")
	for _, p := range st.Untracked {
		b.WriteString(p + "\n")
	}
	return b.String()
}

// watchStatus prints the status again after each burst of filesystem
// activity, until ctx is done
func watchStatus(ctx context.Context, r *repo.Repository) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "starting the file watcher")
	}
	defer watcher.Close()

	dirs, err := watchDirs(appFs, r.WorkDir())
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err = watcher.Add(d); err != nil {
			return errors.Wrapf(err, "watching %s", d)
		}
	}
	if _, err = numFormat.Fprintf(fOut, "\nWatching %d directories for changes. Press Ctrl-C to stop.\n",
		len(dirs)); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoreStatusEvent(event) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			// New directories need watching too
			if event.Has(fsnotify.Create) {
				if fi, err := appFs.Stat(event.Name); err == nil && fi.IsDir() {
					if err = watcher.Add(event.Name); err != nil {
						logger.Warn("could not watch new directory", "path", event.Name, "err", err)
					}
				}
			}
			pending = time.After(statusDebounce)

		case <-pending:
			pending = nil
			if _, err = fmt.Fprintln(fOut); err != nil {
				return err
			}
			if err = printStatus(r); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}

// watchDirs returns root and every directory below it, including the
// repository storage so staging changes are seen as well
func watchDirs(afs afero.Fs, root string) ([]string, error) {
	var dirs []string
	err := afero.Walk(afs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing directories below %s", root)
	}
	return dirs, nil
}

func ignoreStatusEvent(event fsnotify.Event) bool {
	// Permission changes don't alter status
	if event.Op == fsnotify.Chmod {
		return true
	}
	// Temporary files of atomic writes
	return strings.HasPrefix(filepath.Base(event.Name), ".tmp-")
}
