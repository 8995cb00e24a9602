package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/services"
	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var (
	watchInbox string
	watchQuiet bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Register files dropped into an inbox directory",
	Long: `Watch an inbox directory and register every file that lands in it.

The category comes from the extension (png/jpg/gif figure, csv table,
json/txt/md summary, gob/pkl/pt/joblib/onnx/h5 model). The name is the
file stem and the section is inferred from it.

Registered files are removed from the inbox; files that fail stay put.

Examples:
  lxa watch
  lxa watch --inbox ~/exports`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInbox, "inbox", "", "Directory to watch (default from config, then <root>/inbox)")
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Only print failures")
}

func runWatch(cmd *cobra.Command, args []string) error {
	inbox := watchInbox
	if inbox == "" {
		inbox = appConfig.InboxPath(appWorkspace.RootPath)
	}
	if abs, err := filepath.Abs(inbox); err == nil {
		inbox = abs
	}

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	watcher := services.NewWatchService(importService, inbox, debounce, appLogger)

	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !watchQuiet {
		fmt.Println(ui.FormatRocket("Watching inbox..."))
		fmt.Println(ui.FormatMuted("Inbox: " + watcher.Inbox()))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	registered, failed := 0, 0
	err := watcher.Run(ctx, func(ev services.WatchEvent) {
		name := filepath.Base(ev.SrcPath)
		if ev.Err != nil {
			failed++
			fmt.Println(ui.FormatError(fmt.Sprintf("%s: %s (%s)", name, ev.Err, domain.KindOf(ev.Err, domain.KindIOFailure))))
			return
		}
		registered++
		if !watchQuiet {
			fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s -> %s", name, ev.Asset.Filename)))
		}
	})

	appLogger.Info("watcher stopped", zap.Int("registered", registered), zap.Int("failed", failed))
	if !watchQuiet {
		fmt.Println()
		fmt.Println(ui.FormatInfo(fmt.Sprintf("Stopped: %d registered, %d failed", registered, failed)))
	}
	return err
}
