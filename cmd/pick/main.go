// Command pick runs one restaurant roulette in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/okian/lunchroulette/internal/adapters/tui"
	app "github.com/okian/lunchroulette/internal/app"
	"github.com/okian/lunchroulette/internal/config"
	"github.com/okian/lunchroulette/internal/domain/locate"
	"github.com/okian/lunchroulette/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pick:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	lat := flag.Float64("lat", cfg.DefaultLat, "latitude to search around")
	lng := flag.Float64("lng", cfg.DefaultLng, "longitude to search around")
	flag.Parse()

	// The screen owns stdout, so logs only go to the file when one is set.
	if err := logger.Init(logger.WithOutput(io.Discard), logger.WithFile(cfg.LogFile)); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	svc := app.NewFromConfig(cfg, logger.Get())

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	return pick(ctx, svc, locate.NewStatic(*lat, *lng), tui.New(screen))
}

// pick runs one pick on surface and keeps the result on screen until the
// user quits. Quitting early cancels the pick.
func pick(ctx context.Context, svc *app.Service, locator locate.Locator, surface *tui.Surface) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		svc.Pick(gctx, "terminal", locator, surface)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if err := surface.Wait(gctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})
	return g.Wait()
}
