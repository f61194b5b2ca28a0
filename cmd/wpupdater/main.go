package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2/app"
	"golang.org/x/sync/errgroup"

	"github.com/wpupdater/wpupdater/config"
	"github.com/wpupdater/wpupdater/pkg/api"
	"github.com/wpupdater/wpupdater/pkg/hotkey"
	"github.com/wpupdater/wpupdater/pkg/wallpaper"
	"github.com/wpupdater/wpupdater/ui"
	"github.com/wpupdater/wpupdater/util/log"
)

var (
	onceFlag = flag.Bool("once", false, "change the wallpaper once and exit")
	apiFlag  = flag.String("api", "", "serve the local API on this address, overriding the preference")
)

func main() {
	flag.Parse()

	ok, err := acquireLock()
	if err != nil {
		log.Fatalf("Failed to acquire single-instance lock: %v", err)
	}
	if !ok {
		log.Printf("Another instance of %s is already running.", config.AppName)
		return
	}
	defer releaseLock()

	a := app.NewWithID(config.AppID)
	cfg := config.NewAppConfig(a.Preferences())

	refresher, err := newRefresher(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize wallpaper refresher: %v", err)
	}

	if *onceFlag {
		code := runOnce(refresher)
		releaseLock()
		os.Exit(code)
	}

	syncStartupRegistration(cfg, refresher)
	if cfg.GetAutoUpdateEnabled() {
		if err := refresher.StartAutoUpdate(cfg.GetUpdateIntervalDuration()); err != nil {
			log.Printf("Failed to start auto update: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	if addr := apiAddr(cfg); addr != "" {
		srv := api.NewServer(refresher, addr)
		g.Go(func() error {
			if err := srv.Start(); err != nil {
				log.Printf("Local API stopped: %v", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return srv.Stop()
		})
	}

	hotkey.StartListeners(gctx, refresher)

	ui.New(a, cfg, refresher).Run()

	cancel()
	if err := g.Wait(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	refresher.Shutdown()
	log.Printf("%s exited", config.AppName)
}

func newRefresher(cfg *config.AppConfig) (*wallpaper.Refresher, error) {
	platform, err := wallpaper.NewPlatform(config.AppName)
	if err != nil {
		return nil, err
	}
	return wallpaper.NewRefresher(wallpaper.Options{
		Sources:     cfg.GetCandidateSources(),
		Dir:         config.GetWallpaperDir(),
		CounterFile: config.GetCounterFile(),
		Platform:    platform,
	})
}

// runOnce performs a single refresh without any UI and returns the exit code.
func runOnce(r *wallpaper.Refresher) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer r.Shutdown()

	if err := r.RefreshNow(ctx); err != nil {
		log.Printf("Wallpaper refresh failed: %v", err)
		return 1
	}
	return 0
}

// syncStartupRegistration makes the OS startup entry match the saved preference.
func syncStartupRegistration(cfg *config.AppConfig, r *wallpaper.Refresher) {
	want := cfg.GetRunAtStartup()
	have, err := r.IsStartupRegistered()
	if err != nil {
		log.Printf("Failed to read startup registration: %v", err)
		return
	}
	if have == want {
		return
	}
	if err := r.SetStartupRegistration(want); err != nil {
		log.Printf("Failed to sync startup registration: %v", err)
	}
}

func apiAddr(cfg *config.AppConfig) string {
	if *apiFlag != "" {
		return *apiFlag
	}
	if cfg.GetLocalAPIEnabled() {
		return api.DefaultAddr
	}
	return ""
}
