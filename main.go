package main

import (
	"embed"
	"errors"
	"log/slog"
	"os"

	"glimpse/internal/config"
	"glimpse/internal/ipc"
	"glimpse/internal/singleinstance"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// A second launch only asks the running instance to show the overlay.
	instanceLock, err := singleinstance.TryLock(singleinstance.DefaultName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Info("[DEBUG-SINGLE] another instance is already running, asking it to show the overlay")
		if _, sendErr := ipc.Send("", ipc.Request{Command: ipc.CmdShow}); sendErr != nil {
			slog.Warn("[DEBUG-SINGLE] failed to signal existing instance", "error", sendErr)
		}
		return
	}
	if err != nil {
		slog.Warn("[DEBUG-SINGLE] instance lock failed, proceeding without single-instance guard", "error", err)
	}
	if instanceLock != nil {
		defer func() {
			if releaseErr := instanceLock.Release(); releaseErr != nil {
				slog.Warn("[DEBUG-SINGLE] instance lock release failed", "error", releaseErr)
			}
		}()
	}

	configPath := config.DefaultPath()
	cfg, cfgErr := config.EnsureFile(configPath)
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(cfg.SlogLevel())

	app := NewApp(configPath, cfg, logLevel)
	app.initSessionLog(os.Stderr)
	defer app.closeSessionLog()
	if cfgErr != nil {
		// Config load failures are non-fatal; the overlay runs with defaults.
		slog.Warn("[WARN-CONFIG] failed to load config, running with defaults", "path", configPath, "error", cfgErr)
	}

	err = wails.Run(&options.App{
		Title:             "Glimpse",
		Width:             cfg.Window.Width,
		Height:            cfg.Window.Height,
		MinWidth:          cfg.Window.MinWidth,
		MinHeight:         cfg.Window.MinHeight,
		Frameless:         true,
		AlwaysOnTop:       true,
		StartHidden:       true,
		HideWindowOnClose: true,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0},
		Mac: &mac.Options{
			TitleBar:             mac.TitleBarHiddenInset(),
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
			DisableWindowIcon:    true,
		},
		OnStartup:  app.startup,
		OnDomReady: app.domReady,
		OnShutdown: app.shutdown,
		Bind: []any{
			app,
		},
	})

	if err != nil {
		slog.Error("[app] wails run failed", "error", err)
	}
}
