package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep/v2"
	"go.uber.org/zap"

	"github.com/llehouerou/chiptide/internal/app"
	"github.com/llehouerou/chiptide/internal/catalog"
	"github.com/llehouerou/chiptide/internal/chip"
	"github.com/llehouerou/chiptide/internal/config"
	"github.com/llehouerou/chiptide/internal/control"
	"github.com/llehouerou/chiptide/internal/errmsg"
	"github.com/llehouerou/chiptide/internal/fetch"
	"github.com/llehouerou/chiptide/internal/logging"
	"github.com/llehouerou/chiptide/internal/playback"
	"github.com/llehouerou/chiptide/internal/search"
	"github.com/llehouerou/chiptide/internal/session"
	"github.com/llehouerou/chiptide/internal/state"
	"github.com/llehouerou/chiptide/internal/stderr"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.GetLogFile(), cfg.Debug)
	if err != nil {
		fmt.Printf("Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "import" {
		if len(args) != 2 {
			fmt.Println("usage: chiptide import <listing.tsv|directory>")
			os.Exit(2)
		}
		if err := runImport(cfg, args[1], log); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, strings.Join(args, " "), log); err != nil {
		log.Error("exit", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, query string, log *zap.Logger) error {
	// ALSA writes straight to fd 2, which the TUI owns.
	if err := stderr.Start(logging.Sink(log)); err != nil {
		log.Warn("stderr capture unavailable", zap.Error(err))
	}
	defer stderr.Stop()

	searcher, closeCatalog, err := openCatalog(cfg, log)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpCatalogOpen, err))
	}
	defer closeCatalog()

	audio := cfg.GetAudioConfig()
	rate := beep.SampleRate(audio.SampleRate)
	engine := playback.New(chip.NewRegistry(rate, nil), rate, log.Named("playback"))
	defer engine.Close()

	out, err := playback.StartOutput(engine, audio.BufferDuration())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpAudioStart, err))
	}
	defer out.Close()

	getter, err := fetch.New(cfg.Source(), cfg.GetCacheDir(), log.Named("fetch"))
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}

	stateMgr, err := state.Open(log.Named("state"))
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStateLoad, err))
	}
	defer stateMgr.Close()

	startup := cfg.StartupAsset
	startSong := 0
	saved, err := stateMgr.GetSession()
	if err != nil {
		log.Warn("restore session", zap.Error(err))
	}
	if saved != nil {
		if query == "" {
			query = saved.Query
		}
		if startup == "" {
			startup = saved.AssetPath
		}
		if startup == saved.AssetPath {
			startSong = saved.Song
		}
	}

	ui := cfg.GetUIConfig()
	keys := app.NewKeyQueue()
	screen := &app.Screen{}
	cmds := session.NewCommands()
	ctrl := session.New(session.Deps{
		Player:       engine,
		Fetcher:      getter,
		Searcher:     searcher,
		Input:        keys,
		Presenter:    screen,
		Store:        stateMgr,
		Commands:     cmds,
		Log:          log.Named("session"),
		Width:        ui.Width,
		Height:       ui.Height,
		StartupAsset: startup,
		StartupSong:  startSong,
	})
	defer ctrl.Close()

	if query != "" {
		cmds.SetSearch(query)
	}

	if cfg.HasControl() {
		srv := control.New(cmds, log.Named("control"))
		if err := srv.Start(cfg.Control.Listen); err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpControlListen, cfg.Control.Listen, err))
		}
		defer srv.Close()
		log.Info("control listening", zap.String("addr", srv.Addr()))
	}

	log.Info("started",
		zap.String("source", getter.Source()),
		zap.String("catalog", cfg.GetCatalogPath()),
	)

	p := tea.NewProgram(app.New(ctrl, keys, screen, ui.TickInterval()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func openCatalog(cfg *config.Config, log *zap.Logger) (search.Searcher, func(), error) {
	path := cfg.GetCatalogPath()

	if cfg.IsListing() {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		records, err := catalog.ReadListing(f, log.Named("catalog"))
		if err != nil {
			return nil, nil, err
		}
		log.Info("catalog loaded", zap.String("path", path), zap.Int("records", len(records)))
		return catalog.NewMemory(records), func() {}, nil
	}

	store, err := catalog.Open(path)
	if err != nil {
		return nil, nil, err
	}
	n, err := store.Count()
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	if n == 0 {
		log.Warn("catalog is empty, run: chiptide import <listing|directory>", zap.String("path", path))
	}
	return store, func() { _ = store.Close() }, nil
}

func runImport(cfg *config.Config, src string, log *zap.Logger) error {
	if cfg.IsListing() {
		return fmt.Errorf("catalog_path %s is a listing, import needs a database", cfg.GetCatalogPath())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := readRecords(ctx, src, log.Named("import"))
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpCatalogImport, src, err))
	}

	store, err := catalog.Open(cfg.GetCatalogPath())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpCatalogOpen, err))
	}
	defer store.Close()

	n, err := store.Import(ctx, records)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpCatalogImport, src, err))
	}
	total, err := store.Count()
	if err != nil {
		return err
	}

	log.Info("import finished", zap.String("source", src), zap.Int("imported", n), zap.Int("total", total))
	fmt.Printf("Imported %d records into %s (%d total)\n", n, cfg.GetCatalogPath(), total)
	return nil
}

func readRecords(ctx context.Context, src string, log *zap.Logger) ([]catalog.Record, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return catalog.ScanDir(ctx, src, log)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.ReadListing(f, log)
}
