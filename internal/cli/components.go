package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hyperjump/findword/internal/config"
	"github.com/hyperjump/findword/internal/ingest"
	"github.com/hyperjump/findword/internal/keyword"
	"github.com/hyperjump/findword/internal/search"
	"github.com/hyperjump/findword/internal/store"
	"github.com/hyperjump/findword/pkg/utils"
)

const (
	defaultConfigPath = "/usr/local/etc/findword/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig resolves and loads the config file, returning the path that
// was actually used. When path is still the packaged default, a
// config.yaml in the working directory wins; that keeps development runs
// out of /usr/local/etc.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Components holds the initialized storage stack for commands that access
// it directly instead of going through a running server.
type Components struct {
	Store  store.Store
	Index  keyword.WordIndex
	Engine *search.Engine
	Loader *ingest.Loader
}

// Close releases storage handles in reverse dependency order.
func (c *Components) Close() {
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

// initComponents wires the store, keyword index, engine, and loader from
// configuration.
func initComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	st, err := store.New(cfg.Storage.Backend, cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	idx, err := keyword.NewBleveIndex(cfg.Storage.IndexPath)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}
	engine := search.NewEngine(st, search.WithWordIndex(idx), search.WithLogger(logger))
	loader := ingest.NewLoader(st, ingest.WithIndex(idx), ingest.WithLogger(logger))
	return &Components{Store: st, Index: idx, Engine: engine, Loader: loader}, nil
}

// openDirect is the shared preamble of commands that run against local
// storage: load config, build a logger, initialize components. Callers
// close the components and sync the logger.
func openDirect() (*Components, *config.Config, *zap.Logger, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug || debugMode)
	if err != nil {
		return nil, nil, nil, err
	}
	comp, err := initComponents(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	return comp, cfg, logger, nil
}
