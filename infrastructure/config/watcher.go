package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	apperrors "github.com/danja/semem-go/pkg/errors"
)

// TunableConfig is the subset of configuration that can change at runtime
// without a restart: cache sizing/TTL, memory thresholds, and provider
// priority overrides (operators reordering provider preference without a
// redeploy).
type TunableConfig struct {
	Cache              CacheConfig       `json:"cache"`
	SimilarityThreshold float64          `json:"similarityThreshold"`
	PromotionThreshold  float64          `json:"promotionThreshold"`
	ProviderPriority    map[string]int   `json:"providerPriority"`
	Metadata            ConfigMetadata   `json:"metadata"`
}

// ConfigMetadata holds metadata about the configuration
type ConfigMetadata struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConfigWatcher watches a tunable-config JSON file for changes and applies
// them with debounce, adapted from the teacher's fsnotify-based
// ConfigWatcher (same debounce-then-validate-then-swap shape, applied to
// this engine's cache/memory/provider tunables instead of brain2 feature
// flags and edge limits).
type ConfigWatcher struct {
	path        string
	watcher     *fsnotify.Watcher
	current     *TunableConfig
	mu          sync.RWMutex
	onChange    []func(*TunableConfig)
	logger      *zap.Logger
	stopCh      chan struct{}
}

// NewConfigWatcher creates a new configuration watcher
func NewConfigWatcher(configPath string, logger *zap.Logger) (*ConfigWatcher, error) {
	cfg, err := loadTunableConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial tunable config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		logger.Warn("failed to watch config directory", zap.Error(err))
	}

	return &ConfigWatcher{
		path:    configPath,
		watcher: watcher,
		current: cfg,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching for configuration changes
func (w *ConfigWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("tunable config watcher started", zap.String("path", w.path))
}

// Stop stops watching for configuration changes
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.logger.Info("tunable config watcher stopped")
}

func (w *ConfigWatcher) watchLoop() {
	var debounceTimer *time.Timer
	const debounceDuration = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, w.handleConfigChange)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *ConfigWatcher) handleConfigChange() {
	w.logger.Info("tunable config file changed, reloading", zap.String("path", w.path))

	newConfig, err := loadTunableConfig(w.path)
	if err != nil {
		w.logger.Error("failed to reload tunable config", zap.Error(err))
		return
	}
	if err := w.validateConfig(newConfig); err != nil {
		w.logger.Error("invalid tunable config, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = newConfig
	w.mu.Unlock()

	for _, handler := range w.onChange {
		go handler(newConfig)
	}
	w.logger.Info("tunable config reloaded", zap.String("version", newConfig.Metadata.Version))
}

func (w *ConfigWatcher) validateConfig(cfg *TunableConfig) error {
	if cfg.Cache.MaxSize <= 0 {
		return apperrors.NewConfig("cache.maxSize must be positive")
	}
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return apperrors.NewConfig("similarityThreshold must be in [0,1]")
	}
	return nil
}

// OnChange registers a callback for configuration changes
func (w *ConfigWatcher) OnChange(handler func(*TunableConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// GetCurrent returns the current configuration
func (w *ConfigWatcher) GetCurrent() *TunableConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func loadTunableConfig(path string) (*TunableConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tunable config file: %w", err)
	}

	var cfg TunableConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tunable config JSON: %w", err)
	}
	if cfg.Metadata.Version == "" {
		cfg.Metadata.Version = "1.0.0"
	}
	cfg.Metadata.UpdatedAt = time.Now()
	return &cfg, nil
}
