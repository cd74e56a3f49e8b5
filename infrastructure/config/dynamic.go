package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DynamicConfigManager overlays hot-reloadable tunables (cache sizing,
// similarity/promotion thresholds, provider priority) onto the static
// startup Config, adapted from the teacher's DynamicConfigManager (same
// watcher-plus-callback wiring, different tunable set).
type DynamicConfigManager struct {
	staticConfig *Config
	watcher      *ConfigWatcher

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	callbacks []func(*TunableConfig)

	logger *zap.Logger
}

// NewDynamicConfigManager creates a new dynamic configuration manager
func NewDynamicConfigManager(staticConfig *Config, tunablePath string, logger *zap.Logger) (*DynamicConfigManager, error) {
	ctx, cancel := context.WithCancel(context.Background())

	var watcher *ConfigWatcher
	if tunablePath != "" {
		w, err := NewConfigWatcher(tunablePath, logger)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create config watcher: %w", err)
		}
		watcher = w
	}

	manager := &DynamicConfigManager{
		staticConfig: staticConfig,
		watcher:      watcher,
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}

	if watcher != nil {
		watcher.OnChange(manager.handleConfigChange)
	}

	return manager, nil
}

// Start begins watching for configuration changes
func (m *DynamicConfigManager) Start() error {
	if m.watcher != nil {
		m.watcher.Start()
	}
	go m.healthCheckLoop()
	m.logger.Info("dynamic configuration manager started")
	return nil
}

// Stop stops the configuration manager
func (m *DynamicConfigManager) Stop() {
	m.cancel()
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.logger.Info("dynamic configuration manager stopped")
}

func (m *DynamicConfigManager) healthCheckLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.performHealthCheck()
		}
	}
}

func (m *DynamicConfigManager) performHealthCheck() {
	if m.watcher == nil {
		return
	}
	current := m.watcher.GetCurrent()
	if err := m.watcher.validateConfig(current); err != nil {
		m.logger.Error("tunable config health check failed", zap.Error(err))
	}
}

func (m *DynamicConfigManager) handleConfigChange(newConfig *TunableConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldThreshold := m.staticConfig.Memory.SimilarityThreshold
	m.staticConfig.Memory.SimilarityThreshold = newConfig.SimilarityThreshold
	m.staticConfig.Memory.PromotionThreshold = newConfig.PromotionThreshold
	m.staticConfig.Cache = newConfig.Cache

	if oldThreshold != newConfig.SimilarityThreshold {
		m.logger.Info("similarity threshold changed",
			zap.Float64("old", oldThreshold),
			zap.Float64("new", newConfig.SimilarityThreshold),
		)
	}

	for _, callback := range m.callbacks {
		go callback(newConfig)
	}
}

// OnChange registers a callback for configuration changes
func (m *DynamicConfigManager) OnChange(callback func(*TunableConfig)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// GetConfig returns the current merged configuration
func (m *DynamicConfigManager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.staticConfig
}

// ProviderPriority returns a dynamic priority override for a provider type,
// falling back to ok=false when no watcher or override is configured.
// ProviderRegistry does not read these overrides; its order is fixed when
// it is constructed.
func (m *DynamicConfigManager) ProviderPriority(providerType string) (int, bool) {
	if m.watcher == nil {
		return 0, false
	}
	current := m.watcher.GetCurrent()
	p, ok := current.ProviderPriority[providerType]
	return p, ok
}
