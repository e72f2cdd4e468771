package remoteconfig

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// AppThemeKey names the theme entry both remotely and in the local store.
const AppThemeKey = "app_theme"

type Source interface {
	Fetch(ctx context.Context, key string) (map[string]any, error)
}

type Store interface {
	GetPreference(key string) (map[string]any, bool, error)
	SetPreference(key string, value map[string]any) error
}

type Loader struct {
	store Store

	mu    sync.RWMutex
	theme *ThemeConfig
}

func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// Initialize resolves the active theme. A cached dictionary always wins for
// the current run and the freshly fetched one is stored for the next run.
// Without a cache the fetched dictionary is used right away.
func (l *Loader) Initialize(ctx context.Context, source Source) (*ThemeConfig, error) {
	cached, hasCache, err := l.store.GetPreference(AppThemeKey)
	if err != nil {
		logrus.WithError(err).Error("read cached theme failed")
		hasCache = false
	}

	remote, fetchErr := source.Fetch(ctx, AppThemeKey)
	if fetchErr != nil {
		logrus.WithError(fetchErr).Warn("remote theme fetch failed, keeping cached theme")
		if hasCache {
			l.setTheme(NewThemeConfig(cached))
		} else {
			l.setTheme(NewThemeConfig(nil))
		}
		return l.Theme(), fetchErr
	}
	if remote == nil {
		remote = map[string]any{}
	}

	if hasCache {
		l.setTheme(NewThemeConfig(cached))
	} else {
		l.setTheme(NewThemeConfig(remote))
	}

	if err := l.store.SetPreference(AppThemeKey, remote); err != nil {
		logrus.WithError(err).Error("persist remote theme failed")
		return l.Theme(), err
	}
	return l.Theme(), nil
}

// Theme returns the active theme, or nil before Initialize.
func (l *Loader) Theme() *ThemeConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

func (l *Loader) setTheme(theme *ThemeConfig) {
	l.mu.Lock()
	l.theme = theme
	l.mu.Unlock()
}
