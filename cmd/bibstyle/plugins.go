package main

import (
	"errors"

	"github.com/matsen/bibstyle/internal/config"
	"github.com/matsen/bibstyle/internal/plugin"
	"github.com/matsen/bibstyle/internal/richtext"
	"github.com/matsen/bibstyle/internal/style"
)

// Plugins holds the host-owned registries of styles and backends.
type Plugins struct {
	Styles   *plugin.Registry[style.Factory]
	Backends *plugin.Registry[richtext.Backend]
}

// plugins is populated by registerPlugins before any command runs.
var plugins *Plugins

// newPlugins creates registries holding the built-in styles and backends.
func newPlugins() (*Plugins, error) {
	p := &Plugins{
		Styles:   plugin.NewRegistry[style.Factory]("style"),
		Backends: plugin.NewRegistry[richtext.Backend]("backend"),
	}

	if err := style.RegisterBuiltins(p.Styles); err != nil {
		return nil, err
	}
	for _, b := range richtext.Backends() {
		p.Backends.MustRegister(b.Name(), b)
	}
	return p, nil
}

func registerPlugins() error {
	if plugins != nil {
		return nil
	}
	p, err := newPlugins()
	if err != nil {
		return err
	}
	plugins = p
	return nil
}

// Resolve looks up a style and a backend by name.
func (p *Plugins) Resolve(styleName, backendName string, opts style.Options) (style.Style, richtext.Backend, error) {
	factory, err := p.Styles.Lookup(styleName)
	if err != nil {
		return nil, nil, err
	}
	backend, err := p.Backends.Lookup(backendName)
	if err != nil {
		return nil, nil, err
	}
	return factory(opts), backend, nil
}

// mustResolve resolves the style and backend, exits on error.
// Empty flag values fall back to the resolved configuration.
func mustResolve(cfg config.Config, styleFlag, backendFlag string, abbreviate bool) (style.Style, richtext.Backend) {
	styleName := firstNonEmpty(styleFlag, cfg.Style)
	backendName := firstNonEmpty(backendFlag, cfg.Backend)

	s, b, err := plugins.Resolve(styleName, backendName, style.Options{
		AbbreviateNames: abbreviate || cfg.AbbreviateNames,
	})
	if err != nil {
		if errors.Is(err, plugin.ErrNotFound) {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	return s, b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
