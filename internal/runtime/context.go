// Package runtime provides application runtime context for HealthKey.
package runtime

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Elmersong/HealthKey/internal/aggregate"
	"github.com/Elmersong/HealthKey/internal/daymeta"
	"github.com/Elmersong/HealthKey/internal/export"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/output"
	"github.com/Elmersong/HealthKey/internal/registry"
	"github.com/Elmersong/HealthKey/internal/storage"
	"github.com/Elmersong/HealthKey/internal/timeline"
)

// Context holds the application runtime context.
type Context struct {
	DB        *storage.DB
	KV        storage.KV
	Formatter *output.Formatter

	Registry   *registry.Registry
	Timeline   *timeline.Store
	Controller *timeline.Controller
	DayMeta    *daymeta.Store
	Aggregator *aggregate.Aggregator
	Exporter   *export.Exporter

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
	Clock     func() time.Time
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    storage.DefaultPath(),
		InMemory:  false,
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	// Check for environment variable override
	if envPath := os.Getenv("HEALTHKEY_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
		}
	}

	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, err
	}

	ctx, err := build(db, db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	ctx.DB = db
	return ctx, nil
}

// NewWithKV builds a context over an explicit KV, used by tests.
func NewWithKV(kv storage.KV, opts Options) (*Context, error) {
	return build(nil, kv, opts)
}

func build(db *storage.DB, kv storage.KV, opts Options) (*Context, error) {
	reg, err := registry.Load(kv)
	if err != nil {
		return nil, err
	}

	store, err := timeline.Load(kv, reg)
	if err != nil {
		return nil, err
	}

	controller := timeline.NewController(store, opts.Clock)
	// Reinstate the pending tap saved by the previous invocation so
	// consecutive CLI runs can pair.
	if data, found, err := kv.Load(model.KeyPendingTap); err == nil && found {
		var pending timeline.PendingTap
		if json.Unmarshal(data, &pending) == nil {
			controller.Restore(&pending)
		}
	}

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	return &Context{
		KV:         kv,
		Formatter:  formatter,
		Registry:   reg,
		Timeline:   store,
		Controller: controller,
		DayMeta:    daymeta.New(kv),
		Aggregator: aggregate.New(store, reg),
		Exporter:   export.New(store, reg, opts.Clock),
		Debug:      opts.Debug,
	}, nil
}

// SavePending persists the controller's pending-tap session state so
// the next invocation can resume pairing.
func (c *Context) SavePending() error {
	pending := c.Controller.Pending()
	if pending == nil {
		return c.KV.Delete(model.KeyPendingTap)
	}
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return c.KV.Save(model.KeyPendingTap, data)
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// CategoryIndex returns categories keyed by id, for render lookups.
func (c *Context) CategoryIndex() map[string]model.Category {
	out := make(map[string]model.Category)
	for _, cat := range c.Registry.Categories() {
		out[cat.ID] = cat
	}
	return out
}
