package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"ripple/internal/catalog"
	"ripple/internal/config"
	"ripple/internal/logging"
	"ripple/internal/pipeline"
)

// Daemon coordinates the background pipeline and enforces single-instance
// execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *catalog.Store
	orch   *pipeline.Orchestrator

	logPath  string
	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	CatalogDBPath string
	LockFilePath  string
	APIAddr       string
	Stats         map[catalog.Status]int
	ActiveRuns    []*pipeline.Run
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, orch *pipeline.Orchestrator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || orch == nil {
		return nil, errors.New("daemon requires config, store, and orchestrator")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "rippled.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		orch:     orch,
		logPath:  filepath.Join(cfg.Paths.LogDir, "ripple.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock and brings up the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another ripple daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("ripple daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts active runs, shuts down the HTTP API, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	d.orch.Stop(stopCtx)
	cancel()

	d.api.stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("ripple daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// Running reports whether the daemon lifecycle is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	stats, err := d.store.Stats(ctx)
	if err != nil {
		d.logger.Warn("failed to load catalog stats", logging.Error(err))
	}
	var active []*pipeline.Run
	for _, run := range d.orch.Runs() {
		if !run.State().Terminal() {
			active = append(active, run)
		}
	}
	return Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		CatalogDBPath: d.store.Path(),
		LockFilePath:  d.lockPath,
		APIAddr:       d.api.addr(),
		Stats:         stats,
		ActiveRuns:    active,
	}
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// ListItems returns catalog items filtered by optional tag and statuses.
func (d *Daemon) ListItems(ctx context.Context, tag string, statuses []catalog.Status) ([]*catalog.Item, error) {
	return d.store.ListByTag(ctx, tag, statuses...)
}

// GetItem returns a single catalog item by id.
func (d *Daemon) GetItem(ctx context.Context, id int64) (*catalog.Item, error) {
	return d.store.GetByID(ctx, id)
}

// RemoveItem deletes a catalog item by id.
func (d *Daemon) RemoveItem(ctx context.Context, id int64) (bool, error) {
	return d.store.Remove(ctx, id)
}

// StartRun begins a pipeline run for the given tag.
func (d *Daemon) StartRun(ctx context.Context, tag string) (*pipeline.Run, error) {
	return d.orch.StartRun(ctx, tag)
}

// StopRun requests a clean halt of the identified run.
func (d *Daemon) StopRun(id string) bool {
	return d.orch.StopRun(id)
}

// Runs returns active and recently finished runs.
func (d *Daemon) Runs() []*pipeline.Run {
	return d.orch.Runs()
}

// RunByID returns a run handle by id.
func (d *Daemon) RunByID(id string) *pipeline.Run {
	return d.orch.RunByID(id)
}

// SubmitItem submits one generated comment outside a full run.
func (d *Daemon) SubmitItem(ctx context.Context, id int64) (*catalog.Item, error) {
	return d.orch.SubmitItem(ctx, id)
}

// BoostItem orders an engagement boost for one confirmed comment.
func (d *Daemon) BoostItem(ctx context.Context, id int64) (*catalog.Item, error) {
	return d.orch.BoostItem(ctx, id)
}

// AddTarget registers a new monitored discovery target.
func (d *Daemon) AddTarget(ctx context.Context, targetType catalog.TargetType, value, tag string) (*catalog.Target, error) {
	return d.store.AddTarget(ctx, targetType, value, tag)
}

// Targets lists monitored targets, optionally filtered by tag.
func (d *Daemon) Targets(ctx context.Context, tag string) ([]*catalog.Target, error) {
	return d.store.Targets(ctx, tag)
}

// RemoveTarget deletes a monitored target by id.
func (d *Daemon) RemoveTarget(ctx context.Context, id int64) (bool, error) {
	return d.store.RemoveTarget(ctx, id)
}

// BrandProfile returns the stored brand profile.
func (d *Daemon) BrandProfile(ctx context.Context) (catalog.BrandProfile, error) {
	return d.store.BrandProfile(ctx)
}

// SaveBrandProfile persists the brand profile.
func (d *Daemon) SaveBrandProfile(ctx context.Context, profile catalog.BrandProfile) error {
	return d.store.SaveBrandProfile(ctx, profile)
}

// Prompts returns the prompt set for a workflow tag.
func (d *Daemon) Prompts(ctx context.Context, tag string) (catalog.PromptSet, error) {
	return d.store.Prompts(ctx, tag)
}

// SavePrompts persists a per-tag prompt set.
func (d *Daemon) SavePrompts(ctx context.Context, set catalog.PromptSet) error {
	return d.store.SavePrompts(ctx, set)
}
