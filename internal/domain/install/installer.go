// Package install downloads plugin artifacts into the target directory and
// resolves the required dependencies of an installed version.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plugdex/plugdex/internal/ports"
)

// Installer errors.
var (
	ErrDownloadFailed = errors.New("download failed")
	ErrWriteFailed    = errors.New("write failed")
	ErrQueueClosed    = errors.New("install queue closed")
)

// InstallerConfig configures the installer.
type InstallerConfig struct {
	// TargetDir is where artifacts are written.
	TargetDir string
	// Timeout bounds each artifact download.
	Timeout time.Duration
	// UserAgent identifies this client to the download host.
	UserAgent string
	// Workers is the number of background download workers.
	Workers int
}

// DefaultInstallerConfig returns sensible defaults for the given target
// directory.
func DefaultInstallerConfig(targetDir string) InstallerConfig {
	return InstallerConfig{
		TargetDir: targetDir,
		Timeout:   5 * time.Minute,
		UserAgent: "plugdex/1.0 (github.com/plugdex/plugdex)",
		Workers:   2,
	}
}

// job is one queued download.
type job struct {
	id       uuid.UUID
	url      string
	filename string
}

// Installer downloads artifacts to the target directory. Install writes
// synchronously; Enqueue hands the download to a background worker so a
// slow or large artifact never blocks the interactive path.
type Installer struct {
	config     InstallerConfig
	httpClient *http.Client
	notifier   ports.Notifier
	logger     ports.Logger

	jobs      chan job
	startOnce sync.Once
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
}

// NewInstaller creates an installer. Download workers start on the first
// Enqueue, so purely synchronous callers never spawn any.
func NewInstaller(config InstallerConfig, notifier ports.Notifier, logger ports.Logger) *Installer {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &Installer{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		notifier: notifier,
		logger:   logger,
		jobs:     make(chan job, 16),
	}
}

// startWorkers spawns the download workers exactly once.
func (i *Installer) startWorkers() {
	i.startOnce.Do(func() {
		for range i.config.Workers {
			i.wg.Add(1)
			go i.worker()
		}
	})
}

// Install downloads url and writes it to targetDir/filename, overwriting
// any existing file of that name. It emits a started notification and
// exactly one terminal succeeded or failed notification.
func (i *Installer) Install(ctx context.Context, url, filename string) error {
	i.notifier.Notify(ports.Infof("Downloading %s...", filename))

	if err := i.download(ctx, url, filename); err != nil {
		i.logger.Error("install failed", "filename", filename, "err", err)
		i.notifier.Notify(ports.Errorf("Failed to install %s: %v", filename, err))
		return err
	}

	i.logger.Info("installed artifact", "filename", filename, "dir", i.config.TargetDir)
	i.notifier.Notify(ports.Infof("Saved %s to %s", filename, i.config.TargetDir))
	i.notifier.InventoryChanged()
	return nil
}

// Enqueue schedules a background download. Returns the job id, or
// ErrQueueClosed after Close.
func (i *Installer) Enqueue(url, filename string) (uuid.UUID, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return uuid.Nil, ErrQueueClosed
	}
	i.startWorkers()

	j := job{id: uuid.New(), url: url, filename: filename}
	i.jobs <- j
	return j.id, nil
}

// Close stops accepting jobs and waits for in-flight downloads. A queued
// download runs to completion or failure; there is no user-facing cancel.
func (i *Installer) Close() {
	i.mu.Lock()
	if !i.closed {
		i.closed = true
		close(i.jobs)
	}
	i.mu.Unlock()
	i.wg.Wait()
}

func (i *Installer) worker() {
	defer i.wg.Done()
	for j := range i.jobs {
		i.logger.Debug("download worker picked up job", "job", j.id, "filename", j.filename)
		_ = i.Install(context.Background(), j.url, j.filename)
	}
}

// download fetches the artifact bytes and writes them to the target path.
func (i *Installer) download(ctx context.Context, url, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: request creation failed", ErrDownloadFailed)
	}
	req.Header.Set("User-Agent", i.config.UserAgent)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	// Overwrite on name collision; filepath.Base keeps registry-supplied
	// names from escaping the target directory.
	target := filepath.Join(i.config.TargetDir, filepath.Base(filename))
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}
