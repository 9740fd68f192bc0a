// Package provision makes sure the classifier artifact exists on local disk
// before the service starts serving.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/jobguard/api-service/internal/infrastructure/config"
	"github.com/jobguard/api-service/internal/infrastructure/metrics"
)

// Error definitions for provisioning
var (
	ErrProvisioning = errors.New("model provisioning failed")
	ErrIsDirectory  = errors.New("model path is a directory")
)

// Error describes a failed artifact download
type Error struct {
	URL        string
	Path       string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s to %s: unexpected status %d", e.URL, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("download %s to %s: %v", e.URL, e.Path, e.Err)
}

// Unwrap returns both the cause and ErrProvisioning
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrProvisioning, e.Err}
	}
	return []error{ErrProvisioning}
}

// Provisioner downloads the classifier artifact once if it is missing
type Provisioner struct {
	fs         afero.Fs
	url        string
	path       string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewProvisioner creates a provisioner. An empty path resolves to DefaultModelPath.
func NewProvisioner(fs afero.Fs, cfg *config.ModelConfig, logger *zap.Logger) (*Provisioner, error) {
	path := cfg.Path
	if path == "" {
		p, err := DefaultModelPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	return &Provisioner{
		fs:   fs,
		url:  cfg.URL,
		path: path,
		httpClient: &http.Client{
			Timeout: cfg.DownloadTimeout,
		},
		logger: logger,
	}, nil
}

// DefaultModelPath returns the artifact location next to the running executable
func DefaultModelPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), config.DefaultModelFile), nil
}

// Path returns the local artifact path
func (p *Provisioner) Path() string {
	return p.path
}

// Ensure downloads the artifact unless a file already exists at Path.
// There is no retry; any failure returns *Error.
func (p *Provisioner) Ensure(ctx context.Context) error {
	info, err := p.fs.Stat(p.path)
	switch {
	case err == nil && info.IsDir():
		return &Error{URL: p.url, Path: p.path, Err: ErrIsDirectory}
	case err == nil:
		p.logger.Info("Classifier artifact present", zap.String("path", p.path))
		return nil
	case !os.IsNotExist(err):
		return &Error{URL: p.url, Path: p.path, Err: err}
	}

	p.logger.Info("Downloading classifier artifact",
		zap.String("url", p.url),
		zap.String("path", p.path),
	)

	start := time.Now()
	if err := p.download(ctx); err != nil {
		metrics.ModelDownloads.WithLabelValues("failure").Inc()
		return err
	}
	metrics.ModelDownloads.WithLabelValues("success").Inc()

	p.logger.Info("Classifier artifact downloaded",
		zap.String("path", p.path),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (p *Provisioner) download(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return &Error{URL: p.url, Path: p.path, Err: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &Error{URL: p.url, Path: p.path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{URL: p.url, Path: p.path, StatusCode: resp.StatusCode}
	}

	dir := filepath.Dir(p.path)
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return &Error{URL: p.url, Path: p.path, Err: err}
	}

	tmp, err := afero.TempFile(p.fs, dir, filepath.Base(p.path)+".*.part")
	if err != nil {
		return &Error{URL: p.url, Path: p.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = p.fs.Remove(tmpName)
		return &Error{URL: p.url, Path: p.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = p.fs.Remove(tmpName)
		return &Error{URL: p.url, Path: p.path, Err: err}
	}

	if err := p.fs.Rename(tmpName, p.path); err != nil {
		_ = p.fs.Remove(tmpName)
		return &Error{URL: p.url, Path: p.path, Err: err}
	}
	return nil
}
