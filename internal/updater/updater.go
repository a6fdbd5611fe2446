// Package updater checks the remote store for a newer release, stages
// the downloaded binary, and swaps it in place before relaunching.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"kolipanel/internal/store"

	"github.com/go-resty/resty/v2"
	"github.com/natefinch/atomic"
)

const manifestPath = "app_version"

type State string

const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateDownloading State = "downloading"
	StateReady       State = "ready_to_install"
	StateRelaunching State = "relaunching"
)

// Manifest is the release descriptor kept under the app_version node.
type Manifest struct {
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
	Notes       string `json:"notes,omitempty"`
}

type Service struct {
	store          store.Client
	http           *resty.Client
	currentVersion string

	mu       sync.Mutex
	state    State
	manifest *Manifest
	staged   string
}

func New(st store.Client, currentVersion string) *Service {
	return &Service{
		store:          st,
		http:           resty.New().SetTimeout(2 * time.Minute),
		currentVersion: currentVersion,
	}
}

func (s *Service) CurrentVersion() string { return s.currentVersion }

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == "" {
		return StateIdle
	}
	return s.state
}

func (s *Service) setState(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// Check fetches the release manifest and reports whether it describes a
// newer version than the running one. A missing manifest means no
// update is available, not an error.
func (s *Service) Check(ctx context.Context) (*Manifest, bool, error) {
	s.setState(StateChecking)
	defer s.setState(StateIdle)

	raw, err := s.store.Get(ctx, manifestPath)
	if err != nil {
		return nil, false, fmt.Errorf("fetch release manifest: %w", err)
	}
	if raw == nil {
		return nil, false, nil
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("decode release manifest: %w", err)
	}
	if m.Version == "" || m.DownloadURL == "" {
		return nil, false, nil
	}

	newer := CompareVersions(s.currentVersion, m.Version) < 0
	if newer {
		s.mu.Lock()
		s.manifest = &m
		s.mu.Unlock()
		slog.InfoContext(ctx, "Update available",
			"component", "updater",
			"current", s.currentVersion,
			"latest", m.Version,
		)
	}
	return &m, newer, nil
}

// Download stages the release binary in a temp file next to nothing the
// running process depends on. Returns the staged path.
func (s *Service) Download(ctx context.Context, m Manifest) (string, error) {
	if m.DownloadURL == "" {
		return "", errors.New("manifest has no download URL")
	}
	s.setState(StateDownloading)

	dir, err := os.MkdirTemp("", "kolipanel-update-")
	if err != nil {
		s.setState(StateIdle)
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	staged := filepath.Join(dir, "kolipanel.next")

	resp, err := s.http.R().
		SetContext(ctx).
		SetOutput(staged).
		Get(m.DownloadURL)
	if err != nil {
		s.setState(StateIdle)
		return "", fmt.Errorf("download release: %w", err)
	}
	if resp.StatusCode() != 200 {
		s.setState(StateIdle)
		return "", fmt.Errorf("download release: unexpected status %d", resp.StatusCode())
	}
	if err := os.Chmod(staged, 0755); err != nil {
		s.setState(StateIdle)
		return "", fmt.Errorf("mark release executable: %w", err)
	}

	s.mu.Lock()
	s.staged = staged
	s.manifest = &m
	s.mu.Unlock()
	s.setState(StateReady)

	slog.InfoContext(ctx, "Release staged",
		"component", "updater",
		"version", m.Version,
		"path", staged,
	)
	return staged, nil
}

// Install replaces the running executable with the staged binary and
// starts the new version. The caller is expected to exit afterwards.
func (s *Service) Install(ctx context.Context) error {
	s.mu.Lock()
	staged := s.staged
	s.mu.Unlock()
	if staged == "" {
		return errors.New("no staged release to install")
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate running executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}

	if err := atomic.ReplaceFile(staged, exe); err != nil {
		return fmt.Errorf("replace executable: %w", err)
	}
	s.setState(StateRelaunching)

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("relaunch: %w", err)
	}

	slog.InfoContext(ctx, "New version launched",
		"component", "updater",
		"pid", cmd.Process.Pid,
	)
	return nil
}
