// Package profilesource loads profiles from YAML files into a registry.
//
// Every file holds a top-level mapping of profile id to profile value:
//
//	us-standard:
//	  daily_limit: 10000
//	eu-strict:
//	  daily_limit: 2500
//
// Point a Source at a single file or at a directory of .yaml/.yml files,
// Sync it into a registry once, and optionally Watch to keep the registry
// in sync while files change underneath.
package profilesource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	criterion "github.com/tomymaritano/criterion-sub000"
)

// Editors fire bursts of events per save; changes are coalesced for this
// long before re-syncing.
const debounceInterval = 100 * time.Millisecond

// Source reads profiles from a file or directory.
type Source struct {
	path   string
	logger zerolog.Logger
}

type Option func(*Source)

// WithLogger routes sync and watch logging to l. The default logger drops
// everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// New creates a source reading from path, either a single YAML file or a
// directory of .yaml/.yml files.
func New(path string, opts ...Option) *Source {
	s := &Source{
		path:   path,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync loads all profiles from the source path into reg and returns how many
// were registered. Files are applied in filename order, so the last file
// wins when two define the same id. Sync only adds and replaces; ids removed
// from a file stay registered until the host decides otherwise.
func (s *Source) Sync(reg criterion.Registry) (int, error) {
	files, err := s.profileFiles()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, path := range files {
		profiles, err := loadFile(path)
		if err != nil {
			return count, err
		}
		for id, profile := range profiles {
			reg.Register(id, profile)
			count++
		}
		s.logger.Debug().Str("path", path).Int("profiles", len(profiles)).Msg("loaded profile file")
	}

	s.logger.Info().Str("path", s.path).Int("profiles", count).Msg("profile sync complete")
	return count, nil
}

// Watch blocks until ctx is done, re-syncing reg whenever a profile file
// changes. Callers should Sync once before watching; Watch only reacts to
// changes. A failing re-sync is logged and watching continues, since the
// file is usually mid-edit and the next save fixes it.
func (s *Source) Watch(ctx context.Context, reg criterion.Registry) error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.path); err != nil {
		return fmt.Errorf("watching %s: %w", s.path, err)
	}
	s.logger.Info().Str("path", s.path).Msg("watching for profile changes")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			// In directory mode only profile files count. A single
			// watched file is trusted whatever its name.
			if info.IsDir() && !isYAML(event.Name) {
				continue
			}
			s.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("profile file changed")
			pending = time.After(debounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			s.logger.Warn().Err(err).Msg("watch error")

		case <-pending:
			pending = nil
			if _, err := s.Sync(reg); err != nil {
				s.logger.Error().Err(err).Msg("profile re-sync failed")
			}
		}
	}
}

// profileFiles resolves the source path to the list of files to load.
func (s *Source) profileFiles() ([]string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.path, err)
	}
	if !info.IsDir() {
		return []string{s.path}, nil
	}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading profile directory %s: %w", s.path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(s.path, entry.Name()))
	}

	// sort by name so repeated ids override deterministically
	slices.Sort(files)
	return files, nil
}

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func loadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var profiles map[string]any
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("syntax error in %s: %w", path, err)
	}
	return profiles, nil
}
