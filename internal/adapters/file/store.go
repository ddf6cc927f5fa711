package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/phocus/pkg/domain"
)

const ext = ".json"

// Store implements ports.RemappingStore using the local filesystem.
// It stores each profile as a JSON array in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".phocus/remappings".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".phocus", "remappings")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(profile string) (string, error) {
	if profile == "" {
		return "", fmt.Errorf("profile cannot be empty")
	}
	if strings.ContainsAny(profile, `/\`) || profile == "." || profile == ".." {
		return "", fmt.Errorf("invalid profile name %q", profile)
	}
	return filepath.Join(s.BasePath, profile+ext), nil
}

// Save persists the profile to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, profile string, remappings []domain.Remapping) error {
	destPath, err := s.path(profile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure remapping directory: %w", err)
	}

	if remappings == nil {
		remappings = []domain.Remapping{}
	}
	data, err := json.MarshalIndent(remappings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal remappings: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+profile+"-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing profile for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to profile: %w", err)
	}
	return nil
}

// Load retrieves the profile from its JSON file.
func (s *Store) Load(ctx context.Context, profile string) ([]domain.Remapping, error) {
	filePath, err := s.path(profile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var remappings []domain.Remapping
	if err := json.Unmarshal(data, &remappings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", profile, err)
	}
	return remappings, nil
}

// Delete removes the profile file.
func (s *Store) Delete(ctx context.Context, profile string) error {
	filePath, err := s.path(profile)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete profile file: %w", err)
	}
	return nil
}

// List returns all stored profile names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var profiles []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		profiles = append(profiles, strings.TrimSuffix(name, ext))
	}
	return profiles, nil
}
