package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// checksumFile is the manifest written next to the profile packs.
const checksumFile = ".checksums"

// ChecksumManifest pins the byte-level content of a profile-pack
// directory so edits after locking are detected at load time.
type ChecksumManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

// HashFile computes the BLAKE3 hash of a file's contents.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// packFiles lists the profile pack files in dir, sorted by name.
func packFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LockProfiles hashes every pack file in dir and writes the
// .checksums manifest. Subsequent loads verify against it.
func LockProfiles(dir string) (*ChecksumManifest, error) {
	names, err := packFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", dir, err)
	}

	manifest := &ChecksumManifest{
		Version:     1,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Hashes:      make(map[string]string, len(names)),
	}
	for _, name := range names {
		hash, err := HashFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", name, err)
		}
		manifest.Hashes[name] = hash
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checksums: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, checksumFile), data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write checksums: %w", err)
	}

	return manifest, nil
}

// LoadChecksums reads the manifest from dir. The returned error
// satisfies os.IsNotExist when no manifest has been written.
func LoadChecksums(dir string) (*ChecksumManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, checksumFile))
	if err != nil {
		return nil, err
	}

	var manifest ChecksumManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", checksumFile, err)
	}
	if manifest.Version != 1 {
		return nil, fmt.Errorf("unsupported checksums version: %d", manifest.Version)
	}

	return &manifest, nil
}

// VerifyProfiles checks every pack file in dir against the manifest.
// An unlocked directory (no manifest) passes; everything else must
// match exactly, including the set of files present.
func VerifyProfiles(dir string) error {
	manifest, err := LoadChecksums(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	names, err := packFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", dir, err)
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
		expected, ok := manifest.Hashes[name]
		if !ok {
			return fmt.Errorf("%s is not in the checksums manifest; run: glossa config lock", name)
		}
		actual, err := HashFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", name, err)
		}
		if actual != expected {
			return fmt.Errorf("%s was modified after locking (expected %s, got %s); run: glossa config lock",
				name, expected, actual)
		}
	}

	missing := make([]string, 0)
	for name := range manifest.Hashes {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%s is in the checksums manifest but missing from %s; run: glossa config lock",
			missing[0], dir)
	}

	return nil
}
