// Package discovery enumerates candidate credential provider executables.
//
// The search order is fixed: directories named by the environment
// variables (in the order listed below), then directories from the config
// file, then the per-user provider root. The directory holding the running
// binary is always scanned last, whether or not it appeared earlier. The
// result is deduplicated preserving first-seen order and recomputed on
// every resolution call; nothing is cached across calls.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/systmms/feedauth/internal/logging"
)

// Environment variables consulted for extra provider search paths, in
// order. Each value is a list separated by os.PathListSeparator; empty
// entries are discarded.
const (
	EnvProviderPaths  = "FEEDAUTH_CREDENTIALPROVIDERS_PATH"
	EnvExtensionPaths = "FEEDAUTH_EXTENSIONS_PATH"
)

// providerPrefix is the base-name pattern provider executables must match,
// compared case-insensitively.
const providerPrefix = "CredentialProvider"

// userRootDir is the fixed per-user provider root, relative to the home
// directory.
const userRootDir = ".feedauth/credential-providers"

// Discoverer finds provider executables on the local filesystem.
type Discoverer struct {
	logger     *logging.Logger
	extraPaths []string

	// Injection points for tests.
	lookupEnv   func(string) (string, bool)
	userHomeDir func() (string, error)
	executable  func() (string, error)
}

// New creates a discoverer. extraPaths come from the config file and are
// searched after the environment variable paths.
func New(logger *logging.Logger, extraPaths []string) *Discoverer {
	return &Discoverer{
		logger:      logger,
		extraPaths:  extraPaths,
		lookupEnv:   os.LookupEnv,
		userHomeDir: os.UserHomeDir,
		executable:  os.Executable,
	}
}

// Discover returns the ordered, deduplicated list of provider executable
// paths. Directories that do not exist are skipped silently.
func (d *Discoverer) Discover() []string {
	var dirs []string

	for _, envVar := range []string{EnvProviderPaths, EnvExtensionPaths} {
		if value, ok := d.lookupEnv(envVar); ok {
			for _, p := range strings.Split(value, string(os.PathListSeparator)) {
				if p != "" {
					dirs = append(dirs, p)
				}
			}
		}
	}

	dirs = append(dirs, d.extraPaths...)

	if home, err := d.userHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, filepath.FromSlash(userRootDir)))
	}

	// The orchestrator's own installation directory is always searched,
	// last, regardless of the directories above.
	if exe, err := d.executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}

	seen := make(map[string]bool)
	var providers []string
	for _, dir := range dirs {
		for _, p := range d.scanDir(dir) {
			if !seen[p] {
				seen[p] = true
				providers = append(providers, p)
			}
		}
	}

	d.logger.Debug("Discovered %d credential provider(s)", len(providers))
	return providers
}

func (d *Discoverer) scanDir(dir string) []string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}

	var found []string
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		if isProviderExecutable(entry) {
			found = append(found, path)
		}
		return nil
	})
	return found
}

func isProviderExecutable(entry fs.DirEntry) bool {
	name := entry.Name()
	if runtime.GOOS == "windows" {
		return hasProviderPrefix(name) && strings.EqualFold(filepath.Ext(name), ".exe")
	}
	if !hasProviderPrefix(name) {
		return false
	}
	info, err := entry.Info()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

func hasProviderPrefix(name string) bool {
	return len(name) >= len(providerPrefix) &&
		strings.EqualFold(name[:len(providerPrefix)], providerPrefix)
}
