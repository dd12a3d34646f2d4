// Package assets maps logical asset names to their content-hashed filenames
// via a build-generated manifest.json.
package assets

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Dev-mode manifest rereads are throttled to this interval.
const devReloadInterval = 50 * time.Millisecond

const staticPrefix = "/static/"

// AssetResolver resolves logical asset names to hashed filenames using a
// manifest read either from disk (dev) or an embedded FS (prod).
type AssetResolver struct {
	mu            sync.RWMutex
	manifest      map[string]string
	manifestPath  string
	diskBacked    bool
	fsys          fs.FS
	lastModTime   time.Time
	lastDevReload time.Time
	logger        *slog.Logger
}

// NewAssetResolverFromDisk builds a resolver that rereads manifestPath from
// the local filesystem when it changes.
func NewAssetResolverFromDisk(manifestPath string) (*AssetResolver, error) {
	ar := &AssetResolver{
		manifestPath: manifestPath,
		diskBacked:   true,
		logger:       slog.Default(),
	}
	return ar, ar.Reload()
}

// NewAssetResolverFromFS builds a resolver over an fs.FS, typically the
// embedded production bundle.
func NewAssetResolverFromFS(fsys fs.FS, manifestPath string) (*AssetResolver, error) {
	ar := &AssetResolver{
		manifestPath: manifestPath,
		fsys:         fsys,
		logger:       slog.Default(),
	}
	return ar, ar.Reload()
}

func (ar *AssetResolver) readManifest() ([]byte, error) {
	if ar.diskBacked {
		return os.ReadFile(ar.manifestPath)
	}
	if ar.fsys != nil {
		return fs.ReadFile(ar.fsys, ar.manifestPath)
	}
	return nil, errors.New("no manifest source configured")
}

// Reload synchronizes the in-memory manifest with its source. A missing
// manifest is not an error; assets then fall back to their logical names.
func (ar *AssetResolver) Reload() error {
	data, err := ar.readManifest()

	ar.mu.Lock()
	defer ar.mu.Unlock()

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ar.clearLocked()
			return nil
		}
		return err
	}

	ar.manifest = nil
	if len(data) > 0 {
		if jsonErr := json.Unmarshal(data, &ar.manifest); jsonErr != nil {
			ar.logger.Error("failed to parse asset manifest",
				slog.String("manifest", ar.manifestPath),
				slog.Any("error", jsonErr),
			)
			ar.manifest = nil
		}
	}

	ar.lastModTime = time.Time{}
	if ar.diskBacked {
		if info, statErr := os.Stat(ar.manifestPath); statErr == nil {
			ar.lastModTime = info.ModTime()
		}
	}
	return nil
}

func (ar *AssetResolver) clearLocked() {
	ar.manifest = nil
	ar.lastModTime = time.Time{}
}

// ReloadIfChanged rereads the manifest when the file's mtime moved forward.
// Only meaningful for disk-backed resolvers.
func (ar *AssetResolver) ReloadIfChanged() {
	if ar == nil || !ar.diskBacked {
		return
	}

	info, err := os.Stat(ar.manifestPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		ar.mu.Lock()
		ar.clearLocked()
		ar.mu.Unlock()
		return
	case err != nil:
		return
	}

	ar.mu.RLock()
	stale := info.ModTime().After(ar.lastModTime)
	ar.mu.RUnlock()
	if !stale {
		return
	}

	if err := ar.Reload(); err != nil {
		ar.logger.Error("failed to reload asset manifest",
			slog.String("manifest", ar.manifestPath),
			slog.Any("error", err),
		)
	}
}

// Resolve returns the hashed path for a logical asset name, or the logical
// name itself when the manifest has no entry.
func (ar *AssetResolver) Resolve(logicalName string) string {
	ar.mu.RLock()
	defer ar.mu.RUnlock()

	if hashed, ok := ar.manifest[logicalName]; ok {
		return staticPrefix + hashed
	}
	return staticPrefix + logicalName
}

// ResolveAsset is the template-facing entry point. In dev mode the manifest
// is re-read (throttled) and the resolved file is verified on disk so stale
// hashes never 404 during local edits.
func ResolveAsset(resolver *AssetResolver, logicalName string, devMode bool) string {
	logicalPath := staticPrefix + logicalName
	if resolver == nil {
		return logicalPath
	}

	if !devMode {
		resolver.ReloadIfChanged()
		return resolver.Resolve(logicalName)
	}

	if err := resolver.reloadForDev(); err != nil {
		resolver.logger.Error("failed to reload asset manifest",
			slog.String("manifest", resolver.manifestPath),
			slog.Any("error", err),
		)
	}

	resolved := resolver.Resolve(logicalName)
	if assetOnDisk(resolved) {
		return resolved
	}

	// Missing file usually means the manifest is stale; reload once.
	if err := resolver.Reload(); err != nil {
		resolver.logger.Error("failed to reload asset manifest after missing asset",
			slog.String("manifest", resolver.manifestPath),
			slog.Any("error", err),
			slog.String("logical_asset", logicalName),
		)
	}
	resolved = resolver.Resolve(logicalName)
	if !assetOnDisk(resolved) {
		resolver.logger.Warn("resolved asset missing on disk; using logical name",
			slog.String("logical_asset", logicalName),
			slog.String("resolved_asset", resolved),
		)
		return logicalPath
	}
	return resolved
}

// reloadForDev throttles full manifest rereads during dev-mode rendering.
func (ar *AssetResolver) reloadForDev() error {
	now := time.Now()

	ar.mu.Lock()
	throttled := !ar.lastDevReload.IsZero() && now.Sub(ar.lastDevReload) < devReloadInterval
	if !throttled {
		ar.lastDevReload = now
	}
	ar.mu.Unlock()
	if throttled {
		return nil
	}

	err := ar.Reload()
	if err == nil {
		return nil
	}

	// A failed reload should not consume the throttle window.
	ar.mu.Lock()
	if ar.lastDevReload.Equal(now) {
		ar.lastDevReload = time.Time{}
	}
	ar.mu.Unlock()
	return err
}

// assetOnDisk reports whether the resolved asset exists in one of the
// frontend source trees. Dev mode only.
func assetOnDisk(resolvedPath string) bool {
	rel := strings.TrimPrefix(resolvedPath, staticPrefix)
	if rel == "" || rel == resolvedPath {
		return false
	}

	for _, p := range []string{
		filepath.Join("frontend", "static", rel),
		filepath.Join("frontend", "public", rel),
	} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}
