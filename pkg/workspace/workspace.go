package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
)

// Manifest file names inside the manifests directory
const (
	ManifestDir      = "manifests"
	ManifestJSONName = "asset_manifest.json"
	ManifestCSVName  = "asset_manifest.csv"
	lockName         = ".lock"
)

// Workspace represents the managed asset tree for lxa
type Workspace struct {
	RootPath      string
	ManifestsPath string
	ConfigPath    string
}

// New creates a Workspace rooted at root. An empty root resolves to
// ./assets relative to the working directory.
func New(root string) (*Workspace, error) {
	if strings.TrimSpace(root) == "" {
		root = "assets"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	configPath, err := DefaultConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}

	return &Workspace{
		RootPath:      abs,
		ManifestsPath: filepath.Join(abs, ManifestDir),
		ConfigPath:    configPath,
	}, nil
}

// DefaultConfigPath returns the config file location.
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func DefaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "lxa", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "lxa", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "lxa", "config.yaml"), nil
}

// Directories returns every directory in the layout, root first
func (w *Workspace) Directories() []string {
	dirs := []string{w.RootPath}
	for _, c := range domain.Categories {
		dirs = append(dirs, w.CategoryPath(c))
	}
	return append(dirs, w.ManifestsPath)
}

// Initialize creates the directory tree. Safe to call on every start:
// existing directories and their content are left untouched.
func (w *Workspace) Initialize() error {
	for _, dir := range w.Directories() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Exists checks if the workspace has been initialized
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.ManifestsPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CategoryPath returns the storage directory for a category
func (w *Workspace) CategoryPath(c domain.Category) string {
	return filepath.Join(w.RootPath, c.Dir())
}

// GetAssetPath returns the full path for an asset file
func (w *Workspace) GetAssetPath(c domain.Category, filename string) string {
	return filepath.Join(w.CategoryPath(c), filename)
}

// ManifestJSONPath returns the structured manifest location
func (w *Workspace) ManifestJSONPath() string {
	return filepath.Join(w.ManifestsPath, ManifestJSONName)
}

// ManifestCSVPath returns the tabular manifest location
func (w *Workspace) ManifestCSVPath() string {
	return filepath.Join(w.ManifestsPath, ManifestCSVName)
}

// LockPath returns the manifest lock file location
func (w *Workspace) LockPath() string {
	return filepath.Join(w.ManifestsPath, lockName)
}

// GetTexInputsEnv returns a TEXINPUTS value that lets LaTeX find figures
// and tables by bare filename
func (w *Workspace) GetTexInputsEnv() string {
	// Format: .:figures//:tables//:
	// // = recursive search, trailing separator keeps the system defaults
	sep := string(os.PathListSeparator)
	parts := []string{
		".",
		w.CategoryPath(domain.CategoryFigure) + "//",
		w.CategoryPath(domain.CategoryTable) + "//",
		w.CategoryPath(domain.CategoryDataSnapshot) + "//",
	}
	return strings.Join(parts, sep) + sep
}
