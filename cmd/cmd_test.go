package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/ports/mocks"
	"github.com/kamal-hamza/lx-assets/internal/core/services"
	"github.com/kamal-hamza/lx-assets/pkg/config"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{
		"init", "save", "list", "show", "find", "browse", "verify",
		"stats", "watch", "publish", "env", "config", "version",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", cmdName, err)
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", cmdName)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd.Use != "lxa" {
		t.Errorf("Expected root command Use to be 'lxa', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, sub := range c.Commands() {
			if sub.Short == "" {
				t.Errorf("Command '%s' has no Short description", sub.CommandPath())
			}
			walk(sub)
		}
	}
	walk(rootCmd)
}

// TestSaveSubcommands verifies one save subcommand per category
func TestSaveSubcommands(t *testing.T) {
	for _, sub := range []string{"figure", "table", "snapshot", "model", "summary"} {
		t.Run(sub, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{"save", sub})
			if err != nil {
				t.Fatalf("save %s not found: %v", sub, err)
			}
			if cmd.Name() != sub {
				t.Errorf("Expected '%s', got '%s'", sub, cmd.Name())
			}
			for _, flag := range []string{"section", "name", "description", "tags", "version", "bump", "source", "copy"} {
				if cmd.Flags().Lookup(flag) == nil {
					t.Errorf("Flag '--%s' missing on save %s", flag, sub)
				}
			}
		})
	}

	cmd, _, _ := rootCmd.Find([]string{"save", "summary"})
	if cmd.Flags().Lookup("text") == nil {
		t.Error("save summary should accept --text")
	}
	cmd, _, _ = rootCmd.Find([]string{"save", "figure"})
	if cmd.Flags().Lookup("text") != nil {
		t.Error("save figure should not accept --text")
	}
}

// TestFlagsExist verifies important flags are registered
func TestFlagsExist(t *testing.T) {
	tests := []struct {
		command  string
		flagName string
	}{
		{"list", "category"},
		{"list", "section"},
		{"list", "tag"},
		{"list", "sort"},
		{"list", "reverse"},
		{"browse", "section"},
		{"show", "open"},
		{"show", "copy"},
		{"find", "print"},
		{"stats", "chart"},
		{"watch", "inbox"},
		{"publish", "bucket"},
		{"publish", "dir"},
		{"publish", "dry-run"},
		{"publish", "manifest"},
		{"config", "path"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"_"+tt.flagName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.command})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", tt.command, err)
			}
			if cmd.Flags().Lookup(tt.flagName) == nil {
				t.Errorf("Flag '--%s' not found on command '%s'", tt.flagName, tt.command)
			}
		})
	}

	for _, name := range []string{"root", "config", "verbose", "metrics-file", "policy"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Persistent flag '--%s' not found", name)
		}
	}
}

// TestCommandAliases verifies command aliases work
func TestCommandAliases(t *testing.T) {
	tests := []struct {
		alias   string
		command string
	}{
		{"ls", "list"},
		{"doctor", "verify"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.alias})
			if err != nil {
				t.Fatalf("Alias '%s' not found: %v", tt.alias, err)
			}
			if cmd.Name() != tt.command {
				t.Errorf("Alias '%s' resolved to '%s', want '%s'", tt.alias, cmd.Name(), tt.command)
			}
		})
	}
}

// TestServiceInitialization verifies services can be initialized with mocks
func TestServiceInitialization(t *testing.T) {
	repo := mocks.NewMockManifestStore()

	if services.NewListService(repo) == nil {
		t.Error("ListService is nil")
	}
	if services.NewStatsService(repo) == nil {
		t.Error("StatsService is nil")
	}
}

func TestBuildListRequestUsesConfigDefaults(t *testing.T) {
	appConfig = config.DefaultConfig()
	appConfig.DefaultSort = "name"
	appConfig.ReverseSort = true

	cmd := &cobra.Command{Use: "list-like"}
	cmd.Flags().String("sort", "", "")
	cmd.Flags().Bool("reverse", false, "")

	req, err := buildListRequest(cmd, "tables", "forecasting", "dml")
	if err != nil {
		t.Fatalf("buildListRequest failed: %v", err)
	}
	if req.Category != domain.CategoryTable || req.Section != "forecasting" || req.Tag != "dml" {
		t.Errorf("unexpected filters: %+v", req)
	}
	if req.SortBy != "name" || !req.Reverse {
		t.Errorf("expected config sort defaults, got %q reverse=%v", req.SortBy, req.Reverse)
	}

	if err := cmd.Flags().Set("sort", "created"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("reverse", "false"); err != nil {
		t.Fatal(err)
	}
	req, _ = buildListRequest(cmd, "", "", "")
	if req.SortBy != "created" || req.Reverse {
		t.Errorf("explicit flags should win, got %q reverse=%v", req.SortBy, req.Reverse)
	}

	if _, err := buildListRequest(cmd, "chart", "", ""); err == nil {
		t.Error("unknown category should fail")
	}
}

func TestSectionFlagsNameKnownSections(t *testing.T) {
	usage := []string{listCmd.Flags().Lookup("section").Usage}
	for _, c := range saveCmd.Commands() {
		usage = append(usage, c.Flags().Lookup("section").Usage)
	}
	for _, u := range usage {
		for _, s := range domain.KnownSections {
			if !strings.Contains(u, s) {
				t.Errorf("section help %q does not mention %s", u, s)
			}
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := truncate("forecast_vs_actual", 10); got != "forecas..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := formatBytes(512); got != "512 B" {
		t.Errorf("formatBytes(512) = %q", got)
	}
	if got := formatBytes(1536); got != "1.5 KiB" {
		t.Errorf("formatBytes(1536) = %q", got)
	}
	if got := formatBytes(3 << 20); got != "3.0 MiB" {
		t.Errorf("formatBytes(3MiB) = %q", got)
	}
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// TestEndToEnd drives init, save and verify through the command tree
func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "assets")
	cfg := filepath.Join(dir, "config.yaml")
	global := []string{"--root", root, "--config", cfg}

	if err := runCLI(t, append([]string{"init"}, global...)...); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(cfg); err != nil {
		t.Errorf("init should write a default config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".gitignore")); err != nil {
		t.Errorf("init should write .gitignore: %v", err)
	}

	src := filepath.Join(dir, "impact.csv")
	if err := os.WriteFile(src, []byte("scenario,effect\nbaseline,0.12\nreform,0.31\n"), 0644); err != nil {
		t.Fatal(err)
	}

	args := append([]string{"save", "table", src, "-s", "policy_analysis", "-n", "policy_impact", "-t", "paper"}, global...)
	if err := runCLI(t, args...); err != nil {
		t.Fatalf("save table failed: %v", err)
	}

	stored := filepath.Join(root, "tables", "policy_analysis__policy_impact__v1.0.csv")
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("expected %s: %v", stored, err)
	}

	resp, err := listService.Execute(getContext(), services.ListRequest{Section: "policy_analysis"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || !resp.Assets[0].HasTag("paper") {
		t.Errorf("unexpected manifest contents: %+v", resp.Assets)
	}

	args = append([]string{"save", "table", src, "-n", "policy_impact", "--version", "2.0", "--bump"}, global...)
	if err := runCLI(t, args...); err == nil {
		t.Error("--version with --bump should be rejected")
	}

	if err := runCLI(t, append([]string{"verify"}, global...)...); err != nil {
		t.Errorf("verify should pass on a fresh tree: %v", err)
	}
}
