package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// GetPreferredEditor returns the editor from the environment, or vi
func GetPreferredEditor() string {
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// OpenFile opens a file using a custom viewer or the OS default application.
func OpenFile(path string, viewer string) error {
	var cmd *exec.Cmd

	if viewer != "" {
		cmd = exec.Command(viewer, path)
	} else {
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", path)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", path)
		default:
			cmd = exec.Command("xdg-open", path)
		}
	}

	// Start() detaches so lxa can exit while the viewer stays open
	if err := cmd.Start(); err != nil {
		if viewer != "" {
			return fmt.Errorf("failed to open '%s' with '%s': %w", path, viewer, err)
		}
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}

	return nil
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// shortID returns the first 8 characters of an asset id
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
