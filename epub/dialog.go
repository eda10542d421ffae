package epub

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrDialogCancelled   = errors.New("file selection cancelled")
	ErrDialogUnavailable = errors.New("file selection dialog unavailable")
)

const dialogPrompt = "Choose an EPUB file"

// SelectFileDialog opens a system-specific dialog for choosing an EPUB and
// returns the selected absolute path. If the dialog is cancelled,
// ErrDialogCancelled is returned.
func SelectFileDialog(start string) (string, error) {
	if start == "" {
		if home, err := os.UserHomeDir(); err == nil {
			start = home
		}
	}

	switch runtime.GOOS {
	case "darwin":
		return selectFileDarwin(start)
	case "windows":
		return selectFileWindows(start)
	default:
		return selectFileLinux(start)
	}
}

func selectFileDarwin(start string) (string, error) {
	// Resolve a safe default dir (must exist)
	cleanStart := filepath.Clean(start)
	if info, err := os.Stat(cleanStart); err != nil || !info.IsDir() {
		if home, err := os.UserHomeDir(); err == nil {
			cleanStart = home
		} else {
			cleanStart = "/"
		}
	}
	// AppleScript with fallback if default location is invalid
	script := fmt.Sprintf(`
        set _prompt to "%s"
        set _p to ""
        try
            set _p to POSIX path of (choose file with prompt _prompt of type {"epub"} default location POSIX file "%s")
        on error errMsg number errNum
            if errNum is -128 then error number -128 -- user cancelled, propagate
            set _p to POSIX path of (choose file with prompt _prompt of type {"epub"})
        end try
        return _p
    `, escapeAppleScriptString(dialogPrompt), escapeAppleScriptString(cleanStart))

	// IMPORTANT: capture only stdout (stderr contains IMKClient logs)
	cmd := exec.Command("osascript", "-e", script)
	out, err := cmd.Output()
	if err != nil {
		// Treat user cancel as cancellation
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) == 0 {
			return "", ErrDialogCancelled
		}
		return "", fmt.Errorf("osascript: %v", err)
	}

	// Pick the first absolute path line (in case anything sneaks into stdout)
	chosen := firstAbsoluteLine(string(out))
	if chosen == "" {
		return "", ErrDialogCancelled
	}
	chosen = strings.ReplaceAll(strings.TrimSpace(chosen), "\r", "")
	chosen = filepath.Clean(chosen)

	if info, err := os.Stat(chosen); err != nil || info.IsDir() {
		return "", fmt.Errorf("not a file: %s", chosen)
	}
	return chosen, nil
}

func firstAbsoluteLine(s string) string {
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		if strings.HasPrefix(ln, "/") {
			return ln
		}
	}
	return ""
}

func selectFileWindows(start string) (string, error) {
	escaped := escapePowerShellString(filepath.Clean(start))
	title := escapePowerShellString(dialogPrompt)
	script := fmt.Sprintf(`[System.Reflection.Assembly]::LoadWithPartialName('System.windows.forms') | Out-Null;
$dialog = New-Object System.Windows.Forms.OpenFileDialog;
$dialog.Title = '%s';
$dialog.InitialDirectory = '%s';
$dialog.Filter = 'EPUB files (*.epub)|*.epub';
if ($dialog.ShowDialog() -eq 'OK') { Write-Output $dialog.FileName }`, title, escaped)

	cmd := exec.Command("powershell", "-NoProfile", "-Command", script)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) == 0 {
			return "", ErrDialogCancelled
		}
		return "", err
	}

	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", ErrDialogCancelled
	}

	return filepath.Clean(path), nil
}

func selectFileLinux(start string) (string, error) {
	candidates := [][]string{
		{"zenity", "--file-selection", "--title", dialogPrompt, "--file-filter", "*.epub", "--filename", ensureTrailingSeparator(filepath.Clean(start))},
		{"kdialog", "--getopenfilename", filepath.Clean(start), "*.epub", "--title", dialogPrompt},
	}

	for _, args := range candidates {
		cmd := exec.Command(args[0], args[1:]...)
		out, err := cmd.Output()
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				continue
			}
			if exitErr, ok := err.(*exec.ExitError); ok {
				if exitErr.ExitCode() == 1 {
					return "", ErrDialogCancelled
				}
			}
			return "", err
		}

		path := strings.TrimSpace(string(out))
		if path == "" {
			return "", ErrDialogCancelled
		}

		return filepath.Clean(path), nil
	}

	return "", ErrDialogUnavailable
}

func escapeAppleScriptString(s string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "\"", "\\\"")
	return replacer.Replace(s)
}

func escapePowerShellString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func ensureTrailingSeparator(path string) string {
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return path
	}
	return path + string(os.PathSeparator)
}
