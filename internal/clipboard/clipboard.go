// Package clipboard writes text to the system clipboard via shell commands.
package clipboard

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Writer is anything that can receive copied text.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// System writes to the clipboard of the host operating system.
type System struct{}

// WriteText copies text to the system clipboard.
func (System) WriteText(ctx context.Context, text string) error {
	return Copy(ctx, text)
}

// IsAvailable checks if clipboard functionality is available on this system.
func IsAvailable() bool {
	_, err := lookupCommand()
	return err == nil
}

// lookupCommand returns the program and arguments used to write the clipboard.
func lookupCommand() ([]string, error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return []string{"pbcopy"}, nil
		}
	case "linux":
		// Try xclip first, fall back to xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			return []string{"xclip", "-selection", "clipboard"}, nil
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return []string{"xsel", "--clipboard", "--input"}, nil
		}
	}
	return nil, ErrClipboardUnavailable
}

// getClipboardCommand builds the command that writes the clipboard.
func getClipboardCommand(ctx context.Context) (*exec.Cmd, error) {
	args, err := lookupCommand()
	if err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, args[0], args[1:]...), nil
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(ctx context.Context, text string) error {
	cmd, err := getClipboardCommand(ctx)
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
