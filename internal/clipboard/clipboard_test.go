package clipboard

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"
)

func TestIsAvailable(t *testing.T) {
	// Availability depends on the system; this only checks consistency.
	_, err := lookupCommand()
	if IsAvailable() != (err == nil) {
		t.Error("IsAvailable disagrees with lookupCommand")
	}
}

func TestGetClipboardCommand(t *testing.T) {
	cmd, err := getClipboardCommand(context.Background())
	if err != nil {
		if !errors.Is(err, ErrClipboardUnavailable) {
			t.Errorf("unexpected error: %v", err)
		}
		if cmd != nil {
			t.Error("getClipboardCommand returned both command and error")
		}
		return
	}
	if cmd == nil {
		t.Error("getClipboardCommand returned nil command with no error")
	}
}

func TestSystemWriteText(t *testing.T) {
	if !IsAvailable() {
		if err := (System{}).WriteText(context.Background(), "x"); !errors.Is(err, ErrClipboardUnavailable) {
			t.Errorf("WriteText() error = %v, want ErrClipboardUnavailable", err)
		}
		t.Skip("clipboard not available on this system")
	}

	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" {
		t.Skip("no display for the clipboard helper")
	}
	if err := (System{}).WriteText(context.Background(), "test clipboard content"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
}

var _ Writer = System{}
