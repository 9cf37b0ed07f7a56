package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppGroupID names the group container shared with the widget and watch readers
const AppGroupID = "group.infinitum.water-eject"

const (
	sessionDBName = "sessions.db"
	sharedDBName  = "shared.db"
)

// StoragePaths holds the locations of the session history and the shared store
type StoragePaths struct {
	DataDir  string // private to the writer process
	GroupDir string // readable by every process in the group
}

// DetectStoragePaths detects default storage paths based on the operating system
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return StoragePaths{
			DataDir:  filepath.Join(home, "Library/Application Support/water-eject"),
			GroupDir: filepath.Join(home, "Library/Group Containers", AppGroupID),
		}, nil
	case "linux":
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			dataHome = filepath.Join(home, ".local/share")
		}
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			stateHome = filepath.Join(home, ".local/state")
		}
		return StoragePaths{
			DataDir:  filepath.Join(dataHome, "water-eject"),
			GroupDir: filepath.Join(stateHome, AppGroupID),
		}, nil
	default:
		return StoragePaths{}, fmt.Errorf("unsupported OS: %s (only macOS and Linux are supported)", runtime.GOOS)
	}
}

// SessionDBPath returns the session history database path
func (sp StoragePaths) SessionDBPath() string {
	return filepath.Join(sp.DataDir, sessionDBName)
}

// SharedDBPath returns the shared store database path
func (sp StoragePaths) SharedDBPath() string {
	return filepath.Join(sp.GroupDir, sharedDBName)
}

// SessionDBExists checks if the session history database exists
func (sp StoragePaths) SessionDBExists() bool {
	_, err := os.Stat(sp.SessionDBPath())
	return err == nil
}

// GroupDirWritable reports whether the shared store directory can be written
func (sp StoragePaths) GroupDirWritable() error {
	if err := os.MkdirAll(sp.GroupDir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(sp.GroupDir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
