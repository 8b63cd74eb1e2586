package tank

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// ExpandHome expands ~ to its proper path, where appropriate.
func ExpandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			return path, pfx.Err(err)
		}
		path = filepath.Join(usr.HomeDir, path[2:])
	}

	return path, nil
}

// CheckInputExists returns an *InputNotFoundError if a local path is empty or
// missing. Google Storage paths are checked when they are opened.
func CheckInputExists(kind, path string) error {
	if path == "" {
		return &InputNotFoundError{Kind: kind}
	}
	if IsGoogleStoragePath(path) {
		return nil
	}

	expanded, err := ExpandHome(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err != nil {
		if os.IsNotExist(err) {
			return &InputNotFoundError{Kind: kind, Path: path}
		}
		return pfx.Err(err)
	}

	return nil
}
