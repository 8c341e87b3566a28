package main

import (
	"fmt"
	"path/filepath"

	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"
	"github.com/kittclouds/telling/pkg/spin"
	"github.com/kittclouds/telling/pkg/style"
)

// hostPath maps a command-line path onto the host file system
func hostPath(p string) (hackpadfs.FS, string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", p, err)
	}
	fsys := osfs.NewFS()
	name, err := fsys.FromOSPath(abs)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return fsys, name, nil
}

func readHostFile(p string) ([]byte, error) {
	fsys, name, err := hostPath(p)
	if err != nil {
		return nil, err
	}
	return hackpadfs.ReadFile(fsys, name)
}

// openProfiles opens the named-profile store in dir
func openProfiles(dir string, reg *style.Registry) (*spin.Store, error) {
	fsys, name, err := hostPath(dir)
	if err != nil {
		return nil, err
	}
	return spin.NewStore(fsys, name, reg)
}
