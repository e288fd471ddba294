// Package filemanager implements the FileManager capability of :
// read/write/mkdir/delete against local disk. Grounded on the teacher's
// cmd/regolden file-writing idiom (os.WriteFile with an explicit permission
// mode, os.MkdirAll for parent directories, wrapped errors rather than
// panics outside of cmd/).
package filemanager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
)

// defaultFileMode is used for files written by Write when no mode override
// applies. defaultDirMode likewise for directories created by Mkdir.
const (
	defaultFileMode os.FileMode = 0o644
	defaultDirMode os.FileMode = 0o755
)

// Manager is the capability calls FileManager.
type Manager interface {
	Read(path string) (string, error)
	Write(path, content string) error
	Mkdir(path string) error
	Delete(path string) error
}

// Local implements Manager against the local filesystem, rooted at an
// optional base directory. When Root is empty, paths are used as given
// (relative to the process working directory).
type Local struct {
	Root string
}

// New builds a Local file manager rooted at root. An empty root leaves
// paths unrooted.
func New(root string) *Local {
	return &Local{Root: root}
}

func (l *Local) resolve(path string) (string, error) {
	if path == "" {
		return "", agenterrors.New(agenterrors.KindValidation, "path is required")
	}
	if l.Root == "" {
		return path, nil
	}
	full := filepath.Join(l.Root, path)
	rel, err := filepath.Rel(l.Root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", agenterrors.New(agenterrors.KindFile, fmt.Sprintf("path %q escapes root %q", path, l.Root))
	}
	return full, nil
}

// Read returns the full contents of path as a string.
func (l *Local) Read(path string) (string, error) {
	full, err := l.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("file %q not found", path), err)
		}
		return "", agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("read %q failed", path), err)
	}
	return string(data), nil
}

// Write creates (or truncates) path with content, creating parent
// directories as needed.
func (l *Local) Write(path, content string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(full); dir != "." {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("create parent dir for %q failed", path), err)
		}
	}
	if err := os.WriteFile(full, []byte(content), defaultFileMode); err != nil {
		return agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("write %q failed", path), err)
	}
	return nil
}

// Mkdir creates path and any missing parents.
func (l *Local) Mkdir(path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, defaultDirMode); err != nil {
		return agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("mkdir %q failed", path), err)
	}
	return nil
}

// Delete removes path. Deleting a missing path is not an error.
func (l *Local) Delete(path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(full); err != nil {
		return agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("delete %q failed", path), err)
	}
	return nil
}
