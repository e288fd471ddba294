package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
)

const defaultDirMode os.FileMode = 0o755
const defaultFileMode os.FileMode = 0o644

// Manager is the capability calls the state manager: save/load one
// Snapshot per run id.
type Manager interface {
	Save(runID string, snap Snapshot) error
	Load(runID string) (Snapshot, error)
	Delete(runID string) error
}

// LocalStore implements Manager as one JSON file per run, written under
// Dir. Grounded on agent/filemanager's os.WriteFile/os.MkdirAll idiom: an
// explicit file mode, parent directories created on demand, wrapped
// agenterrors rather than bare os errors.
type LocalStore struct {
	Dir string
}

// NewLocalStore builds a LocalStore rooted at dir, creating dir if it does
// not already exist.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "state directory is required")
	}
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return nil, agenterrors.NewWithCause(agenterrors.KindFile, "create state directory failed", err)
	}
	return &LocalStore{Dir: dir}, nil
}

func (l *LocalStore) path(runID string) (string, error) {
	if runID == "" {
		return "", agenterrors.New(agenterrors.KindValidation, "run id is required")
	}
	if strings.ContainsAny(runID, `/\`) {
		return "", agenterrors.New(agenterrors.KindValidation, fmt.Sprintf("run id %q must not contain path separators", runID))
	}
	return filepath.Join(l.Dir, runID+".json"), nil
}

// Save writes snap as indented JSON to its run-id file, overwriting any
// prior snapshot for the same run.
func (l *LocalStore) Save(runID string, snap Snapshot) error {
	full, err := l.path(runID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", " ")
	if err != nil {
		return agenterrors.NewWithCause(agenterrors.KindInternal, "marshal snapshot failed", err)
	}
	if err := os.WriteFile(full, data, defaultFileMode); err != nil {
		return agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("write snapshot for run %q failed", runID), err)
	}
	return nil
}

// Load reads and parses the snapshot for runID.
func (l *LocalStore) Load(runID string) (Snapshot, error) {
	full, err := l.path(runID)
	if err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("no snapshot for run %q", runID), err)
		}
		return Snapshot{}, agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("read snapshot for run %q failed", runID), err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, agenterrors.NewWithCause(agenterrors.KindInternal, fmt.Sprintf("parse snapshot for run %q failed", runID), err)
	}
	return snap, nil
}

// Delete removes the snapshot file for runID. Deleting a missing snapshot is
// not an error.
func (l *LocalStore) Delete(runID string) error {
	full, err := l.path(runID)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return agenterrors.NewWithCause(agenterrors.KindFile, fmt.Sprintf("delete snapshot for run %q failed", runID), err)
	}
	return nil
}
