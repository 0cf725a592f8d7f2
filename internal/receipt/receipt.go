// Package receipt records what was installed into a prefix.
package receipt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Prefix layout:
//
//	<prefix>/
//	  .llar-root.json   # receipt of the last successful install
//	  bin/ include/ lib/ ...
const FileName = ".llar-root.json"

// Receipt describes one successful install.
type Receipt struct {
	Spec        string    `json:"spec"`
	Version     string    `json:"version"`
	Platform    string    `json:"platform"`
	Variants    []string  `json:"variants"`
	Args        []string  `json:"args"`
	Source      string    `json:"source"`
	InstallTime time.Time `json:"install_time"`
}

// Write stores r in prefix.
func Write(prefix string, r *Receipt) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(prefix, 0o755); err != nil {
		return errors.Wrap(err, "creating prefix")
	}
	return errors.Wrap(os.WriteFile(filepath.Join(prefix, FileName), data, 0o644), "writing receipt")
}

// Read loads the receipt stored in prefix.
func Read(prefix string) (*Receipt, error) {
	data, err := os.ReadFile(filepath.Join(prefix, FileName))
	if err != nil {
		return nil, err
	}
	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrapf(err, "parsing receipt in %s", prefix)
	}
	return &r, nil
}
