// Package transfer converts the machine collection to and from backup files.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/common"
	"github.com/dmitrijs2005/machinecal/internal/filex"
)

// FilePrefix starts every backup file name.
const FilePrefix = "machine-calendar-backup-"

// Extension is the only accepted import file extension.
const Extension = ".json"

// FileName returns the backup file name for the given day.
func FileName(now time.Time) string {
	return FilePrefix + now.Format(models.DateLayout) + Extension
}

// Encode serializes the collection as an indented JSON array.
func Encode(machines []models.Machine) ([]byte, error) {
	if machines == nil {
		machines = []models.Machine{}
	}
	data, err := json.MarshalIndent(machines, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode machines: %w", err)
	}
	return append(data, '\n'), nil
}

// Export writes the collection into dir under FileName(now) and returns the
// full path. An empty collection produces no file.
func Export(ctx context.Context, dir string, machines []models.Machine, now time.Time) (string, error) {
	if len(machines) == 0 {
		return "", common.ErrNothingToExport
	}

	data, err := Encode(machines)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}

	path, err := filex.WriteFileAtomic(abs, FileName(now), data)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

// CheckFileName accepts only names ending in .json, in any letter case.
func CheckFileName(name string) error {
	if !strings.EqualFold(filepath.Ext(name), Extension) {
		return &common.ImportFormatError{Reason: fmt.Sprintf("%q is not a .json file", filepath.Base(name))}
	}
	return nil
}

// ReadFile reads the whole file. It returns early if ctx is already done and
// reports cancellation that happened while reading.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// Decode parses backup content. Anything other than a JSON array of machine
// objects is an *common.ImportFormatError carrying the parser message.
func Decode(data []byte) ([]models.Machine, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &common.ImportFormatError{Reason: "invalid JSON", Err: err}
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &common.ImportFormatError{Reason: "file does not contain a list of machines"}
	}

	var machines []models.Machine
	if err := json.Unmarshal(raw, &machines); err != nil {
		return nil, &common.ImportFormatError{Reason: "invalid machine data", Err: err}
	}
	for i := range machines {
		if machines[i].Concepts == nil {
			machines[i].Concepts = []string{}
		}
	}
	return machines, nil
}

// Load runs the whole import pipeline up to, but not including, installing
// the result: name check, read and decode.
func Load(ctx context.Context, path string) ([]models.Machine, error) {
	if err := CheckFileName(path); err != nil {
		return nil, err
	}
	data, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
