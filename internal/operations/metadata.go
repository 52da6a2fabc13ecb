package operations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// BackupInfoPrefix starts every backup info file name.
	BackupInfoPrefix = "cat_backup_info_"
	ImageExt         = ".jpg"
	ImageContentType = "image/jpeg"
)

// ErrNothingToSave is returned by SaveBackupInfo when there are no records.
var ErrNothingToSave = errors.New("no backup records to save")

// BackupRecord describes one archived picture.
type BackupRecord struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
	Path     string `json:"path"`
	Text     string `json:"text"`
}

// BackupInfoName returns the file name for a run finished at t.
func BackupInfoName(t time.Time) string {
	return fmt.Sprintf("%s%d.json", BackupInfoPrefix, t.Unix())
}

// EnsureDirectoryExist creates dirPath and its parents when missing.
func EnsureDirectoryExist(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dirPath, err)
	}
	return nil
}

// WriteBackupInfo encodes records as indented JSON. Non-ASCII text and
// characters like < > & are written as-is.
func WriteBackupInfo(w io.Writer, records []BackupRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode backup info JSON: %w", err)
	}
	return nil
}

// SaveBackupInfo writes records to dirPath/cat_backup_info_<unix>.json and
// returns the file path.
func SaveBackupInfo(dirPath string, records []BackupRecord, now time.Time) (string, error) {
	if len(records) == 0 {
		return "", ErrNothingToSave
	}

	// Ensure directory exists
	if err := EnsureDirectoryExist(dirPath); err != nil {
		return "", fmt.Errorf("ensure backup info directory %q: %w", dirPath, err)
	}

	filePath := filepath.Join(dirPath, BackupInfoName(now))
	jsonFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("create backup info file %q: %w", filePath, err)
	}

	if err := WriteBackupInfo(jsonFile, records); err != nil {
		jsonFile.Close()
		return "", err
	}
	if err := jsonFile.Close(); err != nil {
		return "", fmt.Errorf("close backup info file %q: %w", filePath, err)
	}
	return filePath, nil
}

// LoadBackupInfo reads a backup info file back. Files ending in .zst are
// decompressed on the fly.
func LoadBackupInfo(filePath string) ([]BackupRecord, error) {
	// Open the json file
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("couldn't open backup info file %q: %w", filePath, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filePath, ZstdExt) {
		dec, err := NewZstdReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}

	var records []BackupRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode backup info JSON: %w", err)
	}
	return records, nil
}
