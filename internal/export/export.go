// Package export writes debug dumps of session data to disk.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

var ErrNoSpectrogram = errors.New("no spectrogram data available")

// DesktopDir returns the user's desktop directory, or the working
// directory when there is none.
func DesktopDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		desktop := filepath.Join(home, "Desktop")
		if info, err := os.Stat(desktop); err == nil && info.IsDir() {
			return desktop
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Filename returns spectrogram_YYYYMMDD_HHMMSS.json for t.
func Filename(t time.Time) string {
	return "spectrogram_" + t.Format("20060102_150405") + ".json"
}

// Spectrogram writes frames as a pretty-printed JSON array of integer
// arrays into dir and returns the file path. It refuses to overwrite.
func Spectrogram(frames [][]uint8, dir string, now time.Time) (string, error) {
	if len(frames) == 0 {
		return "", ErrNoSpectrogram
	}

	// []uint8 would marshal as base64; the dump is meant to be read.
	rows := make([][]int, len(frames))
	for i, f := range frames {
		row := make([]int, len(f))
		for j, v := range f {
			row[j] = int(v)
		}
		rows[i] = row
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "could not serialize spectrogram")
	}

	path := filepath.Join(dir, Filename(now))
	if _, err := os.Stat(path); err == nil {
		return "", errors.Newf("file %q already exists", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "could not write spectrogram")
	}
	return path, nil
}
