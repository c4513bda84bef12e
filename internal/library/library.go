package library

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/mixt/internal/mixer"
	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Scan returns the paths of all .txt playlist exports in dir, sorted by
// filename. The extension match is case-insensitive.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist folder: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// BaseName returns the playlist name for an export path, the filename
// without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// detectEncoding sniffs the byte order mark, falling back to a NUL-byte
// heuristic for BOM-less UTF-16 and plain UTF-8 last.
func detectEncoding(data []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8BOM
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}

	sample := data
	if len(sample) > 512 {
		sample = sample[:512]
	}
	even, odd := 0, 0
	for i, b := range sample {
		if b == 0x00 {
			if i%2 == 0 {
				even++
			} else {
				odd++
			}
		}
	}
	// ASCII text in UTF-16 puts a NUL in every other byte
	if odd > len(sample)/4 {
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}
	if even > len(sample)/4 {
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF8
}

// DecodeExport converts raw export bytes to UTF-8 text.
func DecodeExport(data []byte) ([]byte, error) {
	enc := detectEncoding(data)
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return decoded, nil
}

// ReadExport reads and parses one tab-separated playlist export.
//
// The first row is the column header; every following row becomes a
// [models.TrackRecord] keyed by header columns. Short rows leave trailing
// columns empty and extra cells are dropped. A file without a header row is
// a format error.
func ReadExport(path string) ([]models.TrackRecord, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read export file: %w", err)
	}

	decoded, err := DecodeExport(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidFormat, path, err)
	}
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no header row", shared.ErrInvalidFormat, path)
	}

	header := lines[0]
	rows := make([]models.TrackRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		record := make(models.TrackRecord, len(header))
		for i, column := range header {
			if i < len(line) {
				record[column] = line[i]
			} else {
				record[column] = ""
			}
		}
		rows = append(rows, record)
	}

	return rows, header, nil
}

// LoadSource reads one export file and normalizes it into a source
// playlist named after the file.
func LoadSource(path string, opts mixer.NormalizeOptions) (*models.SourcePlaylist, error) {
	rows, header, err := ReadExport(path)
	if err != nil {
		return nil, err
	}
	return mixer.Normalize(BaseName(path), rows, header, opts)
}
