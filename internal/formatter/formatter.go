// package formatter provides functions to export mixed playlists to various formats (CSV, plain text, full TSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/mixt/internal/mixer"
	"github.com/desertthunder/mixt/internal/models"
)

// ExportToCSV converts a mixed playlist to CSV format with columns: artist, track title
func ExportToCSV(tracks models.MixedPlaylist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"artist", "track title"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		if err := writer.Write([]string{track.Artist, track.Title}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a mixed playlist to plain text, one "Artist - Title" line per track
func ExportToText(tracks models.MixedPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	for _, track := range tracks {
		buf.WriteString(fmt.Sprintf("%s - %s\n", track.Artist, track.Title))
	}

	return buf.Bytes(), nil
}

// ExportToTSV converts a mix result back to the full tab-separated source
// format, preserving the original column order. Columns a track's record
// does not carry are left empty.
func ExportToTSV(result *mixer.MixResult) ([]byte, error) {
	header := result.Header
	if len(header) == 0 {
		header = []string{models.ColumnName, models.ColumnArtist}
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = '\t'

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write TSV header: %w", err)
	}

	row := make([]string, len(header))
	for _, track := range result.Tracks {
		record := result.Lookup(track)
		for i, column := range header {
			row[i] = record[column]
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write TSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("TSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MixExportResult contains the paths of files created by WriteMixExports
type MixExportResult struct {
	CSVFile   string
	TextFile  string
	AppleFile string
}

// WriteMixExports writes a mix result to the output directory in all three
// formats.
//
// Defaults to "mixed_playlist" as the base filename & creates {base}.csv,
// {base}.txt and {base}_apple.txt
func WriteMixExports(result *mixer.MixResult, outputDir string, baseName string) (*MixExportResult, error) {
	if baseName == "" {
		baseName = "mixed_playlist"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Join(outputDir, baseName)

	csvData, err := ExportToCSV(result.Tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}
	csvFile := base + ".csv"
	if err := os.WriteFile(csvFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	textData, err := ExportToText(result.Tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate text: %w", err)
	}
	textFile := base + ".txt"
	if err := os.WriteFile(textFile, textData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write text file: %w", err)
	}

	tsvData, err := ExportToTSV(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate TSV: %w", err)
	}
	appleFile := base + "_apple.txt"
	if err := os.WriteFile(appleFile, tsvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write TSV file: %w", err)
	}

	return &MixExportResult{
		CSVFile:   csvFile,
		TextFile:  textFile,
		AppleFile: appleFile,
	}, nil
}

// WriteSourceCSV writes one normalized source playlist to a simple CSV,
// mirroring the mixed-playlist column layout.
func WriteSourceCSV(src *models.SourcePlaylist, path string) error {
	data, err := ExportToCSV(models.MixedPlaylist(src.Keys))
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}
