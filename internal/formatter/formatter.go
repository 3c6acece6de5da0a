// package formatter provides functions to export search results and lyrics to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/Qi-2007/musicgate/internal/models"
)

// ResultsToCSV converts search results to CSV format with columns: ID, Name, Artist, Cover URL
func ResultsToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artist", "Cover URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Name,
			track.Artist,
			track.CoverURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ResultsToMarkdown converts search results to a Markdown listing headed by
// the source and keyword that produced them.
func ResultsToMarkdown(source, keyword string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", keyword))
	buf.WriteString(fmt.Sprintf("**Source**: %s\n", source))
	buf.WriteString(fmt.Sprintf("**Results**: %d\n\n", len(tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		coverPart := ""
		if track.CoverURL != "" {
			coverPart = fmt.Sprintf(" ([cover](%s))", track.CoverURL)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s `%s`\n", i+1, track.Artist, track.Name, coverPart, track.ID))
	}

	return buf.Bytes(), nil
}

// ResultsToText converts search results to plain text format
func ResultsToText(source, keyword string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Keyword: %s\n", keyword))
	buf.WriteString(fmt.Sprintf("Source: %s\n", source))
	buf.WriteString(fmt.Sprintf("Results: %d\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, track.Artist, track.Name, track.ID))
	}

	return buf.Bytes(), nil
}

// WriteCSVExport writes search results to {base}.csv.
//
// Defaults to the keyword as the base filename.
func WriteCSVExport(keyword string, tracks []models.Track, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = keyword
	}

	csvData, err := ResultsToCSV(tracks)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	csvFile := baseFilepath + ".csv"
	if err := os.WriteFile(csvFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return csvFile, nil
}

// WriteLyricExport writes a lyric document to {id}.lrc, or to filepath when given.
func WriteLyricExport(doc *models.LyricDocument, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.lrc", doc.ID)
	}

	if err := os.WriteFile(filepath, []byte(doc.Lyric), 0644); err != nil {
		return "", fmt.Errorf("failed to write lyric file: %w", err)
	}

	return filepath, nil
}
