package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Qi-2007/musicgate/internal/models"
	th "github.com/Qi-2007/musicgate/internal/testing"
)

var sampleTracks = []models.Track{
	{ID: "186002", Name: "晴天", Artist: "周杰伦", CoverURL: "http://example.com/a.jpg"},
	{ID: "228908", Name: "大海", Artist: "张雨生", CoverURL: ""},
}

func TestExporters(t *testing.T) {
	t.Run("ResultsToCSV", func(t *testing.T) {
		data, err := ResultsToCSV(sampleTracks)
		if err != nil {
			t.Fatalf("ResultsToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Name,Artist,Cover URL") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "186002") {
			t.Errorf("CSV missing first track ID")
		}
		if !strings.Contains(output, "晴天") {
			t.Errorf("CSV missing track name")
		}
		if !strings.Contains(output, "张雨生") {
			t.Errorf("CSV missing artist")
		}

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Errorf("Expected header plus 2 rows, got %d lines", len(lines))
		}
	})

	t.Run("ResultsToCSV Empty", func(t *testing.T) {
		data, err := ResultsToCSV(nil)
		if err != nil {
			t.Fatalf("ResultsToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 1 {
			t.Errorf("Expected only headers, got %d lines", len(lines))
		}
	})

	t.Run("ResultsToMarkdown", func(t *testing.T) {
		data, err := ResultsToMarkdown("netease", "晴天", sampleTracks)
		if err != nil {
			t.Fatalf("ResultsToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# 晴天") {
			t.Errorf("Markdown missing heading, got: %s", output)
		}
		if !strings.Contains(output, "**Source**: netease") {
			t.Errorf("Markdown missing source line")
		}
		if !strings.Contains(output, "**Results**: 2") {
			t.Errorf("Markdown missing results count")
		}
		if !strings.Contains(output, "1. 周杰伦 - 晴天 ([cover](http://example.com/a.jpg)) `186002`") {
			t.Errorf("Markdown missing first entry, got: %s", output)
		}
		if !strings.Contains(output, "2. 张雨生 - 大海 `228908`") {
			t.Errorf("Entry without cover should omit the cover link, got: %s", output)
		}
	})

	t.Run("ResultsToText", func(t *testing.T) {
		data, err := ResultsToText("kuwo", "大海", sampleTracks)
		if err != nil {
			t.Fatalf("ResultsToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Keyword: 大海") {
			t.Errorf("Text missing keyword line")
		}
		if !strings.Contains(output, "Source: kuwo") {
			t.Errorf("Text missing source line")
		}
		if !strings.Contains(output, "2. 张雨生 - 大海 (228908)") {
			t.Errorf("Text missing second entry, got: %s", output)
		}
	})
}

func TestFileExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "results")

		file, err := WriteCSVExport("晴天", sampleTracks, base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if file != base+".csv" {
			t.Errorf("Unexpected file path: %s", file)
		}

		th.AssertFileExists(t, file)
		content := th.MustReadFile(t, file)
		if !strings.Contains(content, "晴天") {
			t.Errorf("Exported CSV missing track name")
		}
	})

	t.Run("WriteLyricExport", func(t *testing.T) {
		doc := &models.LyricDocument{Source: "kuwo", ID: "228908", Lyric: "[00:09.00]今天我\r\n[01:05.50]寒夜里看雪飘过"}
		path := filepath.Join(t.TempDir(), "out.lrc")

		file, err := WriteLyricExport(doc, path)
		if err != nil {
			t.Fatalf("WriteLyricExport failed: %v", err)
		}

		content := th.MustReadFile(t, file)
		if content != doc.Lyric {
			t.Errorf("Lyric file content mismatch: %q", content)
		}
	})

	t.Run("WriteLyricExport Default Name", func(t *testing.T) {
		dir := t.TempDir()
		wd := th.MustGetwd(t)
		th.MustChdir(t, dir)
		defer th.MustChdir(t, wd)

		doc := &models.LyricDocument{Source: "qq", ID: "102066257", Lyric: "[00:00.00]暂无歌词"}
		file, err := WriteLyricExport(doc, "")
		if err != nil {
			t.Fatalf("WriteLyricExport failed: %v", err)
		}
		if file != "102066257.lrc" {
			t.Errorf("Unexpected default filename: %s", file)
		}
		th.AssertFileExists(t, file)
	})
}
