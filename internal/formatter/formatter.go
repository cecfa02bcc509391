// package formatter renders tracks and listening history as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/shared"
)

// Format is an output format name.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
)

// ParseFormat accepts "text"/"txt", "markdown"/"md" and "csv".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Tracks renders tracks in the given format.
func Tracks(format Format, title string, tracks []models.Track) ([]byte, error) {
	switch format {
	case CSV:
		return TracksToCSV(tracks)
	case Markdown:
		return TracksToMarkdown(title, tracks, ""), nil
	default:
		return TracksToText(title, tracks), nil
	}
}

// TracksToCSV converts tracks to CSV with columns: ID, Name, Artist, Album, Duration, Liked, AudioURL
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	rows := make([][]string, 0, len(tracks))
	for _, track := range tracks {
		rows = append(rows, []string{
			track.ID,
			track.Name,
			track.Artist,
			track.AlbumID,
			strconv.Itoa(int(track.Duration.Seconds())),
			strconv.FormatBool(track.IsLiked),
			track.AudioURL,
		})
	}
	return writeCSV([]string{"ID", "Name", "Artist", "Album", "Duration", "Liked", "AudioURL"}, rows)
}

// TracksToMarkdown converts tracks to a Markdown list with an optional cover image
func TracksToMarkdown(title string, tracks []models.Track, imageFilename string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(tracks))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		liked := ""
		if track.IsLiked {
			liked = " ♥"
		}
		fmt.Fprintf(&buf, "%d. %s - %s [%s]%s\n", i+1, track.Artist, track.Name, TrackDuration(track), liked)
	}

	return buf.Bytes()
}

// TracksToText converts tracks to a numbered plain text list
func TracksToText(title string, tracks []models.Track) []byte {
	var buf bytes.Buffer

	if title != "" {
		fmt.Fprintf(&buf, "%s\n", title)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(tracks))

	for i, track := range tracks {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, TrackLine(track))
	}

	return buf.Bytes()
}

// TrackLine is the one-line "Artist - Name [m:ss]" rendering used by lists.
func TrackLine(track models.Track) string {
	line := fmt.Sprintf("%s - %s", track.Artist, track.Name)
	if track.Duration > 0 {
		line += fmt.Sprintf(" [%s]", TrackDuration(track))
	}
	return line
}

// TrackDuration formats the catalog duration, or "--:--" when unknown.
func TrackDuration(track models.Track) string {
	if track.Duration <= 0 {
		return "--:--"
	}
	return shared.FormatDuration(track.Duration)
}

// History renders listening history in the given format.
func History(format Format, entries []models.HistoryEntry) ([]byte, error) {
	switch format {
	case CSV:
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				e.StartedAt.Format(time.RFC3339),
				e.TrackID,
				e.TrackName,
				e.Artist,
				strconv.FormatInt(e.ListenedMS, 10),
			})
		}
		return writeCSV([]string{"StartedAt", "TrackID", "Name", "Artist", "ListenedMS"}, rows)
	case Markdown:
		var buf bytes.Buffer
		buf.WriteString("# Recently Played\n\n")
		buf.WriteString("| When | Track | Artist | Listened |\n|---|---|---|---|\n")
		for _, e := range entries {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s |\n",
				e.StartedAt.Local().Format(time.DateTime), e.TrackName, e.Artist, listened(e.ListenedMS))
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		for _, e := range entries {
			fmt.Fprintf(&buf, "%s  %s - %s (%s)\n",
				e.StartedAt.Local().Format(time.DateTime), e.Artist, e.TrackName, listened(e.ListenedMS))
		}
		return buf.Bytes(), nil
	}
}

// Artists renders recently played artists in the given format.
func Artists(format Format, artists []models.ArtistPlays) ([]byte, error) {
	switch format {
	case CSV:
		rows := make([][]string, 0, len(artists))
		for _, a := range artists {
			rows = append(rows, []string{a.ArtistID, a.Artist, strconv.Itoa(a.Plays), a.LastPlayed.Format(time.RFC3339)})
		}
		return writeCSV([]string{"ArtistID", "Artist", "Plays", "LastPlayed"}, rows)
	case Markdown:
		var buf bytes.Buffer
		buf.WriteString("# Recent Artists\n\n")
		for i, a := range artists {
			fmt.Fprintf(&buf, "%d. **%s** (%d plays)\n", i+1, a.Artist, a.Plays)
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		for _, a := range artists {
			fmt.Fprintf(&buf, "%-30s %4d plays  last %s\n", a.Artist, a.Plays, a.LastPlayed.Local().Format(time.DateTime))
		}
		return buf.Bytes(), nil
	}
}

func listened(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return shared.FormatDuration(time.Duration(ms) * time.Millisecond)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes tracks to {outputDir}/README.md and, when imageURL is set and downloads,
// the cover to {outputDir}/cover.jpg. A failed cover download is skipped.
func WriteMarkdownExport(client *http.Client, title string, tracks []models.Track, outputDir, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("%w: output directory", shared.ErrMissingArgument)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir}

	var coverImageFilename string
	if imageURL != "" {
		if imageData, err := DownloadImage(client, imageURL); err == nil {
			coverImagePath := filepath.Join(outputDir, "cover.jpg")
			if err := os.WriteFile(coverImagePath, imageData, 0644); err == nil {
				coverImageFilename = "cover.jpg"
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, TracksToMarkdown(title, tracks, coverImageFilename), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}
