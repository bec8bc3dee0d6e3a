// package formatter provides functions to export analysis results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
)

// ExportTracksToCSV converts the analysis track list to CSV format with
// columns: ID, Name, Artists, Genres, Energy, Valence, Danceability, Tempo,
// Acousticness, Instrumentalness. Feature columns stay empty for tracks
// without audio features.
func ExportTracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artists", "Genres", "Energy", "Valence", "Danceability", "Tempo", "Acousticness", "Instrumentalness"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Name,
			strings.Join(track.ArtistNames, "; "),
			strings.Join(track.Genres, "; "),
		}
		if f := track.Features; f != nil {
			record = append(record,
				formatUnit(f.Energy),
				formatUnit(f.Valence),
				formatUnit(f.Danceability),
				formatTempo(f.Tempo),
				formatUnit(f.Acousticness),
				formatUnit(f.Instrumentalness),
			)
		} else {
			record = append(record, "", "", "", "", "", "")
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

// ExportAnalysisToMarkdown converts an analysis to Markdown format with
// optional cover image.
func ExportAnalysisToMarkdown(analysis *models.Analysis, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Playlist Analysis\n\n")

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Sources**: %s\n\n", strings.Join(analysis.PlaylistIDs, ", ")))

	m := analysis.Metrics
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", m.TotalTracks))
	buf.WriteString(fmt.Sprintf("**Artists**: %d\n", m.UniqueArtists))
	buf.WriteString(fmt.Sprintf("**Genres**: %d\n", m.TotalGenres))
	buf.WriteString(fmt.Sprintf("**Tracks with features**: %d/%d\n\n", m.TracksWithFeatures, m.TotalTracks))

	if m.TracksWithFeatures > 0 {
		buf.WriteString("## Audio Profile\n\n")
		writeMean(&buf, "Energy", m.AvgEnergy, "")
		writeMean(&buf, "Valence", m.AvgValence, "")
		writeMean(&buf, "Danceability", m.AvgDanceability, "")
		writeMean(&buf, "Tempo", m.AvgTempo, " BPM")
		writeMean(&buf, "Acousticness", m.AvgAcousticness, "")
		writeMean(&buf, "Instrumentalness", m.AvgInstrumentalness, "")
		buf.WriteString("\n")
	}

	if len(analysis.GenreCounts) > 0 {
		buf.WriteString("## Genres\n\n")
		for i, gc := range analysis.GenreCounts {
			buf.WriteString(fmt.Sprintf("%d. %s (%d tracks)\n", i+1, gc.Genre, gc.Count))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Tracks\n\n")
	for i, track := range analysis.Tracks {
		genrePart := ""
		if len(track.Genres) > 0 {
			genrePart = fmt.Sprintf(" [%s]", strings.Join(track.Genres, "; "))
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, strings.Join(track.ArtistNames, ", "), track.Name, genrePart))
	}

	return buf.Bytes(), nil
}

// ExportAnalysisToText converts an analysis to plain text format
func ExportAnalysisToText(analysis *models.Analysis) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Analysis: %s\n", analysis.RequestID))
	buf.WriteString(fmt.Sprintf("Sources: %s\n", strings.Join(analysis.PlaylistIDs, ", ")))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", analysis.Metrics.TotalTracks))

	for i, track := range analysis.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, strings.Join(track.ArtistNames, ", "), track.Name))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
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

// ToSummaryJSON generates a JSON representation of the analysis summary
// (without the track list)
func ToSummaryJSON(analysis *models.Analysis) ([]byte, error) {
	summary := struct {
		RequestID   string                  `json:"request_id"`
		PlaylistIDs []string                `json:"playlist_ids"`
		Metrics     models.AggregateMetrics `json:"metrics"`
		GenreCounts []models.GenreCount     `json:"genre_counts"`
	}{
		RequestID:   analysis.RequestID,
		PlaylistIDs: analysis.PlaylistIDs,
		Metrics:     analysis.Metrics,
		GenreCounts: analysis.GenreCounts,
	}
	return shared.MarshalJSON(summary, true)
}

// ExportToJSON generates a JSON representation of the complete analysis,
// including the track list
func ExportToJSON(analysis *models.Analysis) ([]byte, error) {
	return shared.MarshalJSON(analysis, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile  string
	SummaryFile string
}

// WriteCSVExport exports an analysis to CSV format with an accompanying
// summary JSON file.
//
// Defaults to the request id as the base filename & creates
// {base}_tracks.csv and {base}_summary.json
func WriteCSVExport(analysis *models.Analysis, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = analysis.RequestID
	}

	csvData, err := ExportTracksToCSV(analysis.Tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := ToSummaryJSON(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:  tracksFile,
		SummaryFile: summaryFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports an analysis to Markdown format in a dedicated directory.
//
// Directory name defaults to the request id.
// The imageURL parameter is optional - if provided, attempts to download a cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(analysis *models.Analysis, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = analysis.RequestID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportAnalysisToMarkdown(analysis, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteJSONExport exports the complete analysis to a JSON file.
//
// Defaults to {request id}.json as the filename.
func WriteJSONExport(analysis *models.Analysis, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.json", analysis.RequestID)
	}

	jsonData, err := ExportToJSON(analysis)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports an analysis to plain text format.
//
// Defaults to {request id}_tracks.txt as the filename.
func WriteTextExport(analysis *models.Analysis, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_tracks.txt", analysis.RequestID)
	}

	textData, err := ExportAnalysisToText(analysis)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

func writeMean(buf *bytes.Buffer, label string, value *float64, suffix string) {
	if value == nil {
		return
	}
	buf.WriteString(fmt.Sprintf("**Avg %s**: %s%s\n", label, strconv.FormatFloat(*value, 'f', -1, 64), suffix))
}

func formatUnit(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTempo(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
