// Package export renders a record list to the three download formats and
// parses uploaded backups. All formatters are pure: they never mutate their
// input and produce a well-formed document for an empty list.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/promptnest/promptnest/internal/models"
)

// Format identifies an export document type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
)

func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatMarkdown, FormatCSV:
		return true
	}
	return false
}

func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Filename returns the dated download name, e.g. promptnest_export_2026-08-28.csv.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("promptnest_export_%s.%s", now.Format("2006-01-02"), f)
}

// Backup is the full-backup JSON document. Field names round-trip through the
// PromptRecord and Collection shapes.
type Backup struct {
	Records     []models.PromptRecord `json:"records"`
	Collections []models.Collection   `json:"collections"`
}

// JSON renders the full-backup document, indented for human diffing.
func JSON(records []models.PromptRecord, collections []models.Collection) ([]byte, error) {
	if records == nil {
		records = []models.PromptRecord{}
	}
	if collections == nil {
		collections = []models.Collection{}
	}
	return json.MarshalIndent(Backup{Records: records, Collections: collections}, "", "  ")
}

// Markdown renders one heading per record with a metadata blockquote, a tag
// line, fenced prompt blocks and a separator rule.
func Markdown(records []models.PromptRecord, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# PromptNest Export\nGenerated: %s\n\n", now.Format("2006-01-02"))

	for _, p := range records {
		fmt.Fprintf(&b, "## %s\n", p.Title)
		model := p.Model
		if model == "" {
			model = "N/A"
		}
		fmt.Fprintf(&b, "> **Type**: %s | **Scene**: %s | **Model**: %s\n", p.OutputKind, p.SceneTag, model)

		tags := append(append([]string{}, p.TechTags...), p.StyleTags...)
		for i, t := range tags {
			tags[i] = "#" + t
		}
		fmt.Fprintf(&b, "> **Tags**: %s\n\n", strings.Join(tags, " "))

		fmt.Fprintf(&b, "### Prompt\n```\n%s\n```\n\n", p.PromptPrimary)
		if p.PromptSecondary != "" {
			fmt.Fprintf(&b, "### Translation\n```\n%s\n```\n\n", p.PromptSecondary)
		}
		if p.UsageNote != "" {
			fmt.Fprintf(&b, "**Note**: %s\n\n", p.UsageNote)
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

// CSV renders a header row plus one row per record. Quoting and escaping
// follow RFC 4180 via encoding/csv, so any standard reader round-trips the
// fields. The tags column is the comma-joined union of tech and style tags.
func CSV(records []models.PromptRecord) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"title", "type", "scene", "promptPrimary", "promptSecondary", "model", "tags"}); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range records {
		tags := append(append([]string{}, p.TechTags...), p.StyleTags...)
		row := []string{
			p.Title,
			string(p.OutputKind),
			string(p.SceneTag),
			p.PromptPrimary,
			p.PromptSecondary,
			p.Model,
			strings.Join(tags, ","),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
