package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// Palette for terminal output.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourAccent  = lipgloss.Color("#06B6D4")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourError   = lipgloss.Color("#F38BA8")
)

// styles renders text with colour only when writing to a terminal.
type styles struct {
	enabled bool

	title   lipgloss.Style
	key     lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	err     lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	return &styles{
		enabled: isTerminal(w),
		title:   lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		key:     lipgloss.NewStyle().Foreground(colourAccent),
		muted:   lipgloss.NewStyle().Foreground(colourMuted),
		success: lipgloss.NewStyle().Foreground(colourSuccess),
		err:     lipgloss.NewStyle().Foreground(colourError),
	}
}

func (s *styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// keyWidth is the column width of the longest attribute key.
var keyWidth = func() int {
	width := 0
	for _, k := range domain.Keys() {
		if len(k) > width {
			width = len(k)
		}
	}
	return width
}()

// printAttributes writes one aligned "key: value" line per attribute.
func printAttributes(w io.Writer, st *styles, attrs domain.Attributes) {
	if len(attrs) == 0 {
		fmt.Fprintf(w, "  %s\n", st.render(st.muted, "(no attributes)"))
		return
	}
	for _, k := range attrs.SortedKeys() {
		label := fmt.Sprintf("%-*s", keyWidth+1, string(k)+":")
		fmt.Fprintf(w, "  %s %s\n", st.render(st.key, label), attrs[k])
	}
}

// printRecord writes a record heading followed by its attributes.
func printRecord(w io.Writer, st *styles, rec *domain.Record) {
	fmt.Fprintln(w, st.render(st.title, rec.Path))
	info := rec.ContentType.String()
	if !rec.ImportedAt.IsZero() {
		info = fmt.Sprintf("%s, %d bytes, imported %s",
			rec.ContentType, rec.Size, rec.ImportedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(w, "  %s\n", st.render(st.muted, info))
	printAttributes(w, st, rec.Attributes)
}

// recordView is the JSON form of a record.
type recordView struct {
	ID          string            `json:"id,omitempty"`
	Path        string            `json:"path"`
	ContentType string            `json:"content_type"`
	Attributes  map[string]string `json:"attributes"`
	Size        int64             `json:"size,omitempty"`
	ModTime     *time.Time        `json:"mod_time,omitempty"`
	ImportedAt  *time.Time        `json:"imported_at,omitempty"`
	MatchedKeys []string          `json:"matched_keys,omitempty"`
	Error       string            `json:"error,omitempty"`
}

func newRecordView(rec *domain.Record) recordView {
	v := recordView{
		ID:          rec.ID,
		Path:        rec.Path,
		ContentType: rec.ContentType.String(),
		Attributes:  rec.Attributes.StringMap(),
		Size:        rec.Size,
	}
	if !rec.ModTime.IsZero() {
		t := rec.ModTime
		v.ModTime = &t
	}
	if !rec.ImportedAt.IsZero() {
		t := rec.ImportedAt
		v.ImportedAt = &t
	}
	return v
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
