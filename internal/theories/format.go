// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package theories

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rejected-theories/pkg/types"
)

var (
	borderColor = lipgloss.Color("#FFFFFF")
	titleColor  = lipgloss.Color("#F0F6FC")
	textColor   = lipgloss.Color("#D0D7DE")
	linkColor   = lipgloss.Color("#58A6FF")
	dimColor    = lipgloss.Color("#6E7681")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(borderColor).
			Padding(1, 2).
			Width(cardWidth)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(titleColor).
			Bold(true).
			Align(lipgloss.Center).
			Width(cardWidth - 4)

	cardTextStyle = lipgloss.NewStyle().
			Foreground(textColor)

	cardLinkStyle = lipgloss.NewStyle().
			Foreground(linkColor).
			Underline(true)

	summaryStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)

const (
	cardWidth = 80
	// maxCardLines mirrors the web card's scroll box: longer excerpts are
	// cut and marked with an ellipsis.
	maxCardLines = 8
)

// FormatCards writes records as bordered terminal cards to w.
func FormatCards(records []types.DisplayRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No theories found.")
		return
	}

	for _, r := range records {
		body := lipgloss.JoinVertical(lipgloss.Left,
			cardTitleStyle.Render(r.Title),
			"",
			cardBody(r.Content),
			"",
			cardLinkStyle.Render("Read More: "+r.Link),
		)
		fmt.Fprintln(w, cardStyle.Render(body))
	}
	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf("%d theories", len(records))))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.DisplayRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// Listing is the YAML document written by FormatYAML.
type Listing struct {
	Year     int                   `yaml:"year"`
	Total    int                   `yaml:"total"`
	Fetched  time.Time             `yaml:"fetched"`
	Theories []types.DisplayRecord `yaml:"theories"`
}

// FormatYAML writes records for year as a YAML document to w.
func FormatYAML(year int, records []types.DisplayRecord, w io.Writer) error {
	doc := Listing{
		Year:     year,
		Total:    len(records),
		Fetched:  time.Now().UTC(),
		Theories: records,
	}
	if doc.Theories == nil {
		doc.Theories = []types.DisplayRecord{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// cardBody word-wraps content to the card's inner width, measured in
// terminal cells, and cuts it to maxCardLines with a trailing ellipsis line.
func cardBody(content string) string {
	style := cardTextStyle.Width(cardWidth - 6)
	body := style.Render(content)
	if lipgloss.Height(body) <= maxCardLines {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		style.MaxHeight(maxCardLines-1).Render(content),
		summaryStyle.Render("…"),
	)
}
