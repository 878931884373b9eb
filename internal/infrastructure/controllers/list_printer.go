package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"

	maxKeyWidth     = 60
	maxLicenseWidth = 30
	notAvailable    = "N/A"
)

// listRow is one printed entry of the working list.
type listRow struct {
	Key      string `json:"key"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Revision string `json:"revision"`
	License  string `json:"license"`
	Released string `json:"released"`
	Changed  bool   `json:"changed"`
}

func buildRows(workspace *entities.Workspace) []listRow {
	view := workspace.List.View()
	rows := make([]listRow, 0, len(view))
	for _, entry := range view {
		row := listRow{
			Key:      entry.Key(),
			Type:     entry.Type,
			Name:     entry.Name,
			Revision: entry.Revision,
			License:  notAvailable,
			Released: notAvailable,
			Changed:  entry.HasChanges(),
		}
		if entry.Namespace != "" {
			row.Name = entry.Namespace + "/" + entry.Name
		}
		if value, ok := workspace.Cache.Resolve(entry.Coordinate, "licensed.declared"); ok && value != nil {
			row.License = fmt.Sprint(value)
		}
		if value, ok := workspace.Cache.Resolve(entry.Coordinate, "described.releaseDate"); ok && value != nil {
			row.Released = fmt.Sprint(value)
		}
		rows = append(rows, row)
	}
	return rows
}

// printList writes the current view of the list in the requested format.
func printList(out io.Writer, workspace *entities.Workspace, format string) error {
	rows := buildRows(workspace)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "The list is empty.")
		return err
	}

	switch format {
	case formatJSON:
		return printJSON(out, rows)
	case formatMarkdown:
		printMarkdown(out, rows)
	default:
		printTable(out, rows, workspace.List.Len())
	}
	return nil
}

func printTable(out io.Writer, rows []listRow, total int) {
	// Calculate column widths
	keyW := len("Component")
	revisionW := len("Revision")
	licenseW := len("License")
	releasedW := len("Released")

	for _, r := range rows {
		keyW = max(keyW, len(r.Key))
		revisionW = max(revisionW, len(r.Revision))
		licenseW = max(licenseW, len(r.License))
		releasedW = max(releasedW, len(r.Released))
	}

	// Limit widths
	keyW = min(keyW, maxKeyWidth)
	licenseW = min(licenseW, maxLicenseWidth)

	_, _ = fmt.Fprintf(out, "%-*s  %-*s  %-*s  %-*s  %s\n",
		keyW, "Component",
		revisionW, "Revision",
		licenseW, "License",
		releasedW, "Released",
		"Status")
	_, _ = fmt.Fprintln(out, strings.Repeat("-", keyW+revisionW+licenseW+releasedW+16))

	changed := 0
	for _, r := range rows {
		status := "clean"
		if r.Changed {
			status = "changed"
			changed++
		}
		_, _ = fmt.Fprintf(out, "%-*s  %-*s  %-*s  %-*s  %s\n",
			keyW, truncate(r.Key, keyW),
			revisionW, r.Revision,
			licenseW, truncate(r.License, licenseW),
			releasedW, r.Released,
			status)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "Total: %d components, %d shown, %d changed\n", total, len(rows), changed)
}

func printMarkdown(out io.Writer, rows []listRow) {
	_, _ = fmt.Fprintln(out, "| Component | Revision | License | Released |")
	_, _ = fmt.Fprintln(out, "|-----------|----------|---------|----------|")

	for _, r := range rows {
		_, _ = fmt.Fprintf(out, "| %s | %s | %s | %s |\n", r.Key, r.Revision, r.License, r.Released)
	}
}

func printJSON(out io.Writer, rows []listRow) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize list: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
