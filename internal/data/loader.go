// Package data loads the generated newsletter documents and exposes them as
// typed tables and display dates.
package data

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/bobmcallan/newsletter-portal/internal/config"
	"github.com/bobmcallan/newsletter-portal/internal/models"
)

//go:embed static/output_data.json
var defaultOutput []byte

//go:embed static/track.json
var defaultTrack []byte

// Source holds one parsed newsletter. It is read-only after Parse.
type Source struct {
	tables models.OutputDocument
	track  models.Track
	loc    *time.Location
}

// Load reads the documents named in cfg, falling back to the embedded
// copies for empty paths.
func Load(cfg config.DataConfig, loc *time.Location) (*Source, error) {
	output, err := readOrDefault(cfg.OutputPath, defaultOutput)
	if err != nil {
		return nil, err
	}
	track, err := readOrDefault(cfg.TrackPath, defaultTrack)
	if err != nil {
		return nil, err
	}
	return Parse(output, track, loc)
}

func readOrDefault(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return b, nil
}

// Parse validates both documents and returns the Source. Every category key
// must be present with a table-shaped value, and the track document must
// carry newsletter_date and updated_at. A nil loc means UTC.
func Parse(output, track []byte, loc *time.Location) (*Source, error) {
	if loc == nil {
		loc = time.UTC
	}

	tables, err := parseOutput(output)
	if err != nil {
		return nil, err
	}
	t, err := parseTrack(track)
	if err != nil {
		return nil, err
	}

	return &Source{tables: tables, track: t, loc: loc}, nil
}

func parseOutput(b []byte) (models.OutputDocument, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return models.OutputDocument{}, fmt.Errorf("invalid output document: %w", err)
	}

	for _, c := range models.Categories {
		v, ok := raw[string(c)]
		if !ok {
			return models.OutputDocument{}, fmt.Errorf("invalid output document: missing category %q", c)
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return models.OutputDocument{}, fmt.Errorf("invalid output document: category %q is null", c)
		}
		var t models.TableData
		if err := json.Unmarshal(v, &t); err != nil {
			return models.OutputDocument{}, fmt.Errorf("invalid output document: category %q: %w", c, err)
		}
	}

	var doc models.OutputDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return models.OutputDocument{}, fmt.Errorf("invalid output document: %w", err)
	}
	return doc, nil
}

func parseTrack(b []byte) (models.Track, error) {
	var raw struct {
		NewsletterDate *string `json:"newsletter_date"`
		UpdatedAt      *string `json:"updated_at"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return models.Track{}, fmt.Errorf("invalid track document: %w", err)
	}
	if raw.NewsletterDate == nil {
		return models.Track{}, fmt.Errorf("invalid track document: missing newsletter_date")
	}
	if raw.UpdatedAt == nil {
		return models.Track{}, fmt.Errorf("invalid track document: missing updated_at")
	}
	return models.Track{NewsletterDate: *raw.NewsletterDate, UpdatedAt: *raw.UpdatedAt}, nil
}

// GetTables returns the nine category tables.
func (s *Source) GetTables() models.OutputDocument {
	return s.tables
}

// GetDates returns the newsletter date unchanged and the update timestamp
// in display form.
func (s *Source) GetDates() (models.NewsletterMetadata, error) {
	updated, err := FormatUpdatedAt(s.track.UpdatedAt, s.loc)
	if err != nil {
		return models.NewsletterMetadata{}, err
	}
	return models.NewsletterMetadata{
		NewsletterDate: s.track.NewsletterDate,
		UpdatedAt:      updated,
	}, nil
}
