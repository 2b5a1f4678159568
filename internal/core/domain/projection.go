package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Visibility controls whether a projection is listed in the public catalog.
type Visibility string

const (
	VisibilityPublished   Visibility = "published"
	VisibilityUnpublished Visibility = "unpublished"
)

// GalleryEntry is an attachment an admin explicitly promoted to public view.
type GalleryEntry struct {
	Ref   AttachmentRef
	Label string
}

// PublicProjection is the curated, public-facing version of a RawRequest.
// Apart from SourceID, Category and PostedOn, every field comes from an admin edit.
type PublicProjection struct {
	SourceID    uuid.UUID
	Category    Category
	PostedOn    time.Time // Creation day (UTC), never the exact time
	Title       string
	Summary     string
	Description string
	Wilaya      string
	Area        string
	Gallery     []GalleryEntry
	IsUrgent    bool
	Visibility  Visibility
	CuratedBy   string
	CuratedAt   time.Time
	PublishedAt *time.Time // Nullable
}

// Publishable reports whether the projection carries enough curation to go public.
func (p *PublicProjection) Publishable() bool {
	return p != nil &&
		strings.TrimSpace(p.Title) != "" &&
		strings.TrimSpace(p.Summary) != ""
}

// IsPublished is true when the catalog may show the projection.
func (p *PublicProjection) IsPublished() bool {
	return p != nil && p.Visibility == VisibilityPublished
}

// Clone returns a deep copy.
func (p *PublicProjection) Clone() *PublicProjection {
	if p == nil {
		return nil
	}
	c := *p
	if p.Gallery != nil {
		c.Gallery = append([]GalleryEntry(nil), p.Gallery...)
	}
	if p.PublishedAt != nil {
		at := *p.PublishedAt
		c.PublishedAt = &at
	}
	return &c
}

// GallerySelection asks curation to promote one attachment under a public label.
type GallerySelection struct {
	Ref   AttachmentRef
	Label string
}

// CurationEdits is the allow-list of fields an admin may publish.
// Curation copies these and nothing else.
type CurationEdits struct {
	Title       string
	Summary     string
	Description string
	Wilaya      string
	Area        string
	Gallery     []GallerySelection
	IsUrgent    bool
}

// CatalogFilter narrows the public listing. Zero values mean "any".
type CatalogFilter struct {
	Category   Category
	Region     string
	UrgentOnly bool
	TextQuery  string
}

// Matches applies the filter to a single projection. Visibility is checked too.
func (f CatalogFilter) Matches(p *PublicProjection) bool {
	if !p.IsPublished() {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.UrgentOnly && !p.IsUrgent {
		return false
	}
	if region := strings.TrimSpace(f.Region); region != "" {
		if !strings.EqualFold(p.Wilaya, region) && !strings.EqualFold(p.Area, region) {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.TextQuery)); q != "" {
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Summary), q) {
			return false
		}
	}
	return true
}
