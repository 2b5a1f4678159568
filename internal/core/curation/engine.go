// Package curation builds the public version of a request from admin edits.
//
// Curate copies from domain.CurationEdits and never from the raw request,
// except for the category and the creation day. A field added to
// domain.RawRequest therefore stays private until someone adds a matching
// edit field here.
package curation

import (
	"strings"
	"time"
	"unicode/utf8"

	"AidDesk/internal/core/domain"
)

const (
	MaxTitleLength       = 120
	MaxSummaryLength     = 500
	MaxDescriptionLength = 5000
	MaxGallerySize       = 12
)

// Curate builds a fresh projection for raw. Free text is scrubbed of the
// requester's identifiers. Visibility follows raw.Status: a published request
// stays visible with the new content, anything else is staged unpublished.
func Curate(raw *domain.RawRequest, edits domain.CurationEdits, curatedBy string, now time.Time) (*domain.PublicProjection, error) {
	if err := checkLengths(edits); err != nil {
		return nil, err
	}

	red := newRedactor(raw)
	p := &domain.PublicProjection{
		SourceID:    raw.ID,
		Category:    raw.Category,
		PostedOn:    DayBucket(raw.CreatedAt),
		Title:       red.scrub(strings.TrimSpace(edits.Title)),
		Summary:     red.scrub(strings.TrimSpace(edits.Summary)),
		Description: red.scrub(strings.TrimSpace(edits.Description)),
		Wilaya:      red.scrub(strings.TrimSpace(edits.Wilaya)),
		Area:        red.scrub(strings.TrimSpace(edits.Area)),
		IsUrgent:    edits.IsUrgent,
		Visibility:  domain.VisibilityUnpublished,
		CuratedBy:   curatedBy,
		CuratedAt:   now,
	}

	seen := make(map[domain.AttachmentRef]bool, len(edits.Gallery))
	for _, sel := range edits.Gallery {
		if seen[sel.Ref] {
			return nil, domain.NewValidationError("gallery", "attachment selected twice")
		}
		seen[sel.Ref] = true

		entry, err := promote(raw, red, sel.Ref, sel.Label)
		if err != nil {
			return nil, err
		}
		p.Gallery = append(p.Gallery, entry)
	}

	if raw.Status == domain.StatusPublished {
		p.Visibility = domain.VisibilityPublished
		publishedAt := now
		p.PublishedAt = &publishedAt
	}
	return p, nil
}

// PromoteAttachment exposes one private attachment under a public label.
// Attachments that are never promoted stay private.
func PromoteAttachment(raw *domain.RawRequest, ref domain.AttachmentRef, label string) (domain.GalleryEntry, error) {
	return promote(raw, newRedactor(raw), ref, label)
}

func promote(raw *domain.RawRequest, red *redactor, ref domain.AttachmentRef, label string) (domain.GalleryEntry, error) {
	if !raw.HasAttachment(ref) {
		return domain.GalleryEntry{}, domain.NewValidationError("gallery", "attachment does not belong to this request")
	}
	if red.contains(string(ref)) {
		return domain.GalleryEntry{}, domain.NewValidationError("gallery", "attachment reference contains requester identifiers")
	}
	return domain.GalleryEntry{
		Ref:   ref,
		Label: red.scrub(strings.TrimSpace(label)),
	}, nil
}

// DayBucket truncates t to its UTC day, which is all the catalog reveals
// about submission time.
func DayBucket(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func checkLengths(e domain.CurationEdits) error {
	switch {
	case utf8.RuneCountInString(e.Title) > MaxTitleLength:
		return domain.NewValidationError("title", "too long")
	case utf8.RuneCountInString(e.Summary) > MaxSummaryLength:
		return domain.NewValidationError("summary", "too long")
	case utf8.RuneCountInString(e.Description) > MaxDescriptionLength:
		return domain.NewValidationError("description", "too long")
	case len(e.Gallery) > MaxGallerySize:
		return domain.NewValidationError("gallery", "too many entries")
	}
	return nil
}
