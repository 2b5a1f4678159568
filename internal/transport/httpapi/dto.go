package httpapi

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/services"
	"time"

	"github.com/google/uuid"
)

type contactsDTO struct {
	WhatsApp string `json:"whatsapp,omitempty"`
	Telegram string `json:"telegram,omitempty"`
}

type locationDTO struct {
	Wilaya  string `json:"wilaya,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

type submitRequest struct {
	Category            string      `json:"category"`
	RequesterName       string      `json:"requesterName"`
	PhoneNumber         string      `json:"phoneNumber"`
	SecondaryContacts   contactsDTO `json:"secondaryContacts"`
	Location            locationDTO `json:"location"`
	NeedDescription     string      `json:"needDescription"`
	FinancialCapability string      `json:"financialCapability"`
	ApproximateAmount   *float64    `json:"approximateAmount"`
	UrgencyDeclared     string      `json:"urgencyDeclared"`
	VitalEmergency      bool        `json:"vitalEmergency"`
	Attachments         []string    `json:"attachments"`
}

func (r submitRequest) toInput() services.SubmitInput {
	in := services.SubmitInput{
		Category:      domain.Category(r.Category),
		RequesterName: r.RequesterName,
		PhoneNumber:   r.PhoneNumber,
		SecondaryContacts: domain.SecondaryContacts{
			WhatsApp: r.SecondaryContacts.WhatsApp,
			Telegram: r.SecondaryContacts.Telegram,
		},
		Location: domain.Location{
			Wilaya:  r.Location.Wilaya,
			City:    r.Location.City,
			Country: r.Location.Country,
		},
		NeedDescription:     r.NeedDescription,
		FinancialCapability: domain.FinancialCapability(r.FinancialCapability),
		ApproximateAmount:   r.ApproximateAmount,
		UrgencyDeclared:     domain.Urgency(r.UrgencyDeclared),
		VitalEmergency:      r.VitalEmergency,
	}
	for _, a := range r.Attachments {
		in.Attachments = append(in.Attachments, domain.AttachmentRef(a))
	}
	return in
}

type submitResponse struct {
	ID      uuid.UUID `json:"id"`
	Status  string    `json:"status"`
	Version int64     `json:"version"`
}

type phoneRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type requesterViewDTO struct {
	ID                  uuid.UUID   `json:"id"`
	Category            string      `json:"category"`
	Status              string      `json:"status"`
	RequesterName       string      `json:"requesterName"`
	PhoneNumber         string      `json:"phoneNumber"`
	SecondaryContacts   contactsDTO `json:"secondaryContacts"`
	Location            locationDTO `json:"location"`
	NeedDescription     string      `json:"needDescription,omitempty"`
	FinancialCapability string      `json:"financialCapability"`
	ApproximateAmount   *float64    `json:"approximateAmount,omitempty"`
	UrgencyDeclared     string      `json:"urgencyDeclared"`
	VitalEmergency      bool        `json:"vitalEmergency"`
	Attachments         []string    `json:"attachments,omitempty"`
	RejectionReason     string      `json:"rejectionReason,omitempty"`
	Feedback            string      `json:"feedback,omitempty"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

func attachmentStrings(refs []domain.AttachmentRef) []string {
	out := make([]string, 0, len(refs))
	for _, a := range refs {
		out = append(out, string(a))
	}
	return out
}

func newRequesterViewDTO(v services.RequesterView) requesterViewDTO {
	return requesterViewDTO{
		ID:                  v.ID,
		Category:            string(v.Category),
		Status:              string(v.Status),
		RequesterName:       v.RequesterName,
		PhoneNumber:         v.PhoneNumber,
		SecondaryContacts:   contactsDTO{WhatsApp: v.SecondaryContacts.WhatsApp, Telegram: v.SecondaryContacts.Telegram},
		Location:            locationDTO{Wilaya: v.Location.Wilaya, City: v.Location.City, Country: v.Location.Country},
		NeedDescription:     v.NeedDescription,
		FinancialCapability: string(v.FinancialCapability),
		ApproximateAmount:   v.ApproximateAmount,
		UrgencyDeclared:     string(v.UrgencyDeclared),
		VitalEmergency:      v.VitalEmergency,
		Attachments:         attachmentStrings(v.Attachments),
		RejectionReason:     v.RejectionReason,
		Feedback:            v.Feedback,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
	}
}

type galleryDTO struct {
	Ref   string `json:"ref"`
	Label string `json:"label,omitempty"`
}

// publicViewDTO is the only shape the catalog ever serializes.
type publicViewDTO struct {
	ID          uuid.UUID    `json:"id"`
	Category    string       `json:"category"`
	PostedOn    string       `json:"postedOn"`
	Title       string       `json:"title"`
	Summary     string       `json:"summary"`
	Description string       `json:"description,omitempty"`
	Wilaya      string       `json:"wilaya,omitempty"`
	Area        string       `json:"area,omitempty"`
	Gallery     []galleryDTO `json:"gallery,omitempty"`
	IsUrgent    bool         `json:"isUrgent"`
}

func newPublicViewDTO(v services.PublicView) publicViewDTO {
	dto := publicViewDTO{
		ID:          v.ID,
		Category:    string(v.Category),
		PostedOn:    v.PostedOn.Format(time.DateOnly),
		Title:       v.Title,
		Summary:     v.Summary,
		Description: v.Description,
		Wilaya:      v.Wilaya,
		Area:        v.Area,
		IsUrgent:    v.IsUrgent,
	}
	for _, g := range v.Gallery {
		dto.Gallery = append(dto.Gallery, galleryDTO{Ref: string(g.Ref), Label: g.Label})
	}
	return dto
}

type summaryDTO struct {
	ID              uuid.UUID `json:"id"`
	Category        string    `json:"category"`
	Status          string    `json:"status"`
	Wilaya          string    `json:"wilaya,omitempty"`
	Country         string    `json:"country,omitempty"`
	UrgencyDeclared string    `json:"urgencyDeclared"`
	VitalEmergency  bool      `json:"vitalEmergency"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newSummaryDTO(s domain.RequestSummary) summaryDTO {
	return summaryDTO{
		ID:              s.ID,
		Category:        string(s.Category),
		Status:          string(s.Status),
		Wilaya:          s.Wilaya,
		Country:         s.Country,
		UrgencyDeclared: string(s.UrgencyDeclared),
		VitalEmergency:  s.VitalEmergency,
		CreatedAt:       s.CreatedAt,
	}
}

type projectionDTO struct {
	publicViewDTO
	Visibility  string     `json:"visibility"`
	CuratedBy   string     `json:"curatedBy"`
	CuratedAt   time.Time  `json:"curatedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func newProjectionDTO(p *domain.PublicProjection) *projectionDTO {
	if p == nil {
		return nil
	}
	view := publicViewDTO{
		ID:          p.SourceID,
		Category:    string(p.Category),
		PostedOn:    p.PostedOn.Format(time.DateOnly),
		Title:       p.Title,
		Summary:     p.Summary,
		Description: p.Description,
		Wilaya:      p.Wilaya,
		Area:        p.Area,
		IsUrgent:    p.IsUrgent,
	}
	for _, g := range p.Gallery {
		view.Gallery = append(view.Gallery, galleryDTO{Ref: string(g.Ref), Label: g.Label})
	}
	return &projectionDTO{
		publicViewDTO: view,
		Visibility:    string(p.Visibility),
		CuratedBy:     p.CuratedBy,
		CuratedAt:     p.CuratedAt,
		PublishedAt:   p.PublishedAt,
	}
}

// adminRequestDTO is the full raw record. Only authorized curators see it.
type adminRequestDTO struct {
	requesterViewDTO
	AdminNotes string         `json:"adminNotes,omitempty"`
	Version    int64          `json:"version"`
	Projection *projectionDTO `json:"projection,omitempty"`
}

func newAdminRequestDTO(d *services.AdminDetail) adminRequestDTO {
	r := d.Request
	view := requesterViewDTO{
		ID:                  r.ID,
		Category:            string(r.Category),
		Status:              string(r.Status),
		RequesterName:       r.RequesterName,
		PhoneNumber:         r.PhoneNumber,
		SecondaryContacts:   contactsDTO{WhatsApp: r.SecondaryContacts.WhatsApp, Telegram: r.SecondaryContacts.Telegram},
		Location:            locationDTO{Wilaya: r.Location.Wilaya, City: r.Location.City, Country: r.Location.Country},
		NeedDescription:     r.NeedDescription,
		FinancialCapability: string(r.FinancialCapability),
		ApproximateAmount:   r.ApproximateAmount,
		UrgencyDeclared:     string(r.UrgencyDeclared),
		VitalEmergency:      r.VitalEmergency,
		Attachments:         attachmentStrings(r.Attachments),
		RejectionReason:     r.RejectionReason,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	return adminRequestDTO{
		requesterViewDTO: view,
		AdminNotes:       r.AdminNotes,
		Version:          r.Version,
		Projection:       newProjectionDTO(d.Projection),
	}
}

type gallerySelectionDTO struct {
	Ref   string `json:"ref"`
	Label string `json:"label"`
}

type curateRequest struct {
	Title           string                `json:"title"`
	Summary         string                `json:"summary"`
	Description     string                `json:"description"`
	Wilaya          string                `json:"wilaya"`
	Area            string                `json:"area"`
	Gallery         []gallerySelectionDTO `json:"gallery"`
	IsUrgent        bool                  `json:"isUrgent"`
	AdminNotes      *string               `json:"adminNotes"`
	ExpectedVersion int64                 `json:"expectedVersion"`
}

func (r curateRequest) toInput() services.CurateInput {
	in := services.CurateInput{
		Edits: domain.CurationEdits{
			Title:       r.Title,
			Summary:     r.Summary,
			Description: r.Description,
			Wilaya:      r.Wilaya,
			Area:        r.Area,
			IsUrgent:    r.IsUrgent,
		},
		AdminNotes:      r.AdminNotes,
		ExpectedVersion: r.ExpectedVersion,
	}
	for _, g := range r.Gallery {
		in.Edits.Gallery = append(in.Edits.Gallery, domain.GallerySelection{Ref: domain.AttachmentRef(g.Ref), Label: g.Label})
	}
	return in
}

type transitionRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
	ExpectedVersion int64  `json:"expectedVersion"`
}

type transitionResponse struct {
	ID      uuid.UUID `json:"id"`
	Status  string    `json:"status"`
	Version int64     `json:"version"`
}
