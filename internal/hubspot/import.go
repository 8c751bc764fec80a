package hubspot

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/model"
)

// Import batch lifecycle markers.
const (
	ImportStatusReady = "READY"
	batchTimeLayout   = "20060102_1504"
)

// DealRow is one deal ready for import, keyed by portal property names.
type DealRow struct {
	DealID              int    `json:"icalps_deal_id"`
	DealName            string `json:"dealname"`
	Pipeline            string `json:"pipeline"`
	DealStage           string `json:"dealstage"`
	Amount              float64 `json:"amount"`
	WeightedAmount      float64 `json:"weighted_amount"`
	Forecast            float64 `json:"icalps_dealforecast"`
	Certainty           float64 `json:"icalps_dealcertainty"`
	Type                string `json:"icalps_dealtype"`
	Source              string `json:"icalps_dealsource"`
	Notes               string `json:"icalps_dealnotes"`
	Category            string `json:"icalps_dealcategory"`
	CreatedDate         string `json:"icalps_deal_created_date"`
	CloseDate           string `json:"closedate"`
	OwnerID             int    `json:"hubspot_owner_id"`
	OriginalStage       string `json:"icalps_originalstage"`
	OriginalStatus      string `json:"icalps_original_status"`
	TransformationNotes string `json:"icalps_transformation_notes"`

	CompanyAssociationID int    `json:"company_association_id,omitempty"`
	ContactAssociationID int    `json:"contact_association_id,omitempty"`
	HubSpotCompanyID     string `json:"hubspot_company_id"`
	HubSpotContactID     string `json:"hubspot_contact_id"`

	ImportBatch  string `json:"import_batch"`
	ImportStatus string `json:"import_status"`
}

// CompanyRow is one company ready for import, enriched with site grouping.
type CompanyRow struct {
	CompanyID int    `json:"icalps_company_id"`
	Name      string `json:"name"`
	Website   string `json:"website"`

	SiteGroup        string `json:"icalps_sitegroup"`
	GroupSize        int    `json:"icalps_groupsize"`
	SiteNumber       int    `json:"site_number"`
	HasMultipleSites bool   `json:"has_multiple_sites"`
	ParentID         int    `json:"refined_parent_id,omitempty"`

	OwnerID        int    `json:"hubspot_owner_id"`
	Industry       string `json:"industry"`
	LifecycleStage string `json:"lifecyclestage"`

	ImportBatch  string `json:"import_batch"`
	ImportStatus string `json:"import_status"`
}

// ContactRow is one contact ready for import. Only contacts with a valid
// email are importable.
type ContactRow struct {
	ContactID int    `json:"icalps_contact_id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`

	CompanyID   int    `json:"icalps_company_id,omitempty"`
	CompanyName string `json:"company"`

	OwnerID        int    `json:"hubspot_owner_id"`
	LifecycleStage string `json:"lifecyclestage"`
	LeadStatus     string `json:"hs_lead_status"`

	ImportBatch  string `json:"import_batch"`
	ImportStatus string `json:"import_status"`
}

// EngagementRow is one communication ready for import as an engagement.
type EngagementRow struct {
	CommunicationID int       `json:"icalps_comm_id"`
	Subject         string    `json:"hs_activity_subject"`
	Timestamp       time.Time `json:"hs_timestamp"`
	EngagementType  string    `json:"engagement_type"`

	LegacyCompanyID int `json:"legacy_company_id,omitempty"`
	LegacyContactID int `json:"legacy_contact_id,omitempty"`
	LegacyDealID    int `json:"legacy_deal_id,omitempty"`

	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	DealName    string `json:"deal_name"`

	HubSpotCompanyID string `json:"hubspot_company_id"`
	HubSpotContactID string `json:"hubspot_contact_id"`
	HubSpotDealID    string `json:"hubspot_deal_id"`

	ImportBatch  string `json:"import_batch"`
	ImportStatus string `json:"import_status"`
}

// Transformer builds import-ready rows. The reference time stamps every
// batch name, so one run yields one batch id per object type.
type Transformer struct {
	now time.Time
}

// NewTransformer creates a Transformer pinned to the given reference time.
func NewTransformer(now time.Time) *Transformer {
	return &Transformer{now: now}
}

func (t *Transformer) batch(object string) string {
	return fmt.Sprintf("icalps_%s_%s", object, t.now.Format(batchTimeLayout))
}

// Deals maps transformed deals onto portal deal properties.
func (t *Transformer) Deals(deals []model.TransformedDeal) []DealRow {
	batch := t.batch("migration")
	rows := make([]DealRow, 0, len(deals))
	for _, d := range deals {
		rows = append(rows, DealRow{
			DealID:              d.ID,
			DealName:            d.Name,
			Pipeline:            PipelineID(d.Pipeline),
			DealStage:           StageID(d.Pipeline, d.Stage),
			Amount:              d.Amount,
			WeightedAmount:      math.Round(d.Amount*d.Certainty) / 100,
			Forecast:            d.Amount,
			Certainty:           d.Certainty,
			Type:                d.Type,
			Source:              d.Source,
			Notes:               d.Note,
			Category:            string(d.Category),
			CreatedDate:         formatDate(d.CreatedDate),
			CloseDate:           formatDate(d.CloseDate),
			OwnerID:             d.OwnerID,
			OriginalStage:       d.OriginalStage,
			OriginalStatus:      d.OriginalStatus,
			TransformationNotes: d.Transformation,

			CompanyAssociationID: d.CompanyID,
			ContactAssociationID: d.ContactID,
			HubSpotCompanyID:     model.ExternalIDPending,
			HubSpotContactID:     model.ExternalIDPending,

			ImportBatch:  batch,
			ImportStatus: ImportStatusReady,
		})
	}
	zap.L().Info("hubspot: deals prepared", zap.Int("count", len(rows)))
	return rows
}

// Companies maps site-aggregation records onto portal company properties.
// Parent aggregator records import like any other company; their site group
// carries the member count.
func (t *Transformer) Companies(sites []model.SiteRecord) []CompanyRow {
	batch := t.batch("companies")

	groupSize := make(map[string]int, len(sites))
	for _, s := range sites {
		if s.Kind == model.RecordSite {
			groupSize[s.BaseName]++
		}
	}

	rows := make([]CompanyRow, 0, len(sites))
	for _, s := range sites {
		rows = append(rows, CompanyRow{
			CompanyID:        s.CompanyID,
			Name:             s.CompanyName,
			Website:          s.Website,
			SiteGroup:        s.BaseName,
			GroupSize:        groupSize[s.BaseName],
			SiteNumber:       s.SiteOrder,
			HasMultipleSites: s.HasMultipleSites,
			ParentID:         s.ParentCompanyID,
			OwnerID:          DefaultOwnerID,
			Industry:         "Semiconductors",
			LifecycleStage:   "lead",
			ImportBatch:      batch,
			ImportStatus:     ImportStatusReady,
		})
	}
	zap.L().Info("hubspot: companies prepared", zap.Int("count", len(rows)))
	return rows
}

// Contacts maps contacts onto portal contact properties, dropping contacts
// without a valid email address.
func (t *Transformer) Contacts(contacts []model.Contact, companies []model.Company) []ContactRow {
	batch := t.batch("contacts")

	names := make(map[int]string, len(companies))
	for _, c := range companies {
		names[c.ID] = c.Name
	}

	rows := make([]ContactRow, 0, len(contacts))
	for _, c := range contacts {
		if !c.EmailValid {
			continue
		}
		rows = append(rows, ContactRow{
			ContactID:      c.ID,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			Email:          c.Email,
			CompanyID:      c.CompanyID,
			CompanyName:    names[c.CompanyID],
			OwnerID:        DefaultOwnerID,
			LifecycleStage: "lead",
			LeadStatus:     "NEW",
			ImportBatch:    batch,
			ImportStatus:   ImportStatusReady,
		})
	}
	zap.L().Info("hubspot: contacts prepared",
		zap.Int("count", len(rows)),
		zap.Int("dropped_invalid_email", len(contacts)-len(rows)),
	)
	return rows
}

// Engagements maps resolved communications onto portal engagement rows.
func (t *Transformer) Engagements(comms []model.CommunicationAssociation) []EngagementRow {
	batch := t.batch("engagements")
	rows := make([]EngagementRow, 0, len(comms))
	for _, c := range comms {
		rows = append(rows, EngagementRow{
			CommunicationID:  c.CommunicationID,
			Subject:          c.Subject,
			Timestamp:        c.OccurredAt,
			EngagementType:   string(c.Engagement),
			LegacyCompanyID:  c.LegacyCompanyID,
			LegacyContactID:  c.LegacyContactID,
			LegacyDealID:     c.LegacyDealID,
			CompanyName:      c.CompanyName,
			ContactName:      strings.TrimSpace(c.ContactFirstName + " " + c.ContactLastName),
			DealName:         c.DealName,
			HubSpotCompanyID: c.HubSpotCompanyID,
			HubSpotContactID: c.HubSpotContactID,
			HubSpotDealID:    c.HubSpotDealID,
			ImportBatch:      batch,
			ImportStatus:     ImportStatusReady,
		})
	}
	zap.L().Info("hubspot: engagements prepared", zap.Int("count", len(rows)))
	return rows
}

// Summary describes import readiness across all object types.
type Summary struct {
	DealsReady       int            `json:"deals_ready"`
	CompaniesReady   int            `json:"companies_ready"`
	ContactsReady    int            `json:"contacts_ready"`
	EngagementsReady int            `json:"engagements_ready"`
	PipelineCounts   map[string]int `json:"pipeline_distribution"`

	DealCompanyAssociations int `json:"deal_to_company_associations"`
	DealContactAssociations int `json:"deal_to_contact_associations"`

	RequiredCustomProperties []string `json:"required_custom_properties"`
}

// Summarize builds the import-readiness summary.
func Summarize(deals []DealRow, companies []CompanyRow, contacts []ContactRow, engagements []EngagementRow) Summary {
	s := Summary{
		DealsReady:               len(deals),
		CompaniesReady:           len(companies),
		ContactsReady:            len(contacts),
		EngagementsReady:         len(engagements),
		PipelineCounts:           make(map[string]int),
		RequiredCustomProperties: RequiredCustomProperties,
	}
	for _, d := range deals {
		s.PipelineCounts[d.Pipeline]++
		if d.CompanyAssociationID != 0 {
			s.DealCompanyAssociations++
		}
		if d.ContactAssociationID != 0 {
			s.DealContactAssociations++
		}
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
