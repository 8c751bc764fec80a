package model

// SiteRecordKind distinguishes original companies from synthesized parents
// in the site-aggregation output.
type SiteRecordKind string

const (
	RecordSite             SiteRecordKind = "Site"
	RecordParentAggregator SiteRecordKind = "Parent_Aggregator"
)

// SiteRecord is one row of the site-aggregation output. Original companies
// are emitted as Site records; each multi-site group additionally gets one
// synthesized Parent_Aggregator record whose ID is newly minted above the
// highest existing company ID.
//
// For standalone companies ParentCompanyID equals the company's own ID.
// Parent records have ParentCompanyID 0 and SiteOrder 0.
type SiteRecord struct {
	CompanyID        int            `json:"company_id"`
	ParentCompanyID  int            `json:"parent_company_id,omitempty"`
	Kind             SiteRecordKind `json:"record_type"`
	CompanyName      string         `json:"company_name"`
	BaseName         string         `json:"base_company_name"`
	Location         string         `json:"location"`
	Domain           string         `json:"domain"`
	Website          string         `json:"website"`
	HasMultipleSites bool           `json:"has_multiple_sites"`
	SiteOrder        int            `json:"site_order"`

	ContactCount        int      `json:"contact_count"`
	ContactNames        []string `json:"contact_names,omitempty"`
	ContactEmails       []string `json:"contact_emails,omitempty"`
	PrimaryContactName  string   `json:"primary_contact_name,omitempty"`
	PrimaryContactEmail string   `json:"primary_contact_email,omitempty"`
}
