// Package model defines the row types exchanged between pipeline stages.
// All types are value types owned by a single run; stages never mutate
// their inputs.
package model

import "time"

// Company is a normalized legacy company row.
type Company struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Website  string `json:"website"`
	Category CompanyCategory `json:"category"`

	// Derived during site aggregation.
	BaseName string `json:"base_name,omitempty"`
	Location string `json:"location,omitempty"`
	Domain   string `json:"domain,omitempty"`

	ContactCount int `json:"contact_count"`
}

// CompanyCategory is a coarse size classification derived from legal-entity
// suffixes in the company name.
type CompanyCategory string

const (
	CategoryEnterprise CompanyCategory = "Enterprise"
	CategorySME        CompanyCategory = "SME"
	CategoryStartup    CompanyCategory = "Startup"
	CategoryUnknown    CompanyCategory = "Unknown"
)

// Contact is a normalized legacy person row. CompanyID is 0 when the legacy
// record carried no company reference.
type Contact struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	EmailValid  bool   `json:"email_valid"`
	EmailDomain string `json:"email_domain,omitempty"`
	CompanyID   int    `json:"company_id,omitempty"`
}

// Communication is a normalized legacy communication row. The three
// reference IDs are 0 when absent in the extract.
type Communication struct {
	ID            int       `json:"id"`
	Subject       string    `json:"subject"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	OccurredAt    time.Time `json:"occurred_at"`
	Type          string    `json:"type"`
	CompanyID     int       `json:"company_id,omitempty"`
	PersonID      int       `json:"person_id,omitempty"`
	OpportunityID int       `json:"opportunity_id,omitempty"`
}

// SocialLink is a normalized legacy social-network row. RelatedTableID
// discriminates the referenced entity: 5 = company, 13 = person.
type SocialLink struct {
	Link            string `json:"link"`
	NetworkType     string `json:"network_type"`
	RelatedTableID  int    `json:"related_table_id"`
	RelatedRecordID int    `json:"related_record_id"`
	Caption         string `json:"caption"`
}

// SocialLink table discriminator values from the legacy schema.
const (
	RelatedTableCompany = 5
	RelatedTablePerson  = 13
)
