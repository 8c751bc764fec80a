package model

import "time"

// AssociationStatus records the outcome of resolving one link target.
// A miss is never an error; it is recorded and the record flows on.
type AssociationStatus string

const (
	AssociationSuccess       AssociationStatus = "SUCCESS"
	AssociationNotFound      AssociationStatus = "NOT_FOUND"
	AssociationUnknownEntity AssociationStatus = "UNKNOWN_ENTITY_TYPE"
)

// ExternalIDPending is the placeholder carried in target-CRM ID fields until
// the external import assigns real IDs. This stage never performs the write.
const ExternalIDPending = "TBD"

// EngagementType is the target-CRM activity type for a communication.
type EngagementType string

const (
	EngagementNote    EngagementType = "NOTE"
	EngagementCall    EngagementType = "CALL"
	EngagementEmail   EngagementType = "EMAIL"
	EngagementMeeting EngagementType = "MEETING"
)

// CommunicationAssociation joins one legacy communication to the companies,
// contacts, and transformed deals datasets. Each target resolves
// independently: a record can carry a resolved company and an unresolved
// contact at the same time.
type CommunicationAssociation struct {
	CommunicationID int            `json:"communication_id"`
	Subject         string         `json:"communication_subject"`
	From            string         `json:"communication_from"`
	To              string         `json:"communication_to"`
	OccurredAt      time.Time      `json:"communication_datetime"`
	Type            string         `json:"communication_type"`
	Engagement      EngagementType `json:"engagement_type"`

	LegacyCompanyID int `json:"legacy_company_id,omitempty"`
	LegacyContactID int `json:"legacy_person_id,omitempty"`
	LegacyDealID    int `json:"legacy_opportunity_id,omitempty"`

	CompanyName      string `json:"company_name"`
	ContactFirstName string `json:"contact_first_name"`
	ContactLastName  string `json:"contact_last_name"`
	ContactEmail     string `json:"contact_email"`
	DealName         string `json:"transformed_deal_name"`
	DealPipeline     string `json:"transformed_deal_pipeline"`
	DealStage        string `json:"transformed_deal_stage"`

	CompanyStatus AssociationStatus `json:"company_association_status"`
	ContactStatus AssociationStatus `json:"contact_association_status"`
	DealStatus    AssociationStatus `json:"deal_association_status"`

	HubSpotCompanyID    string `json:"hubspot_company_id"`
	HubSpotContactID    string `json:"hubspot_contact_id"`
	HubSpotDealID       string `json:"hubspot_deal_id"`
	HubSpotEngagementID string `json:"hubspot_engagement_id"`
}

// PropertySlot is the target-CRM property that should receive a social link.
type PropertySlot string

const (
	SlotLinkedInBio         PropertySlot = "linkedin_bio"
	SlotLinkedInCompanyPage PropertySlot = "linkedin_company_page"
	SlotTwitterHandle       PropertySlot = "twitterhandle"
	SlotFacebookCompanyPage PropertySlot = "facebook_company_page"
	SlotFacebookID          PropertySlot = "hs_facebookid"
	SlotWebsite             PropertySlot = "website"
)

// SocialLinkAssociation joins one legacy social-network link to its company
// or person and carries the property slot it should be written to.
type SocialLinkAssociation struct {
	Link        string `json:"network_link"`
	NetworkType string `json:"network_type"`
	EntityType  string `json:"entity_type"`
	EntityName  string `json:"entity_name"`

	LegacyCompanyID int `json:"legacy_company_id,omitempty"`
	LegacyContactID int `json:"legacy_contact_id,omitempty"`

	Status AssociationStatus `json:"association_status"`
	Slot   PropertySlot      `json:"hubspot_property_target"`

	HubSpotCompanyID string `json:"hubspot_company_id"`
	HubSpotContactID string `json:"hubspot_contact_id"`
}
