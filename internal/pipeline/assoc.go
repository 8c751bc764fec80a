package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/model"
)

// autoPlaceholder marks auto-generated social links in the legacy system;
// they carry no real URL and are skipped.
const autoPlaceholder = "#AUTO#"

// slotRule maps URL substrings to the target property slot. First match
// wins; the person/company split follows the related-table discriminator.
type slotRule struct {
	patterns    []string
	personSlot  model.PropertySlot
	companySlot model.PropertySlot
}

var slotRules = []slotRule{
	{
		patterns:    []string{"linkedin.com", "in/"},
		personSlot:  model.SlotLinkedInBio,
		companySlot: model.SlotLinkedInCompanyPage,
	},
	{
		patterns:    []string{"company/", ".com", ".org", ".net", ".fr"},
		personSlot:  model.SlotWebsite,
		companySlot: model.SlotWebsite,
	},
	{
		patterns:    []string{"twitter.com", "x.com"},
		personSlot:  model.SlotTwitterHandle,
		companySlot: model.SlotTwitterHandle,
	},
	{
		patterns:    []string{"facebook.com"},
		personSlot:  model.SlotFacebookID,
		companySlot: model.SlotFacebookCompanyPage,
	},
}

// engagementTypes maps legacy communication types to target activity
// types. Anything unknown imports as a note.
var engagementTypes = map[string]model.EngagementType{
	"NOTE":    model.EngagementNote,
	"CALL":    model.EngagementCall,
	"EMAIL":   model.EngagementEmail,
	"MEETING": model.EngagementMeeting,
}

// Resolver joins communications and social links to companies, contacts,
// and transformed deals via exact-id lookups built once per run.
type Resolver struct {
	companies map[int]model.Company
	contacts  map[int]model.Contact
	deals     map[int]model.TransformedDeal
}

// NewResolver builds the lookup maps from the transformed datasets.
func NewResolver(companies []model.Company, contacts []model.Contact, deals []model.TransformedDeal) *Resolver {
	r := &Resolver{
		companies: make(map[int]model.Company, len(companies)),
		contacts:  make(map[int]model.Contact, len(contacts)),
		deals:     make(map[int]model.TransformedDeal, len(deals)),
	}
	for _, c := range companies {
		r.companies[c.ID] = c
	}
	for _, c := range contacts {
		r.contacts[c.ID] = c
	}
	for _, d := range deals {
		r.deals[d.ID] = d
	}
	return r
}

// ResolveCommunications resolves each communication's company, contact,
// and deal references independently. A miss sets the per-target status,
// never an error.
func (r *Resolver) ResolveCommunications(comms []model.Communication) []model.CommunicationAssociation {
	out := make([]model.CommunicationAssociation, 0, len(comms))
	for _, comm := range comms {
		a := model.CommunicationAssociation{
			CommunicationID: comm.ID,
			Subject:         comm.Subject,
			From:            comm.From,
			To:              comm.To,
			OccurredAt:      comm.OccurredAt,
			Type:            comm.Type,
			Engagement:      MapEngagementType(comm.Type),
			LegacyCompanyID: comm.CompanyID,
			LegacyContactID: comm.PersonID,
			LegacyDealID:    comm.OpportunityID,

			HubSpotCompanyID:    model.ExternalIDPending,
			HubSpotContactID:    model.ExternalIDPending,
			HubSpotDealID:       model.ExternalIDPending,
			HubSpotEngagementID: model.ExternalIDPending,
		}

		a.CompanyStatus = model.AssociationNotFound
		if comp, ok := r.companies[comm.CompanyID]; ok {
			a.CompanyStatus = model.AssociationSuccess
			a.CompanyName = comp.Name
		}

		a.ContactStatus = model.AssociationNotFound
		if contact, ok := r.contacts[comm.PersonID]; ok {
			a.ContactStatus = model.AssociationSuccess
			a.ContactFirstName = contact.FirstName
			a.ContactLastName = contact.LastName
			a.ContactEmail = contact.Email
		}

		a.DealStatus = model.AssociationNotFound
		if deal, ok := r.deals[comm.OpportunityID]; ok {
			a.DealStatus = model.AssociationSuccess
			a.DealName = deal.Name
			a.DealPipeline = string(deal.Pipeline)
			a.DealStage = deal.Stage
		}

		out = append(out, a)
	}

	zap.L().Info("assoc: communications resolved", zap.Int("count", len(out)))
	return out
}

// ResolveSocialLinks resolves each social link against the entity named by
// its related-table discriminator. "#AUTO#" placeholder links are dropped.
func (r *Resolver) ResolveSocialLinks(links []model.SocialLink) []model.SocialLinkAssociation {
	out := make([]model.SocialLinkAssociation, 0, len(links))
	for _, link := range links {
		if link.Link == autoPlaceholder {
			continue
		}

		a := model.SocialLinkAssociation{
			Link:             link.Link,
			NetworkType:      link.NetworkType,
			Slot:             PropertySlotFor(link.Link, link.RelatedTableID),
			HubSpotCompanyID: model.ExternalIDPending,
			HubSpotContactID: model.ExternalIDPending,
		}

		switch link.RelatedTableID {
		case model.RelatedTableCompany:
			a.EntityType = "Company"
			a.LegacyCompanyID = link.RelatedRecordID
			if comp, ok := r.companies[link.RelatedRecordID]; ok {
				a.Status = model.AssociationSuccess
				a.EntityName = comp.Name
			} else {
				a.Status = model.AssociationNotFound
				a.EntityName = fmt.Sprintf("Company_%d", link.RelatedRecordID)
			}
		case model.RelatedTablePerson:
			a.EntityType = "Person"
			a.LegacyContactID = link.RelatedRecordID
			if contact, ok := r.contacts[link.RelatedRecordID]; ok {
				a.Status = model.AssociationSuccess
				a.EntityName = contact.FullName
			} else {
				a.Status = model.AssociationNotFound
				a.EntityName = fmt.Sprintf("Contact_%d", link.RelatedRecordID)
			}
		default:
			a.EntityType = "Unknown"
			a.Status = model.AssociationUnknownEntity
			a.EntityName = "Unknown Entity"
		}

		out = append(out, a)
	}

	zap.L().Info("assoc: social links resolved", zap.Int("count", len(out)))
	return out
}

// PropertySlotFor picks the target property slot for a social link URL.
func PropertySlotFor(link string, relatedTableID int) model.PropertySlot {
	lower := strings.ToLower(link)
	for _, rule := range slotRules {
		for _, p := range rule.patterns {
			if strings.Contains(lower, p) {
				if relatedTableID == model.RelatedTablePerson {
					return rule.personSlot
				}
				return rule.companySlot
			}
		}
	}
	return model.SlotWebsite
}

// MapEngagementType maps a legacy communication type to a target activity
// type, defaulting to NOTE.
func MapEngagementType(commType string) model.EngagementType {
	if t, ok := engagementTypes[strings.ToUpper(strings.TrimSpace(commType))]; ok {
		return t
	}
	return model.EngagementNote
}
