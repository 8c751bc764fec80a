// Package export writes run outputs to disk: one import-ready CSV per
// object type, a workbook with one sheet per dataset, and the JSON report.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/hubspot"
	"github.com/sells-group/crm-migrate/internal/model"
)

// Output file names.
const (
	FileDeals       = "hubspot_deals_import_ready.csv"
	FileCompanies   = "hubspot_companies_import_ready.csv"
	FileContacts    = "hubspot_contacts_import_ready.csv"
	FileEngagements = "hubspot_engagements_import_ready.csv"
	FileSocialLinks = "social_link_associations.csv"
	FileSummary     = "hubspot_import_summary.json"
	FileReport      = "transformation_report.json"
)

var dealColumns = []string{
	"icalps_deal_id", "dealname", "pipeline", "dealstage",
	"amount", "weighted_amount", "icalps_dealforecast", "icalps_dealcertainty",
	"icalps_dealtype", "icalps_dealsource", "icalps_dealnotes", "icalps_dealcategory",
	"icalps_deal_created_date", "closedate", "hubspot_owner_id",
	"icalps_originalstage", "icalps_original_status", "icalps_transformation_notes",
	"company_association_id", "contact_association_id",
	"hubspot_company_id", "hubspot_contact_id",
	"import_batch", "import_status",
}

var companyColumns = []string{
	"icalps_company_id", "name", "website",
	"icalps_sitegroup", "icalps_groupsize", "site_number", "has_multiple_sites",
	"refined_parent_id", "hubspot_owner_id", "industry", "lifecyclestage",
	"import_batch", "import_status",
}

var contactColumns = []string{
	"icalps_contact_id", "firstname", "lastname", "email",
	"icalps_company_id", "company",
	"hubspot_owner_id", "lifecyclestage", "hs_lead_status",
	"import_batch", "import_status",
}

var engagementColumns = []string{
	"icalps_comm_id", "hs_activity_subject", "hs_timestamp", "engagement_type",
	"legacy_company_id", "legacy_contact_id", "legacy_deal_id",
	"company_name", "contact_name", "deal_name",
	"hubspot_company_id", "hubspot_contact_id", "hubspot_deal_id",
	"import_batch", "import_status",
}

var socialLinkColumns = []string{
	"network_link", "network_type", "entity_type", "entity_name",
	"legacy_company_id", "legacy_contact_id",
	"association_status", "hubspot_property_target",
	"hubspot_company_id", "hubspot_contact_id",
}

// WriteDealsCSV writes the import-ready deals file.
func WriteDealsCSV(deals []hubspot.DealRow, path string) error {
	rows := make([][]string, 0, len(deals))
	for _, d := range deals {
		rows = append(rows, buildDealRow(d))
	}
	return writeCSV(path, dealColumns, rows)
}

// WriteCompaniesCSV writes the import-ready companies file.
func WriteCompaniesCSV(companies []hubspot.CompanyRow, path string) error {
	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, buildCompanyRow(c))
	}
	return writeCSV(path, companyColumns, rows)
}

// WriteContactsCSV writes the import-ready contacts file.
func WriteContactsCSV(contacts []hubspot.ContactRow, path string) error {
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, buildContactRow(c))
	}
	return writeCSV(path, contactColumns, rows)
}

// WriteEngagementsCSV writes the import-ready engagements file.
func WriteEngagementsCSV(engagements []hubspot.EngagementRow, path string) error {
	rows := make([][]string, 0, len(engagements))
	for _, e := range engagements {
		rows = append(rows, buildEngagementRow(e))
	}
	return writeCSV(path, engagementColumns, rows)
}

// WriteSocialLinksCSV writes the resolved social-link associations file.
func WriteSocialLinksCSV(links []model.SocialLinkAssociation, path string) error {
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, buildSocialLinkRow(l))
	}
	return writeCSV(path, socialLinkColumns, rows)
}

func buildDealRow(d hubspot.DealRow) []string {
	return []string{
		strconv.Itoa(d.DealID), d.DealName, d.Pipeline, d.DealStage,
		formatFloat(d.Amount), formatFloat(d.WeightedAmount), formatFloat(d.Forecast), formatFloat(d.Certainty),
		d.Type, d.Source, d.Notes, d.Category,
		d.CreatedDate, d.CloseDate, strconv.Itoa(d.OwnerID),
		d.OriginalStage, d.OriginalStatus, d.TransformationNotes,
		formatID(d.CompanyAssociationID), formatID(d.ContactAssociationID),
		d.HubSpotCompanyID, d.HubSpotContactID,
		d.ImportBatch, d.ImportStatus,
	}
}

func buildCompanyRow(c hubspot.CompanyRow) []string {
	return []string{
		strconv.Itoa(c.CompanyID), c.Name, c.Website,
		c.SiteGroup, strconv.Itoa(c.GroupSize), strconv.Itoa(c.SiteNumber), strconv.FormatBool(c.HasMultipleSites),
		formatID(c.ParentID), strconv.Itoa(c.OwnerID), c.Industry, c.LifecycleStage,
		c.ImportBatch, c.ImportStatus,
	}
}

func buildContactRow(c hubspot.ContactRow) []string {
	return []string{
		strconv.Itoa(c.ContactID), c.FirstName, c.LastName, c.Email,
		formatID(c.CompanyID), c.CompanyName,
		strconv.Itoa(c.OwnerID), c.LifecycleStage, c.LeadStatus,
		c.ImportBatch, c.ImportStatus,
	}
}

func buildEngagementRow(e hubspot.EngagementRow) []string {
	return []string{
		strconv.Itoa(e.CommunicationID), e.Subject, formatTime(e.Timestamp), e.EngagementType,
		formatID(e.LegacyCompanyID), formatID(e.LegacyContactID), formatID(e.LegacyDealID),
		e.CompanyName, e.ContactName, e.DealName,
		e.HubSpotCompanyID, e.HubSpotContactID, e.HubSpotDealID,
		e.ImportBatch, e.ImportStatus,
	}
}

func buildSocialLinkRow(l model.SocialLinkAssociation) []string {
	return []string{
		l.Link, l.NetworkType, l.EntityType, l.EntityName,
		formatID(l.LegacyCompanyID), formatID(l.LegacyContactID),
		string(l.Status), string(l.Slot),
		l.HubSpotCompanyID, l.HubSpotContactID,
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "export: create output dir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return eris.Wrapf(err, "export: write header %s", path)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write row %s", path)
		}
	}

	zap.L().Info("export: csv written", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

// formatID renders a legacy reference id, empty when absent.
func formatID(id int) string {
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
