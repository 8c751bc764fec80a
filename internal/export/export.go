package export

import (
	"path/filepath"

	"github.com/sells-group/crm-migrate/internal/hubspot"
	"github.com/sells-group/crm-migrate/internal/model"
)

// WriteAll writes every run output into dir: one import-ready CSV per object
// type, the social-link associations, the review workbook, the import
// summary, and the transformation report.
func WriteAll(dir string, wb Workbook, report *model.Report) error {
	if err := WriteDealsCSV(wb.Deals, filepath.Join(dir, FileDeals)); err != nil {
		return err
	}
	if err := WriteCompaniesCSV(wb.Companies, filepath.Join(dir, FileCompanies)); err != nil {
		return err
	}
	if err := WriteContactsCSV(wb.Contacts, filepath.Join(dir, FileContacts)); err != nil {
		return err
	}
	if err := WriteEngagementsCSV(wb.Engagements, filepath.Join(dir, FileEngagements)); err != nil {
		return err
	}
	if err := WriteSocialLinksCSV(wb.SocialLinks, filepath.Join(dir, FileSocialLinks)); err != nil {
		return err
	}
	if err := WriteWorkbook(wb, filepath.Join(dir, FileWorkbook)); err != nil {
		return err
	}

	summary := hubspot.Summarize(wb.Deals, wb.Companies, wb.Contacts, wb.Engagements)
	if err := WriteSummary(summary, filepath.Join(dir, FileSummary)); err != nil {
		return err
	}
	if report != nil {
		if err := WriteReport(report, filepath.Join(dir, FileReport)); err != nil {
			return err
		}
	}
	return nil
}
