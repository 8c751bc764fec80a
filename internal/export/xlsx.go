package export

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/hubspot"
	"github.com/sells-group/crm-migrate/internal/model"
)

// FileWorkbook is the combined review workbook, one sheet per dataset.
const FileWorkbook = "hubspot_import_workbook.xlsx"

// Workbook holds everything the combined review workbook carries.
type Workbook struct {
	Deals       []hubspot.DealRow
	Companies   []hubspot.CompanyRow
	Contacts    []hubspot.ContactRow
	Engagements []hubspot.EngagementRow
	SocialLinks []model.SocialLinkAssociation
}

// WriteWorkbook writes the review workbook with one sheet per dataset.
// Sheets are always present, even when a dataset is empty, so reviewers
// see the full shape of the run.
func WriteWorkbook(wb Workbook, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "export: create output dir for %s", path)
	}

	f := xlsx.NewFile()

	dealRows := make([][]string, 0, len(wb.Deals))
	for _, d := range wb.Deals {
		dealRows = append(dealRows, buildDealRow(d))
	}
	if err := addSheet(f, "Deals", dealColumns, dealRows); err != nil {
		return err
	}

	companyRows := make([][]string, 0, len(wb.Companies))
	for _, c := range wb.Companies {
		companyRows = append(companyRows, buildCompanyRow(c))
	}
	if err := addSheet(f, "Companies", companyColumns, companyRows); err != nil {
		return err
	}

	contactRows := make([][]string, 0, len(wb.Contacts))
	for _, c := range wb.Contacts {
		contactRows = append(contactRows, buildContactRow(c))
	}
	if err := addSheet(f, "Contacts", contactColumns, contactRows); err != nil {
		return err
	}

	engagementRows := make([][]string, 0, len(wb.Engagements))
	for _, e := range wb.Engagements {
		engagementRows = append(engagementRows, buildEngagementRow(e))
	}
	if err := addSheet(f, "Engagements", engagementColumns, engagementRows); err != nil {
		return err
	}

	socialRows := make([][]string, 0, len(wb.SocialLinks))
	for _, l := range wb.SocialLinks {
		socialRows = append(socialRows, buildSocialLinkRow(l))
	}
	if err := addSheet(f, "Social Links", socialLinkColumns, socialRows); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}

	zap.L().Info("export: workbook written",
		zap.String("path", path),
		zap.Int("deals", len(dealRows)),
		zap.Int("companies", len(companyRows)),
		zap.Int("contacts", len(contactRows)),
		zap.Int("engagements", len(engagementRows)),
		zap.Int("social_links", len(socialRows)),
	)
	return nil
}

func addSheet(f *xlsx.File, name string, header []string, rows [][]string) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %s", name)
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().SetString(h)
	}
	for _, row := range rows {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}
	return nil
}
