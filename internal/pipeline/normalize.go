package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/dataset"
	"github.com/sells-group/crm-migrate/internal/model"
)

// Legacy extract column names.
const (
	colCompanyID   = "Comp_CompanyId"
	colCompanyName = "Comp_Name"
	colCompanyWeb  = "Comp_Website"

	colPersonID    = "Pers_PersonId"
	colPersonFirst = "Pers_FirstName"
	colPersonLast  = "Pers_LastName"
	colPersonEmail = "Pers_EmailAddress"
	colPersonComp  = "Comp_CompanyId"

	colOppoID        = "Oppo_OpportunityId"
	colOppoCompany   = "Oppo_PrimaryCompanyId"
	colOppoPerson    = "Oppo_PrimaryPersonId"
	colOppoOwner     = "Oppo_AssignedUserId"
	colOppoDesc      = "Oppo_Description"
	colOppoType      = "Oppo_Type"
	colOppoStatus    = "Oppo_Status"
	colOppoStage     = "Oppo_Stage"
	colOppoSource    = "Oppo_Source"
	colOppoNote      = "Oppo_Note"
	colOppoForecast  = "Oppo_Forecast"
	colOppoCertainty = "Oppo_Certainty"
	colOppoCost      = "oppo_cout"
	colOppoCreated   = "Oppo_CreatedDate"
	colOppoUpdated   = "Oppo_UpdatedDate"
	colOppoClose     = "Oppo_TargetClose"

	colCommID      = "Comm_CommunicationId"
	colCommSubject = "Comm_Subject"
	colCommFrom    = "Comm_From"
	colCommTo      = "Comm_TO"
	colCommDate    = "Comm_DateTime"
	colCommType    = "comm_type"
	colCommCompany = "Comp_CompanyId"
	colCommPerson  = "Pers_PersonId"
	colCommOppo    = "Oppo_OpportunityId"

	colSocialLink    = "sone_networklink"
	colSocialType    = "network_type"
	colSocialTable   = "Related_TableID"
	colSocialRecord  = "Related_RecordID"
	colSocialCaption = "bord_caption"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// dateLayouts covers the formats seen across legacy extracts.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"01/02/2006 15:04",
}

// enterpriseSuffixes and friends drive the coarse company categorization.
var (
	enterpriseSuffixes = []string{"sa", "corp", "corporation", "gmbh", "ltd", "inc"}
	smeSuffixes        = []string{"sarl", "sas", "llc"}
	startupSuffixes    = []string{"startup", "labs", "technologies"}
)

// Normalized holds the typed output of the normalization stage. Entities
// whose extract failed validation carry empty slices; the corresponding
// ValidationResult records the failure.
type Normalized struct {
	Companies      []model.Company
	Contacts       []model.Contact
	Opportunities  []model.Opportunity
	Communications []model.Communication
	SocialLinks    []model.SocialLink

	Validation map[string]model.ValidationResult
}

// Normalizer cleans and types raw extract rows.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize types all five extracts. A missing required column fails only
// the owning entity; the others still normalize.
func (n *Normalizer) Normalize(ex *dataset.Extract) *Normalized {
	out := &Normalized{Validation: make(map[string]model.ValidationResult, len(dataset.Entities))}

	out.Companies = n.normalizeCompanies(ex.Table(dataset.EntityCompanies), out.Validation)
	out.Contacts = n.normalizeContacts(ex.Table(dataset.EntityContacts), out.Validation)
	out.Opportunities = n.normalizeOpportunities(ex.Table(dataset.EntityOpportunities), out.Validation)
	out.Communications = n.normalizeCommunications(ex.Table(dataset.EntityCommunications), out.Validation)
	out.SocialLinks = n.normalizeSocialLinks(ex.Table(dataset.EntitySocialLinks), out.Validation)

	return out
}

func (n *Normalizer) normalizeCompanies(t *dataset.Table, results map[string]model.ValidationResult) []model.Company {
	v := newValidation(dataset.EntityCompanies, t.Len())
	defer func() { results[dataset.EntityCompanies] = v.ValidationResult }()

	if err := t.RequireColumns(colCompanyID, colCompanyName); err != nil {
		v.fail(err)
		return nil
	}

	seen := make(map[int]bool, t.Len())
	companies := make([]model.Company, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id := parseInt(t.Get(i, colCompanyID))
		if id == 0 {
			v.warn(fmt.Sprintf("row %d: missing company id", i))
			continue
		}
		if seen[id] {
			v.duplicate(fmt.Sprintf("duplicate company id %d", id))
			continue
		}
		seen[id] = true

		name := titleCase(cleanString(t.Get(i, colCompanyName)))
		if name == "" {
			v.warn(fmt.Sprintf("company %d: empty name", id))
		}

		companies = append(companies, model.Company{
			ID:       id,
			Name:     name,
			Website:  cleanString(t.Get(i, colCompanyWeb)),
			Category: categorizeCompany(name),
		})
	}
	v.done()
	return companies
}

func (n *Normalizer) normalizeContacts(t *dataset.Table, results map[string]model.ValidationResult) []model.Contact {
	v := newValidation(dataset.EntityContacts, t.Len())
	defer func() { results[dataset.EntityContacts] = v.ValidationResult }()

	if err := t.RequireColumns(colPersonID, colPersonEmail); err != nil {
		v.fail(err)
		return nil
	}

	seen := make(map[int]bool, t.Len())
	contacts := make([]model.Contact, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id := parseInt(t.Get(i, colPersonID))
		if id == 0 {
			v.warn(fmt.Sprintf("row %d: missing person id", i))
			continue
		}
		if seen[id] {
			v.duplicate(fmt.Sprintf("duplicate person id %d", id))
			continue
		}
		seen[id] = true

		first := titleCase(cleanString(t.Get(i, colPersonFirst)))
		last := titleCase(cleanString(t.Get(i, colPersonLast)))
		email := strings.ToLower(cleanString(t.Get(i, colPersonEmail)))

		c := model.Contact{
			ID:         id,
			FirstName:  first,
			LastName:   last,
			FullName:   strings.TrimSpace(first + " " + last),
			Email:      email,
			EmailValid: emailPattern.MatchString(email),
			CompanyID:  parseInt(t.Get(i, colPersonComp)),
		}
		if c.EmailValid {
			c.EmailDomain = email[strings.LastIndexByte(email, '@')+1:]
		} else if email != "" {
			v.warn(fmt.Sprintf("person %d: invalid email %q", id, email))
		}
		contacts = append(contacts, c)
	}
	v.done()
	return contacts
}

func (n *Normalizer) normalizeOpportunities(t *dataset.Table, results map[string]model.ValidationResult) []model.Opportunity {
	v := newValidation(dataset.EntityOpportunities, t.Len())
	defer func() { results[dataset.EntityOpportunities] = v.ValidationResult }()

	if err := t.RequireColumns(colOppoID, colOppoCompany); err != nil {
		v.fail(err)
		return nil
	}

	seen := make(map[int]bool, t.Len())
	opps := make([]model.Opportunity, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id := parseInt(t.Get(i, colOppoID))
		if id == 0 {
			v.warn(fmt.Sprintf("row %d: missing opportunity id", i))
			continue
		}
		if seen[id] {
			v.duplicate(fmt.Sprintf("duplicate opportunity id %d", id))
			continue
		}
		seen[id] = true

		certainty := parseFloat(t.Get(i, colOppoCertainty))
		if certainty < 0 || certainty > 100 {
			v.warn(fmt.Sprintf("opportunity %d: certainty %v out of range [0, 100]", id, certainty))
		}
		forecast := parseFloat(t.Get(i, colOppoForecast))
		if forecast < 0 {
			v.warn(fmt.Sprintf("opportunity %d: negative forecast %v", id, forecast))
		}

		opps = append(opps, model.Opportunity{
			ID:          id,
			CompanyID:   parseInt(t.Get(i, colOppoCompany)),
			ContactID:   parseInt(t.Get(i, colOppoPerson)),
			OwnerID:     parseInt(t.Get(i, colOppoOwner)),
			Description: cleanString(t.Get(i, colOppoDesc)),
			Type:        cleanString(t.Get(i, colOppoType)),
			Status:      cleanString(t.Get(i, colOppoStatus)),
			Stage:       cleanString(t.Get(i, colOppoStage)),
			Source:      cleanString(t.Get(i, colOppoSource)),
			Note:        cleanString(t.Get(i, colOppoNote)),
			Forecast:    forecast,
			Certainty:   certainty,
			Cost:        parseFloat(t.Get(i, colOppoCost)),
			CreatedDate: parseDate(t.Get(i, colOppoCreated)),
			UpdatedDate: parseDate(t.Get(i, colOppoUpdated)),
			TargetClose: parseDate(t.Get(i, colOppoClose)),
		})
	}
	v.done()
	return opps
}

func (n *Normalizer) normalizeCommunications(t *dataset.Table, results map[string]model.ValidationResult) []model.Communication {
	v := newValidation(dataset.EntityCommunications, t.Len())
	defer func() { results[dataset.EntityCommunications] = v.ValidationResult }()

	if err := t.RequireColumns(colCommID); err != nil {
		v.fail(err)
		return nil
	}

	comms := make([]model.Communication, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id := parseInt(t.Get(i, colCommID))
		if id == 0 {
			v.warn(fmt.Sprintf("row %d: missing communication id", i))
			continue
		}
		comms = append(comms, model.Communication{
			ID:            id,
			Subject:       cleanString(t.Get(i, colCommSubject)),
			From:          cleanString(t.Get(i, colCommFrom)),
			To:            cleanString(t.Get(i, colCommTo)),
			OccurredAt:    parseDate(t.Get(i, colCommDate)),
			Type:          strings.ToUpper(cleanString(t.Get(i, colCommType))),
			CompanyID:     parseInt(t.Get(i, colCommCompany)),
			PersonID:      parseInt(t.Get(i, colCommPerson)),
			OpportunityID: parseInt(t.Get(i, colCommOppo)),
		})
	}
	v.done()
	return comms
}

func (n *Normalizer) normalizeSocialLinks(t *dataset.Table, results map[string]model.ValidationResult) []model.SocialLink {
	v := newValidation(dataset.EntitySocialLinks, t.Len())
	defer func() { results[dataset.EntitySocialLinks] = v.ValidationResult }()

	if err := t.RequireColumns(colSocialLink, colSocialTable, colSocialRecord); err != nil {
		v.fail(err)
		return nil
	}

	links := make([]model.SocialLink, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		link := cleanString(t.Get(i, colSocialLink))
		if link == "" {
			continue
		}
		links = append(links, model.SocialLink{
			Link:            link,
			NetworkType:     cleanString(t.Get(i, colSocialType)),
			RelatedTableID:  parseInt(t.Get(i, colSocialTable)),
			RelatedRecordID: parseInt(t.Get(i, colSocialRecord)),
			Caption:         cleanString(t.Get(i, colSocialCaption)),
		})
	}
	v.done()
	return links
}

// categorizeCompany buckets a company by legal-entity suffix in its name.
// Matching is whole-word: "sarl" must not hit the "sa" enterprise suffix.
func categorizeCompany(name string) model.CompanyCategory {
	words := strings.Fields(strings.ToLower(name))
	hasWord := func(suffixes []string) bool {
		for _, w := range words {
			for _, s := range suffixes {
				if w == s {
					return true
				}
			}
		}
		return false
	}
	switch {
	case hasWord(enterpriseSuffixes):
		return model.CategoryEnterprise
	case hasWord(smeSuffixes):
		return model.CategorySME
	case hasWord(startupSuffixes):
		return model.CategoryStartup
	default:
		return model.CategoryUnknown
	}
}

// parseInt coerces a raw extract value to an int, 0 on anything unreadable.
// Legacy exports write integer ids as "123.0", so a float parse is the
// fallback.
func parseInt(s string) int {
	s = cleanString(s)
	if s == "" {
		return 0
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// parseFloat coerces a raw extract value to a float64, 0 on anything
// unreadable. Tolerates French decimal commas.
func parseFloat(s string) float64 {
	s = cleanString(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseDate coerces a raw extract value to a time, zero time on anything
// unreadable.
func parseDate(s string) time.Time {
	s = cleanString(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// validation accumulates a ValidationResult with quality-score penalties
// weighted by finding severity: structural failures cost the most,
// duplicates next, row-level findings the least.
type validation struct {
	model.ValidationResult
}

func newValidation(entity string, total int) *validation {
	return &validation{model.ValidationResult{
		EntityType:   entity,
		TotalRecords: total,
		QualityScore: 1.0,
	}}
}

func (v *validation) fail(err error) {
	v.Errors = append(v.Errors, err.Error())
	v.QualityScore -= 0.2
	v.done()
	zap.L().Warn("normalize: validation failed", zap.String("entity", v.EntityType), zap.Error(err))
}

func (v *validation) duplicate(msg string) {
	v.Errors = append(v.Errors, msg)
	v.QualityScore -= 0.3
}

func (v *validation) warn(msg string) {
	v.Warnings = append(v.Warnings, msg)
	v.QualityScore -= 0.05
}

func (v *validation) done() {
	if v.QualityScore < 0 {
		v.QualityScore = 0
	}
}
