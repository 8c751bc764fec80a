package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crm-migrate/internal/dataset"
	"github.com/sells-group/crm-migrate/internal/model"
)

func extractOf(tables map[string]*dataset.Table) *dataset.Extract {
	return &dataset.Extract{Tables: tables}
}

func TestNormalizer_Companies(t *testing.T) {
	table := dataset.New(dataset.EntityCompanies,
		[]string{"Comp_CompanyId", "Comp_Name", "Comp_Website"},
		[][]string{
			{"1", "ACME CORP", "https://acme.com"},
			{"2.0", "beta technologies", "nan"},
			{"", "No Id Inc", ""},
			{"1", "Duplicate Acme", ""},
		},
	)

	n := NewNormalizer()
	out := n.Normalize(extractOf(map[string]*dataset.Table{dataset.EntityCompanies: table}))

	require.Len(t, out.Companies, 2)

	acme := out.Companies[0]
	assert.Equal(t, 1, acme.ID)
	assert.Equal(t, "Acme Corp", acme.Name)
	assert.Equal(t, "https://acme.com", acme.Website)
	assert.Equal(t, model.CategoryEnterprise, acme.Category)

	beta := out.Companies[1]
	assert.Equal(t, 2, beta.ID) // "2.0" coerces through the float fallback
	assert.Equal(t, "Beta Technologies", beta.Name)
	assert.Empty(t, beta.Website) // "nan" collapses to empty

	v := out.Validation[dataset.EntityCompanies]
	assert.Len(t, v.Errors, 1)   // duplicate id
	assert.Len(t, v.Warnings, 1) // missing id row
	assert.InDelta(t, 1.0-0.3-0.05, v.QualityScore, 1e-9)
}

func TestNormalizer_Companies_MissingColumnFailsEntityOnly(t *testing.T) {
	companies := dataset.New(dataset.EntityCompanies,
		[]string{"Comp_Name"},
		[][]string{{"Acme"}},
	)
	contacts := dataset.New(dataset.EntityContacts,
		[]string{"Pers_PersonId", "Pers_FirstName", "Pers_LastName", "Pers_EmailAddress"},
		[][]string{{"10", "alice", "martin", "alice@acme.com"}},
	)

	out := NewNormalizer().Normalize(extractOf(map[string]*dataset.Table{
		dataset.EntityCompanies: companies,
		dataset.EntityContacts:  contacts,
	}))

	assert.Nil(t, out.Companies)
	require.Len(t, out.Contacts, 1)

	v := out.Validation[dataset.EntityCompanies]
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "missing required columns")
	assert.InDelta(t, 0.8, v.QualityScore, 1e-9)
}

func TestNormalizer_Contacts(t *testing.T) {
	table := dataset.New(dataset.EntityContacts,
		[]string{"Pers_PersonId", "Pers_FirstName", "Pers_LastName", "Pers_EmailAddress", "Comp_CompanyId"},
		[][]string{
			{"10", "alice", "MARTIN", "Alice@Acme.com", "1"},
			{"11", "bob", "durand", "not-an-email", "1"},
			{"12", "carol", "petit", "", ""},
		},
	)

	out := NewNormalizer().Normalize(extractOf(map[string]*dataset.Table{dataset.EntityContacts: table}))
	require.Len(t, out.Contacts, 3)

	alice := out.Contacts[0]
	assert.Equal(t, "Alice", alice.FirstName)
	assert.Equal(t, "Martin", alice.LastName)
	assert.Equal(t, "Alice Martin", alice.FullName)
	assert.Equal(t, "alice@acme.com", alice.Email)
	assert.True(t, alice.EmailValid)
	assert.Equal(t, "acme.com", alice.EmailDomain)
	assert.Equal(t, 1, alice.CompanyID)

	bob := out.Contacts[1]
	assert.False(t, bob.EmailValid)
	assert.Empty(t, bob.EmailDomain)

	carol := out.Contacts[2]
	assert.False(t, carol.EmailValid)
	assert.Zero(t, carol.CompanyID)

	// Only the malformed email warns; an empty email is not a finding.
	v := out.Validation[dataset.EntityContacts]
	assert.Len(t, v.Warnings, 1)
}

func TestNormalizer_Opportunities(t *testing.T) {
	table := dataset.New(dataset.EntityOpportunities,
		[]string{
			"Oppo_OpportunityId", "Oppo_PrimaryCompanyId", "Oppo_PrimaryPersonId",
			"Oppo_Type", "Oppo_Status", "Oppo_Stage",
			"Oppo_Forecast", "Oppo_Certainty", "oppo_cout", "Oppo_CreatedDate",
		},
		[][]string{
			{"100", "1", "10", "Preetude", "En cours", "Qualification", "1234,56", "60", "200", "2024-01-15"},
			{"101", "1", "", "Affaire", "Won", "Negotiation", "50000", "150", "0", "15/01/2024"},
		},
	)

	out := NewNormalizer().Normalize(extractOf(map[string]*dataset.Table{dataset.EntityOpportunities: table}))
	require.Len(t, out.Opportunities, 2)

	first := out.Opportunities[0]
	assert.InDelta(t, 1234.56, first.Forecast, 1e-9) // French decimal comma
	assert.InDelta(t, 60, first.Certainty, 1e-9)
	assert.InDelta(t, 200, first.Cost, 1e-9)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.CreatedDate)

	second := out.Opportunities[1]
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), second.CreatedDate)

	// Certainty 150 is out of range and warns but still flows through.
	v := out.Validation[dataset.EntityOpportunities]
	assert.Len(t, v.Warnings, 1)
	assert.InDelta(t, 150, second.Certainty, 1e-9)
}

func TestNormalizer_Communications(t *testing.T) {
	table := dataset.New(dataset.EntityCommunications,
		[]string{"Comm_CommunicationId", "Comm_Subject", "comm_type", "Comm_DateTime", "Comp_CompanyId", "Pers_PersonId", "Oppo_OpportunityId"},
		[][]string{
			{"1", "Kickoff call", "call", "2024-02-01 09:30:00", "1", "10", "100"},
		},
	)

	out := NewNormalizer().Normalize(extractOf(map[string]*dataset.Table{dataset.EntityCommunications: table}))
	require.Len(t, out.Communications, 1)

	c := out.Communications[0]
	assert.Equal(t, "CALL", c.Type)
	assert.Equal(t, time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC), c.OccurredAt)
	assert.Equal(t, 1, c.CompanyID)
	assert.Equal(t, 10, c.PersonID)
	assert.Equal(t, 100, c.OpportunityID)
}

func TestNormalizer_SocialLinks(t *testing.T) {
	table := dataset.New(dataset.EntitySocialLinks,
		[]string{"sone_networklink", "network_type", "Related_TableID", "Related_RecordID", "bord_caption"},
		[][]string{
			{"https://linkedin.com/company/acme", "LinkedIn", "5", "1", "Acme"},
			{"", "LinkedIn", "5", "2", ""},
			{"nan", "Twitter", "13", "10", ""},
		},
	)

	out := NewNormalizer().Normalize(extractOf(map[string]*dataset.Table{dataset.EntitySocialLinks: table}))
	// Blank and placeholder links are dropped silently.
	require.Len(t, out.SocialLinks, 1)
	assert.Equal(t, model.RelatedTableCompany, out.SocialLinks[0].RelatedTableID)
}

func TestNormalizer_NilTablesFailValidation(t *testing.T) {
	out := NewNormalizer().Normalize(extractOf(map[string]*dataset.Table{}))

	assert.Empty(t, out.Companies)
	assert.Empty(t, out.Contacts)
	require.Len(t, out.Validation, len(dataset.Entities))
	for _, entity := range dataset.Entities {
		v := out.Validation[entity]
		assert.NotEmpty(t, v.Errors, entity)
	}
}

func TestCategorizeCompany(t *testing.T) {
	tests := []struct {
		name string
		want model.CompanyCategory
	}{
		{"Acme Corp", model.CategoryEnterprise},
		{"Orange SA", model.CategoryEnterprise},
		{"Petit Atelier SARL", model.CategorySME},
		{"Fresh Labs", model.CategoryStartup},
		{"Acme", model.CategoryUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categorizeCompany(tt.name), tt.name)
	}
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 123, parseInt("123"))
	assert.Equal(t, 123, parseInt("123.0"))
	assert.Equal(t, 0, parseInt("abc"))
	assert.Equal(t, 0, parseInt("None"))

	assert.InDelta(t, 12.5, parseFloat("12,5"), 1e-9)
	assert.InDelta(t, 0, parseFloat("n/a"), 1e-9)

	assert.True(t, parseDate("not a date").IsZero())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), parseDate("2024-03-01"))
}

func TestValidationQualityFloor(t *testing.T) {
	v := newValidation("companies", 10)
	for i := 0; i < 10; i++ {
		v.duplicate("dup")
	}
	v.done()
	assert.Zero(t, v.QualityScore)
}
