package pipeline

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/model"
)

// locationIndicators mark a trailing name token as a location suffix.
// Matching is substring-based over the folded last word.
var locationIndicators = []string{
	"grenoble", "paris", "lyon", "toulouse", "hq", "headquarters",
	"usa", "france", "germany", "uk", "switzerland", "italy",
	"north", "south", "east", "west", "corp", "inc", "ltd", "sa",
}

// domainSentinel marks companies with no usable website for clustering.
const domainSentinel = "no-domain"

// defaultLocation is the location assigned when a company name carries no
// recognizable suffix.
const defaultLocation = "HQ"

// siteGroup collects the member companies of one (baseName, domain)
// cluster in input order.
type siteGroup struct {
	baseName string
	domain   string
	members  []int // indexes into the companies slice
}

// Aggregator clusters companies into multi-site groups and synthesizes
// parent records.
type Aggregator struct{}

// NewAggregator creates an Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// ExtractBaseName splits a company name into its base name. The last word
// is dropped only when it matches the location vocabulary.
func ExtractBaseName(name string) string {
	name = strings.TrimSpace(name)
	words := strings.Fields(name)
	if len(words) < 2 {
		return name
	}
	if isLocationWord(words[len(words)-1]) {
		return strings.Join(words[:len(words)-1], " ")
	}
	return name
}

// ExtractLocation returns the location suffix of a company name, or "HQ"
// when the last word is not a recognizable location. It shares the full
// base-name vocabulary, so corporate suffixes count as locations: "Beta
// Corp" reports "Corp", not "HQ".
func ExtractLocation(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	if len(words) < 2 {
		return defaultLocation
	}
	last := words[len(words)-1]
	if isLocationWord(last) {
		return last
	}
	return defaultLocation
}

func isLocationWord(word string) bool {
	folded := fold(word)
	for _, ind := range locationIndicators {
		if strings.Contains(folded, ind) {
			return true
		}
	}
	return false
}

// CleanDomain reduces a website URL to a bare domain for clustering.
// Unusable values map to the "no-domain" sentinel.
func CleanDomain(website string) string {
	d := strings.ToLower(cleanString(website))
	if d == "" {
		return domainSentinel
	}
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	if i := strings.IndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	if d == "" {
		return domainSentinel
	}
	return d
}

// Aggregate clusters the companies, synthesizes one Parent_Aggregator per
// multi-site cluster, and returns parents first, then all Site records in
// input order. Parent ids mint from max(existing id)+1 in (baseName,
// domain) sort order, so re-runs over identical input allocate identical
// ids.
func (a *Aggregator) Aggregate(companies []model.Company, contacts []model.Contact) []model.SiteRecord {
	if len(companies) == 0 {
		return nil
	}

	contactsByCompany := make(map[int][]model.Contact, len(companies))
	for _, c := range contacts {
		if c.CompanyID != 0 {
			contactsByCompany[c.CompanyID] = append(contactsByCompany[c.CompanyID], c)
		}
	}

	groups := make(map[[2]string]*siteGroup, len(companies))
	order := make([]*siteGroup, 0, len(companies))
	maxID := 0
	for i, comp := range companies {
		if comp.ID > maxID {
			maxID = comp.ID
		}
		key := [2]string{ExtractBaseName(comp.Name), CleanDomain(comp.Website)}
		g, ok := groups[key]
		if !ok {
			g = &siteGroup{baseName: key[0], domain: key[1]}
			groups[key] = g
			order = append(order, g)
		}
		g.members = append(g.members, i)
	}

	// Deterministic parent-id allocation: multi-site groups sorted by
	// (baseName, domain), ids minted from max existing id + 1.
	multi := make([]*siteGroup, 0, len(order))
	for _, g := range order {
		if len(g.members) > 1 {
			multi = append(multi, g)
		}
	}
	sort.Slice(multi, func(i, j int) bool {
		if multi[i].baseName != multi[j].baseName {
			return multi[i].baseName < multi[j].baseName
		}
		return multi[i].domain < multi[j].domain
	})
	parentIDs := make(map[*siteGroup]int, len(multi))
	for i, g := range multi {
		parentIDs[g] = maxID + 1 + i
	}

	records := make([]model.SiteRecord, 0, len(companies)+len(multi))

	// Parent records first.
	for _, g := range multi {
		records = append(records, a.buildParent(g, parentIDs[g], companies, contactsByCompany))
	}

	// Site records in original input order.
	siteOrder := make(map[*siteGroup]int, len(groups))
	for _, comp := range companies {
		key := [2]string{ExtractBaseName(comp.Name), CleanDomain(comp.Website)}
		g := groups[key]

		multiSite := len(g.members) > 1
		parentID := comp.ID
		ord := 1
		if multiSite {
			parentID = parentIDs[g]
			siteOrder[g]++
			ord = siteOrder[g]
		}

		rec := model.SiteRecord{
			CompanyID:        comp.ID,
			ParentCompanyID:  parentID,
			Kind:             model.RecordSite,
			CompanyName:      comp.Name,
			BaseName:         g.baseName,
			Location:         ExtractLocation(comp.Name),
			Domain:           g.domain,
			Website:          comp.Website,
			HasMultipleSites: multiSite,
			SiteOrder:        ord,
		}
		fillContacts(&rec, contactsByCompany[comp.ID])
		records = append(records, rec)
	}

	zap.L().Info("sites: aggregation complete",
		zap.Int("companies", len(companies)),
		zap.Int("multi_site_groups", len(multi)),
		zap.Int("records", len(records)),
	)
	return records
}

// buildParent synthesizes the Parent_Aggregator record for one group,
// unioning member contacts with (name, email) dedup in encounter order.
func (a *Aggregator) buildParent(g *siteGroup, parentID int, companies []model.Company, contactsByCompany map[int][]model.Contact) model.SiteRecord {
	rec := model.SiteRecord{
		CompanyID:        parentID,
		ParentCompanyID:  0,
		Kind:             model.RecordParentAggregator,
		CompanyName:      g.baseName,
		BaseName:         g.baseName,
		Location:         defaultLocation,
		Domain:           g.domain,
		Website:          companies[g.members[0]].Website,
		HasMultipleSites: true,
		SiteOrder:        0,
	}

	seen := make(map[[2]string]bool)
	for _, idx := range g.members {
		member := companies[idx]
		memberContacts := contactsByCompany[member.ID]
		rec.ContactCount += len(memberContacts)
		for _, c := range memberContacts {
			key := [2]string{c.FullName, c.Email}
			if seen[key] {
				continue
			}
			seen[key] = true
			rec.ContactNames = append(rec.ContactNames, c.FullName)
			if c.Email != "" {
				rec.ContactEmails = append(rec.ContactEmails, c.Email)
			}
		}
	}
	if len(rec.ContactNames) > 0 {
		rec.PrimaryContactName = rec.ContactNames[0]
	}
	if len(rec.ContactEmails) > 0 {
		rec.PrimaryContactEmail = rec.ContactEmails[0]
	}
	return rec
}

func fillContacts(rec *model.SiteRecord, contacts []model.Contact) {
	rec.ContactCount = len(contacts)
	for _, c := range contacts {
		rec.ContactNames = append(rec.ContactNames, c.FullName)
		if c.Email != "" {
			rec.ContactEmails = append(rec.ContactEmails, c.Email)
		}
	}
	if len(rec.ContactNames) > 0 {
		rec.PrimaryContactName = rec.ContactNames[0]
	}
	if len(rec.ContactEmails) > 0 {
		rec.PrimaryContactEmail = rec.ContactEmails[0]
	}
}
