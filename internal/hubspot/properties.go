// Package hubspot shapes run outputs into import-ready rows for the target
// CRM: property-name remapping, pipeline and stage ID lookup, and per-object
// import batches. It performs no API writes; external IDs stay "TBD" until
// the import tool assigns them.
package hubspot

import (
	"github.com/sells-group/crm-migrate/internal/model"
)

// Target pipeline identifiers.
const (
	PipelineServiceID  = "Icalps_service"
	PipelineHardwareID = "Icalps_hardware"
)

// defaultStageID is the Identified stage of the hardware pipeline, used
// when a stage label has no table entry.
const defaultStageID = "1116419644"

// DefaultOwnerID is the portal user every imported object is assigned to.
const DefaultOwnerID = 106420117

// studiesStageIDs and salesStageIDs map mapped stage labels to the stage
// IDs configured in the target portal. Design In / Negotiate share a stage
// in the portal, as do the two middle studies stages.
var (
	studiesStageIDs = map[string]string{
		"01-Identification":            "1116269224",
		"02-Qualifiée":                 "1162868542",
		"03-Evaluation technique":      "1116419646",
		"04-Construction propositions": "1116704051",
		"05-Négociation":               "1116704051",
		"Closed Won":                   "1116704052",
		"Closed Lost":                  "1116704053",
		"Closed Dead":                  "1116269223",
	}
	salesStageIDs = map[string]string{
		"Identified":  "1116419644",
		"Qualified":   "1116419645",
		"Design In":   "1116419646",
		"Negotiate":   "1116419646",
		"Design Win":  "1116419647",
		"Closed Won":  "1116419649",
		"Closed Lost": "12096415",
		"Closed Dead": "1116419650",
	}
)

// PipelineID returns the portal pipeline identifier for a mapped pipeline.
func PipelineID(p model.PipelineType) string {
	if p == model.PipelineStudies {
		return PipelineServiceID
	}
	return PipelineHardwareID
}

// StageID returns the portal stage ID for a mapped stage, falling back to
// the hardware Identified stage for unknown labels.
func StageID(p model.PipelineType, stage string) string {
	table := salesStageIDs
	if p == model.PipelineStudies {
		table = studiesStageIDs
	}
	if id, ok := table[stage]; ok {
		return id
	}
	return defaultStageID
}

// RequiredCustomProperties lists the custom deal properties the portal must
// define before an import can run.
var RequiredCustomProperties = []string{
	"icalps_deal_id",
	"icalps_dealforecast",
	"icalps_dealcertainty",
	"icalps_dealtype",
	"icalps_dealsource",
	"icalps_dealnotes",
	"icalps_dealcategory",
	"icalps_deal_created_date",
	"icalps_originalstage",
	"icalps_original_status",
	"icalps_transformation_notes",
}
