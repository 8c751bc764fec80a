package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/crm-migrate/internal/model"
)

func TestFormatValidation(t *testing.T) {
	results := map[string]model.ValidationResult{
		"companies": {
			EntityType: "companies", TotalRecords: 3, QualityScore: 0.65,
			Warnings: []string{"1 records missing company_id"},
		},
		"opportunities": {
			EntityType: "opportunities", TotalRecords: 0, QualityScore: 0.8,
			Errors: []string{"missing required column: opportunity_id"},
		},
	}

	var buf bytes.Buffer
	failed := formatValidation(&buf, results)

	assert.Equal(t, 1, failed)
	out := buf.String()
	assert.Contains(t, out, "companies")
	assert.Contains(t, out, "0.65")
	assert.Contains(t, out, "ERROR [opportunities]: missing required column: opportunity_id")
	assert.Contains(t, out, "WARN  [companies]: 1 records missing company_id")
}

func TestFormatValidation_AllClean(t *testing.T) {
	results := map[string]model.ValidationResult{
		"contacts": {EntityType: "contacts", TotalRecords: 10, QualityScore: 1.0},
	}

	var buf bytes.Buffer
	failed := formatValidation(&buf, results)
	assert.Zero(t, failed)
	assert.Contains(t, buf.String(), "1.00")
}
