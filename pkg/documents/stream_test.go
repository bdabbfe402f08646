package documents_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uisautomation/assetmigrate/pkg/documents"
)

func sampleRow() *documents.SourceRow {
	row := documents.NewSourceRow()
	row.Set("department", "Biochemistry")
	row.Set("name", "Microscope")
	row.Set("personal_data", "yes")
	row.Set("private", "no")
	row.Set("purpose", "Research")
	row.Set("risk_type", "chemical;biological")
	return row
}

func TestEncoderSeparatesDocuments(t *testing.T) {
	var buf bytes.Buffer
	enc := documents.NewEncoder(&buf)

	doc := documents.AssetDocument{
		Type:     documents.TypeAsset,
		Asset:    documents.Asset{ID: "abc123", Name: "Microscope", RiskType: []string{}},
		Original: sampleRow(),
	}
	require.NoError(t, enc.Encode(&doc))

	report := documents.ReportDocument{Type: documents.TypeReport}
	require.NoError(t, enc.Encode(&report))

	assert.Equal(t, 2, enc.Count())
	assert.Equal(t, 1, strings.Count(buf.String(), "---\n"),
		"two documents need exactly one separator")
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := documents.NewEncoder(&buf)

	instid := "BIOCH"
	docs := []documents.AssetDocument{
		{
			Type: documents.TypeAsset,
			Asset: documents.Asset{
				ID:           "abc123",
				Department:   "BIOCH",
				Name:         "Microscope",
				PersonalData: true,
				Purpose:      "Research",
				RiskType:     []string{"chemical", "biological"},
			},
			Original: sampleRow(),
		},
		{
			Type:  documents.TypeAsset,
			Asset: documents.Asset{ID: "def456", Name: "Freezer"},
			Errors: []documents.MigrationError{
				documents.DepartmentUnresolved(),
			},
			Original: sampleRow(),
		},
	}
	for i := range docs {
		require.NoError(t, enc.Encode(&docs[i]))
	}
	report := documents.ReportDocument{
		Type: documents.TypeReport,
		OriginalDeptMapping: []documents.DeptMapping{
			{Original: "Biochemistry", InstID: &instid},
			{Original: "Unknown Dept"},
		},
	}
	require.NoError(t, enc.Encode(&report))

	decoded, err := documents.DecodeAssets(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, 2, "report document must be skipped")

	assert.Equal(t, "abc123", decoded[0].Asset.ID)
	assert.True(t, decoded[0].Asset.PersonalData)
	assert.Equal(t, []string{"chemical", "biological"}, decoded[0].Asset.RiskType)
	assert.Empty(t, decoded[0].Errors)

	require.Len(t, decoded[1].Errors, 1)
	assert.Equal(t, documents.CodeDepartmentUnresolved, decoded[1].Errors[0].Code)
	assert.Empty(t, decoded[1].Asset.Department)
}

func TestSourceRowPreservesColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	enc := documents.NewEncoder(&buf)

	doc := documents.AssetDocument{
		Type:     documents.TypeAsset,
		Asset:    documents.Asset{ID: "abc123"},
		Original: sampleRow(),
	}
	require.NoError(t, enc.Encode(&doc))

	out := buf.String()
	deptIdx := strings.Index(out, "department:")
	riskIdx := strings.Index(out, "risk_type:")
	require.GreaterOrEqual(t, deptIdx, 0)
	require.GreaterOrEqual(t, riskIdx, 0)
	assert.Less(t, deptIdx, riskIdx, "columns must serialize in source order")

	decoded, err := documents.DecodeAssets(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t,
		[]string{"department", "name", "personal_data", "private", "purpose", "risk_type"},
		decoded[0].Original.Columns())

	v, ok := decoded[0].Original.Get("risk_type")
	require.True(t, ok)
	assert.Equal(t, "chemical;biological", v)
}

func TestDecodeResults(t *testing.T) {
	var buf bytes.Buffer
	enc := documents.NewEncoder(&buf)

	dest := "xyz789"
	ok := documents.UploadResult{
		Type:       documents.TypeUpload,
		StatusCode: 201,
		SourceID:   "abc123",
		DestID:     &dest,
	}
	bad := documents.UploadResult{
		Type:       documents.TypeUpload,
		StatusCode: 422,
		SourceID:   "def456",
		Error:      map[string]any{"detail": "name required"},
	}
	require.NoError(t, enc.Encode(&ok))
	require.NoError(t, enc.Encode(&bad))

	results, err := documents.DecodeResults(&buf)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Succeeded())
	assert.Equal(t, "xyz789", *results[0].DestID)

	assert.False(t, results[1].Succeeded())
	assert.Nil(t, results[1].DestID)
	assert.Equal(t, "name required", results[1].Error["detail"])
}

func TestErrorsOmittedWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	enc := documents.NewEncoder(&buf)

	doc := documents.AssetDocument{
		Type:     documents.TypeAsset,
		Asset:    documents.Asset{ID: "abc123"},
		Original: documents.NewSourceRow(),
	}
	require.NoError(t, enc.Encode(&doc))
	assert.NotContains(t, buf.String(), "errors:")
}
