// Package documents defines the document model shared by the migration and
// upload pipelines: normalized asset records, the run-level department
// mapping report, and per-record upload results. Documents are serialized
// as a YAML multi-document stream.
package documents

// Document type discriminators. Every document in a stream carries one.
const (
	TypeAsset  = "asset"
	TypeReport = "report"
	TypeUpload = "upload"
)

// Migration error codes. The set is closed: consumers of the output
// stream match on these values.
const (
	// CodeDepartmentUnresolved marks a department string that could not
	// be reconciled against the directory service.
	CodeDepartmentUnresolved = "E001"

	// CodeInvalidBoolean marks a boolean column whose value could not be
	// interpreted; the field defaults to false.
	CodeInvalidBoolean = "E002"

	// CodeMissingColumn marks an expected column absent from the source row.
	CodeMissingColumn = "E003"
)

// Asset is the canonical asset record. Only ID is guaranteed to be
// present; every other field may be empty if the source row could not
// supply it.
type Asset struct {
	ID           string   `yaml:"id" json:"id"`
	Department   string   `yaml:"department" json:"department"`
	Name         string   `yaml:"name" json:"name"`
	PersonalData bool     `yaml:"personal_data" json:"personal_data"`
	Private      bool     `yaml:"private" json:"private"`
	Purpose      string   `yaml:"purpose" json:"purpose"`
	RiskType     []string `yaml:"risk_type" json:"risk_type"`
}

// MigrationError annotates an asset with a field the migration could not
// determine. Errors never block emission of the record.
type MigrationError struct {
	Code    string `yaml:"code"`
	Message string `yaml:"message"`
}

// DepartmentUnresolved returns the annotation for a department string the
// directory service could not confirm.
func DepartmentUnresolved() MigrationError {
	return MigrationError{
		Code:    CodeDepartmentUnresolved,
		Message: "Department could not be resolved",
	}
}

// InvalidBoolean returns the annotation for an unparseable boolean column.
func InvalidBoolean(column, value string) MigrationError {
	return MigrationError{
		Code:    CodeInvalidBoolean,
		Message: "Column " + column + " has unrecognised boolean value " + value,
	}
}

// MissingColumn returns the annotation for an expected column that is
// absent from the source row.
func MissingColumn(column string) MigrationError {
	return MigrationError{
		Code:    CodeMissingColumn,
		Message: "Column " + column + " missing from source row",
	}
}

// AssetDocument is one normalized record plus its original source row and
// any reconciliation errors. Exactly one is emitted per source row.
type AssetDocument struct {
	Type     string           `yaml:"type"`
	Asset    Asset            `yaml:"asset"`
	Errors   []MigrationError `yaml:"errors,omitempty"`
	Original *SourceRow       `yaml:"original"`
}

// DeptMapping records the resolution observed for one distinct original
// department string. A nil InstID means the string was not resolved.
type DeptMapping struct {
	Original string  `yaml:"original"`
	InstID   *string `yaml:"instid"`
}

// ReportDocument is the run-level summary of department resolutions,
// written once after all asset documents.
type ReportDocument struct {
	Type                string        `yaml:"type"`
	OriginalDeptMapping []DeptMapping `yaml:"original_dept_mapping"`
}

// UploadResult is the outcome of submitting one asset record to the
// backend. DestID is set only on success, Error only on failure.
type UploadResult struct {
	Type       string         `yaml:"type"`
	StatusCode int            `yaml:"status_code"`
	SourceID   string         `yaml:"source_id"`
	DestID     *string        `yaml:"dest_id,omitempty"`
	Error      map[string]any `yaml:"error,omitempty"`
}

// Succeeded reports whether the result carries a backend-assigned id.
func (r *UploadResult) Succeeded() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300 && r.DestID != nil
}
