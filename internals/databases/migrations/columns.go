package migrations

import "strings"

const ApplicationsTable = "applications"

// ExpectedColumn is one column of the canonical applications schema.
// Types are written for postgres; sqlType adapts them for sqlite.
type ExpectedColumn struct {
	Name     string
	Type     string
	Nullable bool
	Default  string // constant SQL literal used as the column default
	Backfill string // SQL expression for existing rows; falls back to Default
}

func (c ExpectedColumn) backfill() string {
	if c.Backfill != "" {
		return c.Backfill
	}
	return c.Default
}

func (c ExpectedColumn) sqlType(dialect string) string {
	if dialect == "postgres" {
		return c.Type
	}
	switch t := strings.ToUpper(c.Type); {
	case strings.HasSuffix(t, "[]"):
		return "TEXT"
	case t == "JSONB":
		return "JSON"
	case t == "TIMESTAMPTZ":
		return "DATETIME"
	default:
		return c.Type
	}
}

// ExpectedColumns lists every column except the surrogate id, in table order.
var ExpectedColumns = []ExpectedColumn{
	{Name: "reference_code", Type: "VARCHAR(32)", Backfill: "'LEGACY-' || id"},
	{Name: "full_name", Type: "VARCHAR(255)", Default: "''"},
	{Name: "email", Type: "VARCHAR(255)", Default: "''"},
	{Name: "mobile", Type: "VARCHAR(20)", Default: "''"},
	{Name: "alt_mobile", Type: "VARCHAR(20)", Nullable: true},
	{Name: "dob", Type: "DATE", Default: "'1970-01-01'"},
	{Name: "parent_name", Type: "VARCHAR(255)", Default: "''"},
	{Name: "gender", Type: "VARCHAR(50)", Default: "''"},
	{Name: "nationality", Type: "VARCHAR(100)", Default: "''"},
	{Name: "marital_status", Type: "VARCHAR(50)", Nullable: true},
	{Name: "national_id", Type: "VARCHAR(50)", Nullable: true},
	{Name: "tax_id", Type: "VARCHAR(50)", Nullable: true},
	{Name: "emergency_contact", Type: "VARCHAR(255)", Default: "''"},

	{Name: "current_address", Type: "TEXT", Default: "''"},
	{Name: "permanent_address", Type: "TEXT", Default: "''"},
	{Name: "state", Type: "VARCHAR(100)", Default: "''"},
	{Name: "city", Type: "VARCHAR(100)", Default: "''"},
	{Name: "zipcode", Type: "VARCHAR(20)", Default: "''"},

	{Name: "linkedin", Type: "VARCHAR(255)", Nullable: true},
	{Name: "github", Type: "VARCHAR(255)", Nullable: true},
	{Name: "portfolio", Type: "VARCHAR(255)", Nullable: true},

	{Name: "ssc_board", Type: "VARCHAR(255)", Default: "''"},
	{Name: "ssc_year", Type: "INTEGER", Default: "0"},
	{Name: "ssc_percentage", Type: "VARCHAR(10)", Default: "''"},
	{Name: "intermediate_board", Type: "VARCHAR(255)", Nullable: true},
	{Name: "intermediate_year", Type: "INTEGER", Nullable: true},
	{Name: "intermediate_percentage", Type: "VARCHAR(10)", Nullable: true},
	{Name: "college_name", Type: "VARCHAR(255)", Nullable: true},
	{Name: "qualification", Type: "VARCHAR(255)", Nullable: true},
	{Name: "branch", Type: "VARCHAR(255)", Nullable: true},
	{Name: "graduation_year", Type: "INTEGER", Nullable: true},
	{Name: "graduation_percentage", Type: "VARCHAR(10)", Nullable: true},
	{Name: "additional_education", Type: "JSONB", Default: "'[]'"},

	{Name: "job_role", Type: "VARCHAR(255)", Default: "''"},
	{Name: "preferred_location", Type: "VARCHAR(255)", Default: "''"},
	{Name: "notice_period", Type: "VARCHAR(100)", Default: "''"},
	{Name: "expected_salary", Type: "NUMERIC", Nullable: true},
	{Name: "skills", Type: "TEXT", Default: "''"},
	{Name: "technical_skills", Type: "TEXT[]", Nullable: true, Default: "'{}'"},
	{Name: "certifications", Type: "TEXT", Nullable: true},

	{Name: "experience_status", Type: "VARCHAR(50)", Default: "'Fresher'"},
	{Name: "years_experience", Type: "INTEGER", Nullable: true},
	{Name: "company_name", Type: "VARCHAR(255)", Nullable: true},
	{Name: "designation", Type: "VARCHAR(255)", Nullable: true},
	{Name: "work_location", Type: "VARCHAR(255)", Nullable: true},
	{Name: "start_date", Type: "VARCHAR(20)", Nullable: true},
	{Name: "end_date", Type: "VARCHAR(20)", Nullable: true},
	{Name: "last_salary", Type: "NUMERIC", Nullable: true},

	{Name: "reference_details", Type: "JSONB", Default: "'[]'"},

	{Name: "resume_path", Type: "VARCHAR(255)", Default: "''"},
	{Name: "cover_letter_path", Type: "VARCHAR(255)", Nullable: true},
	{Name: "photo_path", Type: "VARCHAR(255)", Nullable: true},
	{Name: "id_proof_path", Type: "VARCHAR(255)", Nullable: true},
	{Name: "certificate_paths", Type: "TEXT[]", Nullable: true, Default: "'{}'"},

	{Name: "agree_terms", Type: "BOOLEAN", Default: "FALSE"},
	{Name: "status", Type: "VARCHAR(50)", Default: "'Pending'"},
	{Name: "submission_date", Type: "TIMESTAMPTZ", Backfill: "CURRENT_TIMESTAMP"},
	{Name: "updated_at", Type: "TIMESTAMPTZ", Nullable: true, Backfill: "CURRENT_TIMESTAMP"},
}
