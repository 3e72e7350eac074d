// file: internals/features/applications/model/application_model.go
package model

import (
	"time"
)

/* =========================================================
   ENUM: ApplicationStatus
   ========================================================= */

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "Pending"
	StatusUnderReview ApplicationStatus = "Under Review"
	StatusApproved    ApplicationStatus = "Approved"
	StatusRejected    ApplicationStatus = "Rejected"
)

var AllStatuses = []ApplicationStatus{StatusPending, StatusUnderReview, StatusApproved, StatusRejected}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

/* =========================================================
   ENUM: ExperienceStatus
   ========================================================= */

type ExperienceStatus string

const (
	ExperienceFresher     ExperienceStatus = "Fresher"
	ExperienceExperienced ExperienceStatus = "Experienced"
)

func (e ExperienceStatus) Valid() bool {
	return e == ExperienceFresher || e == ExperienceExperienced
}

/* =========================================================
   Nested JSON entries
   ========================================================= */

type EducationEntry struct {
	Institution   string `json:"institution"`
	Qualification string `json:"qualification"`
	Branch        string `json:"branch,omitempty"`
	Year          int    `json:"year"`
	Percentage    string `json:"percentage"`
}

type ReferenceEntry struct {
	Name     string `json:"name"`
	Relation string `json:"relation,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Email    string `json:"email,omitempty"`
}

/* =========================================================
   MODEL: applications
   ========================================================= */

type ApplicationModel struct {
	ID            uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ReferenceCode string `gorm:"type:varchar(32);not null;uniqueIndex:idx_applications_reference_code;column:reference_code" json:"reference_code"`

	// Personal
	FullName         string    `gorm:"type:varchar(255);not null;column:full_name" json:"full_name"`
	Email            string    `gorm:"type:varchar(255);not null;unique;column:email" json:"email"`
	Mobile           string    `gorm:"type:varchar(20);not null;column:mobile" json:"mobile"`
	AltMobile        *string   `gorm:"type:varchar(20);column:alt_mobile" json:"alt_mobile"`
	DOB              time.Time `gorm:"type:date;not null;column:dob" json:"dob"`
	ParentName       string    `gorm:"type:varchar(255);not null;column:parent_name" json:"parent_name"`
	Gender           string    `gorm:"type:varchar(50);not null;column:gender" json:"gender"`
	Nationality      string    `gorm:"type:varchar(100);not null;column:nationality" json:"nationality"`
	MaritalStatus    *string   `gorm:"type:varchar(50);column:marital_status" json:"marital_status"`
	NationalID       *string   `gorm:"type:varchar(50);column:national_id" json:"national_id"`
	TaxID            *string   `gorm:"type:varchar(50);column:tax_id" json:"tax_id"`
	EmergencyContact string    `gorm:"type:varchar(255);not null;column:emergency_contact" json:"emergency_contact"`

	// Address
	CurrentAddress   string `gorm:"type:text;not null;column:current_address" json:"current_address"`
	PermanentAddress string `gorm:"type:text;not null;column:permanent_address" json:"permanent_address"`
	State            string `gorm:"type:varchar(100);not null;column:state" json:"state"`
	City             string `gorm:"type:varchar(100);not null;column:city" json:"city"`
	Zipcode          string `gorm:"type:varchar(20);not null;column:zipcode" json:"zipcode"`

	// Online profiles
	LinkedIn  *string `gorm:"type:varchar(255);column:linkedin" json:"linkedin"`
	GitHub    *string `gorm:"type:varchar(255);column:github" json:"github"`
	Portfolio *string `gorm:"type:varchar(255);column:portfolio" json:"portfolio"`

	// Education (primary record)
	SSCBoard               string  `gorm:"type:varchar(255);not null;column:ssc_board" json:"ssc_board"`
	SSCYear                int     `gorm:"type:integer;not null;column:ssc_year" json:"ssc_year"`
	SSCPercentage          string  `gorm:"type:varchar(10);not null;column:ssc_percentage" json:"ssc_percentage"`
	IntermediateBoard      *string `gorm:"type:varchar(255);column:intermediate_board" json:"intermediate_board"`
	IntermediateYear       *int    `gorm:"type:integer;column:intermediate_year" json:"intermediate_year"`
	IntermediatePercentage *string `gorm:"type:varchar(10);column:intermediate_percentage" json:"intermediate_percentage"`
	CollegeName            *string `gorm:"type:varchar(255);column:college_name" json:"college_name"`
	Qualification          *string `gorm:"type:varchar(255);column:qualification" json:"qualification"`
	Branch                 *string `gorm:"type:varchar(255);column:branch" json:"branch"`
	GraduationYear         *int    `gorm:"type:integer;column:graduation_year" json:"graduation_year"`
	GraduationPercentage   *string `gorm:"type:varchar(10);column:graduation_percentage" json:"graduation_percentage"`

	AdditionalEducation JSONList[EducationEntry] `gorm:"not null;column:additional_education" json:"additional_education"`

	// Job preferences
	JobRole           string   `gorm:"type:varchar(255);not null;column:job_role" json:"job_role"`
	PreferredLocation string   `gorm:"type:varchar(255);not null;column:preferred_location" json:"preferred_location"`
	NoticePeriod      string   `gorm:"type:varchar(100);not null;column:notice_period" json:"notice_period"`
	ExpectedSalary    *float64 `gorm:"type:numeric;column:expected_salary" json:"expected_salary"`
	Skills            string   `gorm:"type:text;not null;column:skills" json:"skills"`
	TechnicalSkills   TagList  `gorm:"column:technical_skills" json:"technical_skills"`
	Certifications    *string  `gorm:"type:text;column:certifications" json:"certifications"`

	// Experience
	ExperienceStatus ExperienceStatus `gorm:"type:varchar(50);not null;column:experience_status" json:"experience_status"`
	YearsExperience  *int             `gorm:"type:integer;column:years_experience" json:"years_experience"`
	CompanyName      *string          `gorm:"type:varchar(255);column:company_name" json:"company_name"`
	Designation      *string          `gorm:"type:varchar(255);column:designation" json:"designation"`
	WorkLocation     *string          `gorm:"type:varchar(255);column:work_location" json:"work_location"`
	StartDate        *string          `gorm:"type:varchar(20);column:start_date" json:"start_date"`
	EndDate          *string          `gorm:"type:varchar(20);column:end_date" json:"end_date"`
	LastSalary       *float64         `gorm:"type:numeric;column:last_salary" json:"last_salary"`

	// References
	ReferenceDetails JSONList[ReferenceEntry] `gorm:"not null;column:reference_details" json:"reference_details"`

	// Attachments (file names relative to the upload dir)
	ResumePath       string  `gorm:"type:varchar(255);not null;column:resume_path" json:"resume_path"`
	CoverLetterPath  *string `gorm:"type:varchar(255);column:cover_letter_path" json:"cover_letter_path"`
	PhotoPath        *string `gorm:"type:varchar(255);column:photo_path" json:"photo_path"`
	IDProofPath      *string `gorm:"type:varchar(255);column:id_proof_path" json:"id_proof_path"`
	CertificatePaths TagList `gorm:"column:certificate_paths" json:"certificate_paths"`

	// Admin
	AgreeTerms     bool              `gorm:"not null;default:false;column:agree_terms" json:"agree_terms"`
	Status         ApplicationStatus `gorm:"type:varchar(50);not null;default:'Pending';index:idx_applications_status;column:status" json:"status"`
	SubmissionDate time.Time         `gorm:"not null;index:idx_applications_submission_date;column:submission_date" json:"submission_date"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (ApplicationModel) TableName() string { return "applications" }

// AttachmentPaths returns every stored file name the row owns.
func (m *ApplicationModel) AttachmentPaths() []string {
	out := make([]string, 0, 4+len(m.CertificatePaths))
	if m.ResumePath != "" {
		out = append(out, m.ResumePath)
	}
	for _, p := range []*string{m.CoverLetterPath, m.PhotoPath, m.IDProofPath} {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	for _, p := range m.CertificatePaths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

/* =========================================================
   Attachment kinds (download-by-type)
   ========================================================= */

type AttachmentKind string

const (
	AttachmentResume      AttachmentKind = "resume"
	AttachmentCoverLetter AttachmentKind = "cover_letter"
	AttachmentPhoto       AttachmentKind = "photo"
	AttachmentIDProof     AttachmentKind = "id_proof"
)

// Column maps a download kind to its path column.
func (k AttachmentKind) Column() (string, bool) {
	switch k {
	case AttachmentResume:
		return "resume_path", true
	case AttachmentCoverLetter:
		return "cover_letter_path", true
	case AttachmentPhoto:
		return "photo_path", true
	case AttachmentIDProof:
		return "id_proof_path", true
	default:
		return "", false
	}
}

/* =========================================================
   Summary projection (list view)
   ========================================================= */

type ApplicationSummary struct {
	ID               uint              `gorm:"column:id"`
	ReferenceCode    string            `gorm:"column:reference_code"`
	FullName         string            `gorm:"column:full_name"`
	Email            string            `gorm:"column:email"`
	Mobile           string            `gorm:"column:mobile"`
	JobRole          string            `gorm:"column:job_role"`
	ExperienceStatus ExperienceStatus  `gorm:"column:experience_status"`
	Status           ApplicationStatus `gorm:"column:status"`
	SubmissionDate   time.Time         `gorm:"column:submission_date"`
	ResumePath       string            `gorm:"column:resume_path"`
	CoverLetterPath  *string           `gorm:"column:cover_letter_path"`
	PhotoPath        *string           `gorm:"column:photo_path"`
	IDProofPath      *string           `gorm:"column:id_proof_path"`
}

// SummaryColumns is the select list for ApplicationSummary.
var SummaryColumns = []string{
	"id", "reference_code", "full_name", "email", "mobile", "job_role",
	"experience_status", "status", "submission_date",
	"resume_path", "cover_letter_path", "photo_path", "id_proof_path",
}
