// file: internals/features/applications/dto/application_dto.go
package dto

import (
	"path/filepath"
	"strings"
	"time"

	"jobintake_backend/internals/features/applications/model"
	helper "jobintake_backend/internals/helpers"
)

// FilesRoute is the public prefix attachments are served under.
const FilesRoute = "/api/files/"

/* =========================
   REQUEST
   ========================= */

type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
}

// Normalize trims the status and validates it against the enum.
func (r *UpdateStatusRequest) Normalize() (model.ApplicationStatus, error) {
	r.Status = strings.TrimSpace(r.Status)
	if err := validate.Struct(r); err != nil {
		return "", helper.MissingFieldsError([]string{"status"})
	}
	st := model.ApplicationStatus(r.Status)
	if !st.Valid() {
		return "", helper.NewInvalidArgument("Invalid status. Allowed: " + allowedStatuses())
	}
	return st, nil
}

func allowedStatuses() string {
	parts := make([]string, 0, len(model.AllStatuses))
	for _, s := range model.AllStatuses {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}

// ParseStatusFilter accepts an empty filter or one of the enum values.
func ParseStatusFilter(s string) (*model.ApplicationStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	st := model.ApplicationStatus(s)
	if !st.Valid() {
		return nil, helper.NewInvalidArgument("Invalid status filter. Allowed: " + allowedStatuses())
	}
	return &st, nil
}

/* =========================
   RESPONSE (detail)
   ========================= */

type AttachmentURLs struct {
	Resume       *string  `json:"resume"`
	CoverLetter  *string  `json:"cover_letter"`
	Photo        *string  `json:"photo"`
	IDProof      *string  `json:"id_proof"`
	Certificates []string `json:"certificates"`
}

type ApplicationResponse struct {
	ID            uint   `json:"id"`
	ReferenceCode string `json:"reference_code"`

	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	Mobile           string  `json:"mobile"`
	AltMobile        *string `json:"alt_mobile"`
	DOB              string  `json:"dob"`
	ParentName       string  `json:"parent_name"`
	Gender           string  `json:"gender"`
	Nationality      string  `json:"nationality"`
	MaritalStatus    *string `json:"marital_status"`
	NationalID       *string `json:"national_id"`
	TaxID            *string `json:"tax_id"`
	EmergencyContact string  `json:"emergency_contact"`

	CurrentAddress   string `json:"current_address"`
	PermanentAddress string `json:"permanent_address"`
	State            string `json:"state"`
	City             string `json:"city"`
	Zipcode          string `json:"zipcode"`

	LinkedIn  *string `json:"linkedin"`
	GitHub    *string `json:"github"`
	Portfolio *string `json:"portfolio"`

	SSCBoard               string                 `json:"ssc_board"`
	SSCYear                int                    `json:"ssc_year"`
	SSCPercentage          string                 `json:"ssc_percentage"`
	IntermediateBoard      *string                `json:"intermediate_board"`
	IntermediateYear       *int                   `json:"intermediate_year"`
	IntermediatePercentage *string                `json:"intermediate_percentage"`
	CollegeName            *string                `json:"college_name"`
	Qualification          *string                `json:"qualification"`
	Branch                 *string                `json:"branch"`
	GraduationYear         *int                   `json:"graduation_year"`
	GraduationPercentage   *string                `json:"graduation_percentage"`
	AdditionalEducation    []model.EducationEntry `json:"additional_education"`

	JobRole           string   `json:"job_role"`
	PreferredLocation string   `json:"preferred_location"`
	NoticePeriod      string   `json:"notice_period"`
	ExpectedSalary    *float64 `json:"expected_salary"`
	Skills            string   `json:"skills"`
	TechnicalSkills   []string `json:"technical_skills"`
	Certifications    *string  `json:"certifications"`

	ExperienceStatus string   `json:"experience_status"`
	YearsExperience  *int     `json:"years_experience"`
	CompanyName      *string  `json:"company_name"`
	Designation      *string  `json:"designation"`
	WorkLocation     *string  `json:"work_location"`
	StartDate        *string  `json:"start_date"`
	EndDate          *string  `json:"end_date"`
	LastSalary       *float64 `json:"last_salary"`

	ReferenceDetails []model.ReferenceEntry `json:"reference_details"`

	ResumePath       string         `json:"resume_path"`
	CoverLetterPath  *string        `json:"cover_letter_path"`
	PhotoPath        *string        `json:"photo_path"`
	IDProofPath      *string        `json:"id_proof_path"`
	CertificatePaths []string       `json:"certificate_paths"`
	Files            AttachmentURLs `json:"files"`

	AgreeTerms     bool      `json:"agree_terms"`
	Status         string    `json:"status"`
	SubmissionDate time.Time `json:"submission_date"`
	UpdatedAt      time.Time `json:"updated_at"`
}

/* =========================
   RESPONSE (list)
   ========================= */

type ApplicationSummaryResponse struct {
	ID               uint      `json:"id"`
	ReferenceCode    string    `json:"reference_code"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Mobile           string    `json:"mobile"`
	JobRole          string    `json:"job_role"`
	ExperienceStatus string    `json:"experience_status"`
	Status           string    `json:"status"`
	SubmissionDate   time.Time `json:"submission_date"`
	ResumePath       string    `json:"resume_path"`
	CoverLetterPath  *string   `json:"cover_letter_path"`
	PhotoPath        *string   `json:"photo_path"`
	IDProofPath      *string   `json:"id_proof_path"`
}

/* =========================
   MAPPER
   ========================= */

// FileURL turns a stored path into its public URL. Legacy rows that kept
// the upload dir prefix are reduced to the base name.
func FileURL(stored string) string {
	return FilesRoute + filepath.Base(strings.ReplaceAll(stored, "\\", "/"))
}

func fileURLPtr(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	u := FileURL(*p)
	return &u
}

func FromModel(m *model.ApplicationModel) ApplicationResponse {
	education := []model.EducationEntry(m.AdditionalEducation)
	if education == nil {
		education = []model.EducationEntry{}
	}
	refs := []model.ReferenceEntry(m.ReferenceDetails)
	if refs == nil {
		refs = []model.ReferenceEntry{}
	}
	skills := []string(m.TechnicalSkills)
	if skills == nil {
		skills = []string{}
	}
	certs := []string(m.CertificatePaths)
	if certs == nil {
		certs = []string{}
	}
	certURLs := make([]string, 0, len(certs))
	for _, p := range certs {
		certURLs = append(certURLs, FileURL(p))
	}

	var resumeURL *string
	if m.ResumePath != "" {
		u := FileURL(m.ResumePath)
		resumeURL = &u
	}

	dob := ""
	if !m.DOB.IsZero() {
		dob = m.DOB.Format("2006-01-02")
	}

	return ApplicationResponse{
		ID:            m.ID,
		ReferenceCode: m.ReferenceCode,

		FullName:         m.FullName,
		Email:            m.Email,
		Mobile:           m.Mobile,
		AltMobile:        m.AltMobile,
		DOB:              dob,
		ParentName:       m.ParentName,
		Gender:           m.Gender,
		Nationality:      m.Nationality,
		MaritalStatus:    m.MaritalStatus,
		NationalID:       m.NationalID,
		TaxID:            m.TaxID,
		EmergencyContact: m.EmergencyContact,

		CurrentAddress:   m.CurrentAddress,
		PermanentAddress: m.PermanentAddress,
		State:            m.State,
		City:             m.City,
		Zipcode:          m.Zipcode,

		LinkedIn:  m.LinkedIn,
		GitHub:    m.GitHub,
		Portfolio: m.Portfolio,

		SSCBoard:               m.SSCBoard,
		SSCYear:                m.SSCYear,
		SSCPercentage:          m.SSCPercentage,
		IntermediateBoard:      m.IntermediateBoard,
		IntermediateYear:       m.IntermediateYear,
		IntermediatePercentage: m.IntermediatePercentage,
		CollegeName:            m.CollegeName,
		Qualification:          m.Qualification,
		Branch:                 m.Branch,
		GraduationYear:         m.GraduationYear,
		GraduationPercentage:   m.GraduationPercentage,
		AdditionalEducation:    education,

		JobRole:           m.JobRole,
		PreferredLocation: m.PreferredLocation,
		NoticePeriod:      m.NoticePeriod,
		ExpectedSalary:    m.ExpectedSalary,
		Skills:            m.Skills,
		TechnicalSkills:   skills,
		Certifications:    m.Certifications,

		ExperienceStatus: string(m.ExperienceStatus),
		YearsExperience:  m.YearsExperience,
		CompanyName:      m.CompanyName,
		Designation:      m.Designation,
		WorkLocation:     m.WorkLocation,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		LastSalary:       m.LastSalary,

		ReferenceDetails: refs,

		ResumePath:       m.ResumePath,
		CoverLetterPath:  m.CoverLetterPath,
		PhotoPath:        m.PhotoPath,
		IDProofPath:      m.IDProofPath,
		CertificatePaths: certs,
		Files: AttachmentURLs{
			Resume:       resumeURL,
			CoverLetter:  fileURLPtr(m.CoverLetterPath),
			Photo:        fileURLPtr(m.PhotoPath),
			IDProof:      fileURLPtr(m.IDProofPath),
			Certificates: certURLs,
		},

		AgreeTerms:     m.AgreeTerms,
		Status:         string(m.Status),
		SubmissionDate: m.SubmissionDate,
		UpdatedAt:      m.UpdatedAt,
	}
}

func FromSummaries(rows []model.ApplicationSummary) []ApplicationSummaryResponse {
	out := make([]ApplicationSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ApplicationSummaryResponse{
			ID:               r.ID,
			ReferenceCode:    r.ReferenceCode,
			FullName:         r.FullName,
			Email:            r.Email,
			Mobile:           r.Mobile,
			JobRole:          r.JobRole,
			ExperienceStatus: string(r.ExperienceStatus),
			Status:           string(r.Status),
			SubmissionDate:   r.SubmissionDate,
			ResumePath:       r.ResumePath,
			CoverLetterPath:  r.CoverLetterPath,
			PhotoPath:        r.PhotoPath,
			IDProofPath:      r.IDProofPath,
		})
	}
	return out
}
