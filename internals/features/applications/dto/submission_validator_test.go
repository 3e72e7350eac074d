package dto

import (
	"encoding/json"
	"mime/multipart"
	"testing"
	"time"

	"jobintake_backend/internals/features/applications/model"
	helper "jobintake_backend/internals/helpers"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func validValues() map[string]string {
	return map[string]string{
		"full_name":          "John Doe",
		"email":              "John@Example.com",
		"mobile":             "+1 (555) 123-4567",
		"dob":                "1995-05-15",
		"parent_name":        "Robert Doe",
		"gender":             "Male",
		"nationality":        "Indian",
		"current_address":    "1 Main St",
		"permanent_address":  "1 Main St",
		"state":              "Telangana",
		"city":               "Hyderabad",
		"zipcode":            "500001",
		"emergency_contact":  "9876543210",
		"ssc_board":          "CBSE",
		"ssc_year":           "2011",
		"ssc_percentage":     "85.5",
		"job_role":           "Backend Developer",
		"preferred_location": "Remote",
		"notice_period":      "30 days",
		"skills":             "Go, SQL",
		"experience_status":  "Fresher",
		"agree_terms":        "on",
	}
}

func validRaw() RawSubmission {
	return RawSubmission{Values: validValues()}
}

func appErr(t *testing.T, err error) *helper.AppError {
	t.Helper()
	ae, ok := err.(*helper.AppError)
	if !ok {
		t.Fatalf("err = %T %v, want *AppError", err, err)
	}
	return ae
}

func TestValidateSubmissionHappyPath(t *testing.T) {
	raw := validRaw()
	raw.Values["technical_skills"] = "Go, Docker, go"
	raw.Values["technical_skill1"] = "Kubernetes"
	raw.Values["alt_mobile"] = ""

	m, err := ValidateSubmission(raw, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Email != "john@example.com" {
		t.Errorf("email = %q", m.Email)
	}
	if m.Mobile != "15551234567" {
		t.Errorf("mobile = %q", m.Mobile)
	}
	if m.SSCYear != 2011 {
		t.Errorf("ssc_year = %d", m.SSCYear)
	}
	if m.AltMobile != nil || m.IntermediateYear != nil || m.ExpectedSalary != nil || m.CompanyName != nil {
		t.Error("blank optional fields should be nil")
	}
	if got := []string(m.TechnicalSkills); len(got) != 3 || got[2] != "Kubernetes" {
		t.Errorf("technical_skills = %v", got)
	}
	if m.AdditionalEducation == nil || len(m.AdditionalEducation) != 0 {
		t.Errorf("additional_education = %#v", m.AdditionalEducation)
	}
	if m.ReferenceDetails == nil {
		t.Error("reference_details should be an empty list")
	}
	if !m.AgreeTerms || m.Status != model.StatusPending {
		t.Errorf("agree_terms=%v status=%q", m.AgreeTerms, m.Status)
	}
	if m.DOB.Format("2006-01-02") != "1995-05-15" {
		t.Errorf("dob = %v", m.DOB)
	}
}

func TestMissingRequiredCollectsAll(t *testing.T) {
	raw := validRaw()
	delete(raw.Values, "full_name")
	raw.Values["city"] = "   "

	_, err := ValidateSubmission(raw, testNow)
	ae := appErr(t, err)
	if ae.Kind != helper.KindValidation {
		t.Fatalf("kind = %s", ae.Kind)
	}
	if len(ae.Missing) != 2 || ae.Missing[0] != "full_name" || ae.Missing[1] != "city" {
		t.Fatalf("missing = %v", ae.Missing)
	}
}

func TestFormatRules(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
	}{
		{"bad email", "email", "not-an-email"},
		{"short mobile", "mobile", "123"},
		{"letters in mobile", "mobile", "98765abcde"},
		{"non numeric percentage", "ssc_percentage", "eighty"},
		{"unknown experience status", "experience_status", "Senior"},
		{"bad reference email", "reference_email", "nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			raw.Values[tc.field] = tc.value
			_, err := ValidateSubmission(raw, testNow)
			ae := appErr(t, err)
			if _, ok := ae.Fields[tc.field]; !ok {
				t.Fatalf("fields = %v, want %s", ae.Fields, tc.field)
			}
		})
	}
}

func TestPartialGroupRejected(t *testing.T) {
	raw := validRaw()
	raw.Values["college_name"] = "JNTU"
	raw.Values["graduation_year"] = "2016"

	_, err := ValidateSubmission(raw, testNow)
	ae := appErr(t, err)
	missing, ok := ae.Fields["graduation"]
	if !ok {
		t.Fatalf("fields = %v", ae.Fields)
	}
	if len(missing) != 3 {
		t.Fatalf("graduation missing = %v", missing)
	}
}

func TestExperiencedRequiresExperienceGroup(t *testing.T) {
	raw := validRaw()
	raw.Values["experience_status"] = "Experienced"
	raw.Values["company_name"] = "Acme"

	_, err := ValidateSubmission(raw, testNow)
	ae := appErr(t, err)
	if got := ae.Fields["experience"]; len(got) != 6 {
		t.Fatalf("experience missing = %v", got)
	}

	for k, v := range map[string]string{
		"years_experience": "4",
		"designation":      "Engineer",
		"work_location":    "Pune",
		"start_date":       "2020-01",
		"end_date":         "2024-03-31",
		"last_salary":      "1,200,000",
	} {
		raw.Values[k] = v
	}
	m, err := ValidateSubmission(raw, testNow)
	if err != nil {
		t.Fatalf("complete experience group: %v", err)
	}
	if m.YearsExperience == nil || *m.YearsExperience != 4 {
		t.Errorf("years_experience = %v", m.YearsExperience)
	}
	if m.LastSalary == nil || *m.LastSalary != 1200000 {
		t.Errorf("last_salary = %v", m.LastSalary)
	}
}

func TestCoercionErrors(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]string
		field  string
	}{
		{"fractional year", map[string]string{"ssc_year": "2011.5"}, "ssc_year"},
		{"year out of range", map[string]string{"ssc_year": "1899"}, "ssc_year"},
		{"bad dob", map[string]string{"dob": "15/05/1995"}, "dob"},
		{"too young", map[string]string{"dob": "2010-01-01"}, "dob"},
		{"bad salary", map[string]string{"expected_salary": "lots"}, "expected_salary"},
		{"end before start", map[string]string{
			"experience_status": "Experienced", "company_name": "A", "designation": "B",
			"years_experience": "1", "work_location": "C", "start_date": "2023-05",
			"end_date": "2022-01", "last_salary": "10",
		}, "end_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			for k, v := range tc.values {
				raw.Values[k] = v
			}
			_, err := ValidateSubmission(raw, testNow)
			ae := appErr(t, err)
			if _, ok := ae.Fields[tc.field]; !ok {
				t.Fatalf("fields = %v, want %s", ae.Fields, tc.field)
			}
		})
	}
}

func TestAgeBoundary(t *testing.T) {
	if got := ageOn(time.Date(2007, 6, 2, 0, 0, 0, 0, time.UTC), testNow); got != 17 {
		t.Fatalf("age = %d, want 17", got)
	}
	if got := ageOn(time.Date(2007, 6, 1, 0, 0, 0, 0, time.UTC), testNow); got != 18 {
		t.Fatalf("age = %d, want 18", got)
	}
}

func TestAdditionalEducation(t *testing.T) {
	t.Run("double encoded array", func(t *testing.T) {
		raw := validRaw()
		inner := `[{"institution":"IIT","qualification":"M.Tech","year":"2018","percentage":"78"}]`
		enc, _ := json.Marshal(inner)
		raw.AdditionalEducation = enc

		m, err := ValidateSubmission(raw, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if len(m.AdditionalEducation) != 1 || m.AdditionalEducation[0].Year != 2018 {
			t.Fatalf("education = %#v", m.AdditionalEducation)
		}
	})

	t.Run("incomplete entry rejects submission", func(t *testing.T) {
		raw := validRaw()
		raw.AdditionalEducation = json.RawMessage(`[
			{"institution":"IIT","qualification":"M.Tech","year":2018,"percentage":"78"},
			{"institution":"NIT","qualification":"","year":"2019"}
		]`)
		_, err := ValidateSubmission(raw, testNow)
		ae := appErr(t, err)
		if _, ok := ae.Fields["additional_education[1]"]; !ok {
			t.Fatalf("fields = %v", ae.Fields)
		}
		if _, ok := ae.Fields["additional_education[0]"]; ok {
			t.Fatal("complete entry flagged")
		}
	})

	t.Run("not an array", func(t *testing.T) {
		raw := validRaw()
		raw.AdditionalEducation = json.RawMessage(`{"institution":"IIT"}`)
		_, err := ValidateSubmission(raw, testNow)
		if !helper.IsKind(err, helper.KindValidation) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("non integer year", func(t *testing.T) {
		raw := validRaw()
		raw.AdditionalEducation = json.RawMessage(`[{"institution":"IIT","qualification":"M.Tech","year":"20x8","percentage":"78"}]`)
		_, err := ValidateSubmission(raw, testNow)
		ae := appErr(t, err)
		if len(ae.Fields["additional_education[0]"]) == 0 {
			t.Fatalf("fields = %v", ae.Fields)
		}
	})
}

func TestReferenceFallbackFields(t *testing.T) {
	raw := validRaw()
	raw.Values["reference_name"] = "Dr. Smith"
	raw.Values["reference_contact"] = "9999999999"
	raw.Values["reference_email"] = "Smith@Uni.edu"

	m, err := ValidateSubmission(raw, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.ReferenceDetails) != 1 || m.ReferenceDetails[0].Email != "smith@uni.edu" {
		t.Fatalf("refs = %#v", m.ReferenceDetails)
	}

	raw = validRaw()
	raw.ReferenceDetails = json.RawMessage(`[{"relation":"Manager"}]`)
	_, err = ValidateSubmission(raw, testNow)
	ae := appErr(t, err)
	if _, ok := ae.Fields["reference_details[0]"]; !ok {
		t.Fatalf("fields = %v", ae.Fields)
	}
}

func TestRawFromMultipartBracketNotation(t *testing.T) {
	form := &multipart.Form{Value: map[string][]string{
		"full_name":                               {"Jane"},
		"additional_education[0][institution]":    {"IIT"},
		"additional_education[0][qualification]":  {"M.Tech"},
		"additional_education[0][year]":           {"2018"},
		"additional_education[0][percentage]":     {"78"},
		"technical_skills[]":                      {"Go", "Rust"},
	}}
	raw := RawFromMultipart(form)
	if raw.Get("full_name") != "Jane" {
		t.Fatalf("values = %v", raw.Values)
	}
	if raw.Get("technical_skills") != "Go,Rust" {
		t.Fatalf("technical_skills = %q", raw.Get("technical_skills"))
	}
	objs, err := decodeObjectList(keyAdditionalEducation, raw.AdditionalEducation)
	if err != nil || len(objs) != 1 || objs[0]["institution"] != "IIT" {
		t.Fatalf("education = %v err=%v", objs, err)
	}
}

func TestRawFromMapStringifiesScalars(t *testing.T) {
	raw := RawFromMap(map[string]any{
		"ssc_year":             float64(2011),
		"agree_terms":          true,
		"technical_skills":     []any{"Go", "SQL"},
		"additional_education": []any{map[string]any{"institution": "IIT"}},
	})
	if raw.Get("ssc_year") != "2011" || raw.Get("agree_terms") != "true" {
		t.Fatalf("values = %v", raw.Values)
	}
	if raw.Get("technical_skills") != "Go,SQL" {
		t.Fatalf("technical_skills = %q", raw.Get("technical_skills"))
	}
	if len(raw.AdditionalEducation) == 0 {
		t.Fatal("additional_education not carried")
	}
}

func TestUpdateStatusRequest(t *testing.T) {
	req := UpdateStatusRequest{Status: " Under Review "}
	st, err := req.Normalize()
	if err != nil || st != model.StatusUnderReview {
		t.Fatalf("st=%q err=%v", st, err)
	}

	req = UpdateStatusRequest{Status: "approved"}
	if _, err := req.Normalize(); !helper.IsKind(err, helper.KindInvalidArgument) {
		t.Fatalf("lowercase status should be rejected, got %v", err)
	}

	req = UpdateStatusRequest{}
	if _, err := req.Normalize(); !helper.IsKind(err, helper.KindValidation) {
		t.Fatalf("empty status err = %v", err)
	}
}

func TestFromModelNeverNullLists(t *testing.T) {
	m := &model.ApplicationModel{ID: 7, ResumePath: "Uploads/resume-1.pdf", DOB: time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)}
	r := FromModel(m)
	if r.AdditionalEducation == nil || r.ReferenceDetails == nil || r.TechnicalSkills == nil || r.CertificatePaths == nil {
		t.Fatal("lists must be non-nil")
	}
	if r.DOB != "1990-01-02" {
		t.Fatalf("dob = %q", r.DOB)
	}
	if r.Files.Resume == nil || *r.Files.Resume != "/api/files/resume-1.pdf" {
		t.Fatalf("resume url = %v", r.Files.Resume)
	}
	if r.Files.Photo != nil {
		t.Fatal("absent photo should have nil url")
	}
}
