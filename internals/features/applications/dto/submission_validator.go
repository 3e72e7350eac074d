// file: internals/features/applications/dto/submission_validator.go
package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"jobintake_backend/internals/features/applications/model"
	helper "jobintake_backend/internals/helpers"
)

var validate = validator.New()

/* =========================================================
   Static field declarations
   ========================================================= */

// RequiredFields must be present and non-blank on every submission.
var RequiredFields = []string{
	"full_name", "email", "mobile", "dob", "parent_name", "gender", "nationality",
	"current_address", "permanent_address", "state", "city", "zipcode", "emergency_contact",
	"ssc_board", "ssc_year", "ssc_percentage",
	"job_role", "preferred_location", "notice_period", "skills",
	"experience_status",
}

type FieldGroup struct {
	Name   string
	Fields []string
}

// ConditionalGroups are all-or-nothing. The experience group is mandatory
// when experience_status is Experienced.
var ConditionalGroups = []FieldGroup{
	{Name: "intermediate", Fields: []string{"intermediate_board", "intermediate_year", "intermediate_percentage"}},
	{Name: "graduation", Fields: []string{"college_name", "qualification", "branch", "graduation_year", "graduation_percentage"}},
	{Name: "experience", Fields: []string{"years_experience", "company_name", "designation", "work_location", "start_date", "end_date", "last_salary"}},
}

var formatRules = []struct{ Field, Rule string }{
	{"full_name", "max=255"},
	{"email", "email,max=255"},
	{"mobile", "number,min=7,max=15"},
	{"alt_mobile", "omitempty,number,min=7,max=15"},
	{"emergency_contact", "number,min=7,max=15"},
	{"parent_name", "max=255"},
	{"gender", "max=50"},
	{"nationality", "max=100"},
	{"marital_status", "omitempty,max=50"},
	{"national_id", "omitempty,max=50"},
	{"tax_id", "omitempty,max=50"},
	{"state", "max=100"},
	{"city", "max=100"},
	{"zipcode", "max=20"},
	{"linkedin", "omitempty,max=255"},
	{"github", "omitempty,max=255"},
	{"portfolio", "omitempty,max=255"},
	{"ssc_board", "max=255"},
	{"ssc_percentage", "numeric,max=10"},
	{"intermediate_board", "omitempty,max=255"},
	{"intermediate_percentage", "omitempty,numeric,max=10"},
	{"college_name", "omitempty,max=255"},
	{"qualification", "omitempty,max=255"},
	{"branch", "omitempty,max=255"},
	{"graduation_percentage", "omitempty,numeric,max=10"},
	{"job_role", "max=255"},
	{"preferred_location", "max=255"},
	{"notice_period", "max=100"},
	{"experience_status", "oneof=Fresher Experienced"},
	{"company_name", "omitempty,max=255"},
	{"designation", "omitempty,max=255"},
	{"work_location", "omitempty,max=255"},
	{"reference_name", "omitempty,max=255"},
	{"reference_email", "omitempty,email,max=255"},
}

var phoneFields = []string{"mobile", "alt_mobile", "emergency_contact"}

const (
	minYear, maxYear = 1960, 2035
	minAge, maxAge   = 18, 70
)

var (
	strictInt     = regexp.MustCompile(`^\d+$`)
	strictDecimal = regexp.MustCompile(`^\d+(\.\d+)?$`)
	phoneNoise    = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

/* =========================================================
   Entry point
   ========================================================= */

// ValidateSubmission runs every stage in order and returns the first stage
// that fails. Within a stage all problems are collected. On success every
// optional column is either a value or an explicit nil.
func ValidateSubmission(raw RawSubmission, now time.Time) (*model.ApplicationModel, error) {
	raw = normalizeRaw(raw)

	if missing := missingRequired(raw); len(missing) > 0 {
		return nil, helper.MissingFieldsError(missing)
	}
	if fields := checkFormats(raw); len(fields) > 0 {
		return nil, helper.FieldRulesError(fields)
	}
	if err := checkGroups(raw); err != nil {
		return nil, err
	}

	c := &coercer{raw: raw, fields: map[string][]string{}}
	m := c.build(now)
	if len(c.fields) > 0 {
		return nil, helper.FieldRulesError(c.fields)
	}

	education, err := decodeEducation(raw.AdditionalEducation)
	if err != nil {
		return nil, err
	}
	refs, err := decodeReferences(raw)
	if err != nil {
		return nil, err
	}
	m.AdditionalEducation = education
	m.ReferenceDetails = refs
	return m, nil
}

func normalizeRaw(raw RawSubmission) RawSubmission {
	values := make(map[string]string, len(raw.Values))
	for k, v := range raw.Values {
		values[k] = strings.TrimSpace(v)
	}
	for _, f := range phoneFields {
		if v := values[f]; v != "" {
			values[f] = strings.TrimPrefix(phoneNoise.Replace(v), "+")
		}
	}
	raw.Values = values
	return raw
}

/* =========================================================
   Stage 1: required
   ========================================================= */

func missingRequired(raw RawSubmission) []string {
	var missing []string
	for _, f := range RequiredFields {
		if !raw.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

/* =========================================================
   Stage 2: formats
   ========================================================= */

func checkFormats(raw RawSubmission) map[string][]string {
	fields := map[string][]string{}
	for _, r := range formatRules {
		if err := validate.Var(raw.Get(r.Field), r.Rule); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					fields[r.Field] = append(fields[r.Field], fe.Tag())
				}
				continue
			}
			fields[r.Field] = append(fields[r.Field], "invalid")
		}
	}
	return fields
}

/* =========================================================
   Stage 3: conditional groups
   ========================================================= */

func checkGroups(raw RawSubmission) error {
	experienced := model.ExperienceStatus(raw.Get("experience_status")) == model.ExperienceExperienced

	fields := map[string][]string{}
	var missingAll, parts []string
	for _, g := range ConditionalGroups {
		var present, missing []string
		for _, f := range g.Fields {
			if raw.Has(f) {
				present = append(present, f)
			} else {
				missing = append(missing, f)
			}
		}
		mandatory := g.Name == "experience" && experienced
		if len(missing) == 0 || (len(present) == 0 && !mandatory) {
			continue
		}
		fields[g.Name] = missing
		missingAll = append(missingAll, missing...)
		parts = append(parts, fmt.Sprintf("%s (missing %s)", g.Name, strings.Join(missing, ", ")))
	}
	if len(parts) == 0 {
		return nil
	}
	return &helper.AppError{
		Kind:    helper.KindValidation,
		Message: "Incomplete details for " + strings.Join(parts, "; "),
		Missing: missingAll,
		Fields:  fields,
	}
}

/* =========================================================
   Stage 4: coercion + model build
   ========================================================= */

type coercer struct {
	raw    RawSubmission
	fields map[string][]string
}

func (c *coercer) fail(field, msg string) {
	c.fields[field] = append(c.fields[field], msg)
}

func (c *coercer) str(name string) string { return c.raw.Get(name) }

func (c *coercer) opt(name string) *string {
	if v := c.raw.Get(name); v != "" {
		return &v
	}
	return nil
}

// intField applies the strict-integer rule. Blank maps to nil; callers
// only pass required names after stage 1 guaranteed presence.
func (c *coercer) intField(name string, lo, hi int) *int {
	v := c.raw.Get(name)
	if v == "" {
		return nil
	}
	if !strictInt.MatchString(v) {
		c.fail(name, fmt.Sprintf("must be a whole number, got %q", v))
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.fail(name, fmt.Sprintf("must be a whole number, got %q", v))
		return nil
	}
	if n < lo || n > hi {
		c.fail(name, fmt.Sprintf("must be between %d and %d, got %d", lo, hi, n))
		return nil
	}
	return &n
}

func (c *coercer) decimalField(name string) *float64 {
	v := strings.ReplaceAll(c.raw.Get(name), ",", "")
	if v == "" {
		return nil
	}
	if !strictDecimal.MatchString(v) {
		c.fail(name, fmt.Sprintf("must be a non-negative number, got %q", c.raw.Get(name)))
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.fail(name, fmt.Sprintf("must be a non-negative number, got %q", c.raw.Get(name)))
		return nil
	}
	return &f
}

func (c *coercer) dob(now time.Time) time.Time {
	v := c.raw.Get("dob")
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		c.fail("dob", fmt.Sprintf("must be YYYY-MM-DD, got %q", v))
		return time.Time{}
	}
	age := ageOn(d, now)
	if age < minAge || age > maxAge {
		c.fail("dob", fmt.Sprintf("applicant age must be between %d and %d, got %d", minAge, maxAge, age))
	}
	return d
}

func ageOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func parseMonthOrDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (c *coercer) experienceDates() (start, end *string) {
	start, end = c.opt("start_date"), c.opt("end_date")
	var st, et time.Time
	var okS, okE bool
	if start != nil {
		if st, okS = parseMonthOrDate(*start); !okS {
			c.fail("start_date", fmt.Sprintf("must be YYYY-MM or YYYY-MM-DD, got %q", *start))
		}
	}
	if end != nil {
		if et, okE = parseMonthOrDate(*end); !okE {
			c.fail("end_date", fmt.Sprintf("must be YYYY-MM or YYYY-MM-DD, got %q", *end))
		}
	}
	if okS && okE && et.Before(st) {
		c.fail("end_date", "must not be before start_date")
	}
	return start, end
}

func (c *coercer) build(now time.Time) *model.ApplicationModel {
	m := &model.ApplicationModel{
		FullName:         c.str("full_name"),
		Email:            strings.ToLower(c.str("email")),
		Mobile:           c.str("mobile"),
		AltMobile:        c.opt("alt_mobile"),
		ParentName:       c.str("parent_name"),
		Gender:           c.str("gender"),
		Nationality:      c.str("nationality"),
		MaritalStatus:    c.opt("marital_status"),
		NationalID:       c.opt("national_id"),
		TaxID:            c.opt("tax_id"),
		EmergencyContact: c.str("emergency_contact"),

		CurrentAddress:   c.str("current_address"),
		PermanentAddress: c.str("permanent_address"),
		State:            c.str("state"),
		City:             c.str("city"),
		Zipcode:          c.str("zipcode"),

		LinkedIn:  c.opt("linkedin"),
		GitHub:    c.opt("github"),
		Portfolio: c.opt("portfolio"),

		SSCBoard:               c.str("ssc_board"),
		SSCPercentage:          c.str("ssc_percentage"),
		IntermediateBoard:      c.opt("intermediate_board"),
		IntermediatePercentage: c.opt("intermediate_percentage"),
		CollegeName:            c.opt("college_name"),
		Qualification:          c.opt("qualification"),
		Branch:                 c.opt("branch"),
		GraduationPercentage:   c.opt("graduation_percentage"),

		JobRole:           c.str("job_role"),
		PreferredLocation: c.str("preferred_location"),
		NoticePeriod:      c.str("notice_period"),
		Skills:            c.str("skills"),
		TechnicalSkills:   technicalSkills(c.raw),
		Certifications:    c.opt("certifications"),

		ExperienceStatus: model.ExperienceStatus(c.str("experience_status")),
		CompanyName:      c.opt("company_name"),
		Designation:      c.opt("designation"),
		WorkLocation:     c.opt("work_location"),

		CertificatePaths: model.TagList{},
		AgreeTerms:       parseLooseBool(c.str("agree_terms")),
		Status:           model.StatusPending,
	}

	m.DOB = c.dob(now)
	if v := c.intField("ssc_year", minYear, maxYear); v != nil {
		m.SSCYear = *v
	}
	m.IntermediateYear = c.intField("intermediate_year", minYear, maxYear)
	m.GraduationYear = c.intField("graduation_year", minYear, maxYear)
	m.YearsExperience = c.intField("years_experience", 0, 60)
	m.ExpectedSalary = c.decimalField("expected_salary")
	m.LastSalary = c.decimalField("last_salary")
	m.StartDate, m.EndDate = c.experienceDates()
	return m
}

// technicalSkills merges the comma list with the technical_skill1/2 inputs,
// dropping case-insensitive duplicates.
func technicalSkills(raw RawSubmission) model.TagList {
	out := model.TagList{}
	seen := map[string]bool{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}
	for _, s := range strings.Split(raw.Get(keyTechnicalSkills), ",") {
		add(s)
	}
	add(raw.Get("technical_skill1"))
	add(raw.Get("technical_skill2"))
	return out
}

func parseLooseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes", "y":
		return true
	default:
		return false
	}
}

/* =========================================================
   Stage 5: nested JSON lists
   ========================================================= */

// decodeObjectList accepts a JSON array, or a JSON string holding one.
func decodeObjectList(field string, raw json.RawMessage) ([]map[string]any, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, helper.FieldRulesError(map[string][]string{field: {"must be a JSON array"}})
	}
	if inner, ok := v.(string); ok {
		if strings.TrimSpace(inner) == "" {
			return nil, nil
		}
		if err := json.Unmarshal([]byte(inner), &v); err != nil {
			return nil, helper.FieldRulesError(map[string][]string{field: {"must be a JSON array"}})
		}
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, helper.FieldRulesError(map[string][]string{field: {"must be a JSON array"}})
	}
	out := make([]map[string]any, 0, len(arr))
	for i, it := range arr {
		obj, ok := it.(map[string]any)
		if !ok {
			return nil, helper.FieldRulesError(map[string][]string{
				fmt.Sprintf("%s[%d]", field, i): {"must be an object"},
			})
		}
		out = append(out, obj)
	}
	return out, nil
}

// decodeEducation rejects the whole submission if any entry lacks one of
// institution, qualification, year or percentage.
func decodeEducation(raw json.RawMessage) (model.JSONList[model.EducationEntry], error) {
	objs, err := decodeObjectList(keyAdditionalEducation, raw)
	if err != nil {
		return nil, err
	}
	out := make(model.JSONList[model.EducationEntry], 0, len(objs))
	fields := map[string][]string{}
	var bad []string

	for i, obj := range objs {
		key := fmt.Sprintf("%s[%d]", keyAdditionalEducation, i)
		get := func(k string) string { return stringify(obj[k]) }

		var problems []string
		for _, req := range []string{"institution", "qualification", "year", "percentage"} {
			if get(req) == "" {
				problems = append(problems, "missing "+req)
			}
		}
		year := 0
		if y := get("year"); y != "" {
			n, err := strconv.Atoi(y)
			switch {
			case !strictInt.MatchString(y) || err != nil:
				problems = append(problems, fmt.Sprintf("year must be a whole number, got %q", y))
			case n < minYear || n > maxYear:
				problems = append(problems, fmt.Sprintf("year must be between %d and %d", minYear, maxYear))
			default:
				year = n
			}
		}
		if p := get("percentage"); p != "" && validate.Var(p, "numeric") != nil {
			problems = append(problems, fmt.Sprintf("percentage must be numeric, got %q", p))
		}
		if len(problems) > 0 {
			fields[key] = problems
			bad = append(bad, strconv.Itoa(i+1))
			continue
		}
		out = append(out, model.EducationEntry{
			Institution:   get("institution"),
			Qualification: get("qualification"),
			Branch:        get("branch"),
			Year:          year,
			Percentage:    get("percentage"),
		})
	}
	if len(fields) > 0 {
		return nil, &helper.AppError{
			Kind:    helper.KindValidation,
			Message: "Incomplete additional education entries: " + strings.Join(bad, ", "),
			Fields:  fields,
		}
	}
	return out, nil
}

// decodeReferences reads reference_details, falling back to the single
// reference_name / reference_contact / reference_email inputs.
func decodeReferences(raw RawSubmission) (model.JSONList[model.ReferenceEntry], error) {
	objs, err := decodeObjectList(keyReferenceDetails, raw.ReferenceDetails)
	if err != nil {
		return nil, err
	}
	out := make(model.JSONList[model.ReferenceEntry], 0, len(objs)+1)

	if len(objs) == 0 {
		name := raw.Get("reference_name")
		contact, email := raw.Get("reference_contact"), raw.Get("reference_email")
		if name == "" && (contact != "" || email != "") {
			return nil, helper.MissingFieldsError([]string{"reference_name"})
		}
		if name != "" {
			out = append(out, model.ReferenceEntry{
				Name:     name,
				Relation: raw.Get("reference_relation"),
				Contact:  contact,
				Email:    strings.ToLower(email),
			})
		}
		return out, nil
	}

	fields := map[string][]string{}
	for i, obj := range objs {
		key := fmt.Sprintf("%s[%d]", keyReferenceDetails, i)
		get := func(k string) string { return stringify(obj[k]) }
		e := model.ReferenceEntry{
			Name:     get("name"),
			Relation: get("relation"),
			Contact:  get("contact"),
			Email:    strings.ToLower(get("email")),
		}
		if e.Name == "" {
			fields[key] = append(fields[key], "missing name")
		}
		if e.Email != "" && validate.Var(e.Email, "email") != nil {
			fields[key] = append(fields[key], "email is not valid")
		}
		out = append(out, e)
	}
	if len(fields) > 0 {
		return nil, helper.FieldRulesError(fields)
	}
	return out, nil
}
