// file: internals/features/applications/dto/submission_raw.go
package dto

import (
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"jobintake_backend/internals/helpers/multipartx"
)

const (
	keyAdditionalEducation = "additional_education"
	keyReferenceDetails    = "reference_details"
	keyTechnicalSkills     = "technical_skills"
)

// RawSubmission is a submission flattened to strings, before any checks.
// Nested lists stay as raw JSON and are decoded by the validator.
type RawSubmission struct {
	Values              map[string]string
	AdditionalEducation json.RawMessage
	ReferenceDetails    json.RawMessage
}

func (r RawSubmission) Get(key string) string {
	return strings.TrimSpace(r.Values[key])
}

func (r RawSubmission) Has(key string) bool {
	return r.Get(key) != ""
}

// RawFromMultipart reads a multipart form. additional_education may come as a
// JSON string field or as additional_education[i][field] inputs; the JSON
// field wins when both are present.
func RawFromMultipart(form *multipart.Form) RawSubmission {
	values := multipartx.FirstValues(form)
	raw := RawSubmission{Values: values}

	if s := values[keyAdditionalEducation]; s != "" {
		raw.AdditionalEducation = json.RawMessage(s)
	} else if form != nil {
		if groups := multipartx.ParseIndexedGroups(form.Value, keyAdditionalEducation); len(groups) > 0 {
			b, _ := json.Marshal(groups)
			raw.AdditionalEducation = b
		}
	}
	if s := values[keyReferenceDetails]; s != "" {
		raw.ReferenceDetails = json.RawMessage(s)
	} else if form != nil {
		if groups := multipartx.ParseIndexedGroups(form.Value, keyReferenceDetails); len(groups) > 0 {
			b, _ := json.Marshal(groups)
			raw.ReferenceDetails = b
		}
	}
	if form != nil {
		// technical_skills[] checkbox style
		if tags := form.Value[keyTechnicalSkills+"[]"]; len(tags) > 0 && values[keyTechnicalSkills] == "" {
			values[keyTechnicalSkills] = strings.Join(tags, ",")
		}
	}
	delete(values, keyAdditionalEducation)
	delete(values, keyReferenceDetails)
	return raw
}

// RawFromMap reads a decoded JSON body. Scalars are stringified so both
// request styles go through the same rules.
func RawFromMap(body map[string]any) RawSubmission {
	raw := RawSubmission{Values: map[string]string{}}
	for k, v := range body {
		switch k {
		case keyAdditionalEducation:
			raw.AdditionalEducation = rawJSON(v)
			continue
		case keyReferenceDetails:
			raw.ReferenceDetails = rawJSON(v)
			continue
		}
		if list, ok := v.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, it := range list {
				if s := stringify(it); s != "" {
					parts = append(parts, s)
				}
			}
			raw.Values[k] = strings.Join(parts, ",")
			continue
		}
		raw.Values[k] = stringify(v)
	}
	return raw
}

func rawJSON(v any) json.RawMessage {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return json.RawMessage(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return b
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
