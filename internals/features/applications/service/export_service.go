// file: internals/features/applications/service/export_service.go
package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"jobintake_backend/internals/features/applications/dto"
	"jobintake_backend/internals/features/applications/model"
)

const (
	sheetApplications = "Applications"
	sheetEducation    = "Additional Education"
)

var applicationHeaders = []string{
	"ID", "Reference", "Submitted", "Status", "Full Name", "Email", "Mobile", "DOB",
	"Gender", "Nationality", "City", "State", "Job Role", "Preferred Location",
	"Notice Period", "Expected Salary", "Experience", "Years", "Company", "Designation",
	"Last Salary", "Skills", "Technical Skills", "SSC", "Graduation", "Resume",
}

// BuildWorkbook renders the HR export. baseURL prefixes the attachment
// links; pass "" for relative links.
func BuildWorkbook(rows []model.ApplicationModel, baseURL string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetApplications)
	if _, err := f.NewSheet(sheetEducation); err != nil {
		return nil, fmt.Errorf("create education sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return nil, fmt.Errorf("link style: %w", err)
	}

	if err := writeHeader(f, sheetApplications, applicationHeaders, headerStyle); err != nil {
		return nil, err
	}
	for i := range rows {
		if err := writeApplicationRow(f, i+2, &rows[i], baseURL, linkStyle); err != nil {
			return nil, err
		}
	}

	if err := writeHeader(f, sheetEducation,
		[]string{"Application ID", "Full Name", "Institution", "Qualification", "Branch", "Year", "Percentage"},
		headerStyle); err != nil {
		return nil, err
	}
	line := 2
	for i := range rows {
		for _, e := range rows[i].AdditionalEducation {
			vals := []any{rows[i].ID, rows[i].FullName, e.Institution, e.Qualification, e.Branch, e.Year, e.Percentage}
			if err := setRow(f, sheetEducation, line, vals); err != nil {
				return nil, err
			}
			line++
		}
	}

	_ = f.SetPanes(sheetApplications, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	_ = f.SetColWidth(sheetApplications, "A", "Z", 18)
	_ = f.SetColWidth(sheetEducation, "A", "G", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	vals := make([]any, len(headers))
	for i, h := range headers {
		vals[i] = h
	}
	if err := setRow(f, sheet, 1, vals); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, vals []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &vals)
}

func writeApplicationRow(f *excelize.File, row int, m *model.ApplicationModel, baseURL string, linkStyle int) error {
	graduation := ""
	if m.Qualification != nil {
		graduation = *m.Qualification
		if m.CollegeName != nil {
			graduation += ", " + *m.CollegeName
		}
	}
	vals := []any{
		m.ID,
		m.ReferenceCode,
		m.SubmissionDate.Format("2006-01-02 15:04"),
		string(m.Status),
		m.FullName,
		m.Email,
		m.Mobile,
		m.DOB.Format("2006-01-02"),
		m.Gender,
		m.Nationality,
		m.City,
		m.State,
		m.JobRole,
		m.PreferredLocation,
		m.NoticePeriod,
		floatOrBlank(m.ExpectedSalary),
		string(m.ExperienceStatus),
		intOrBlank(m.YearsExperience),
		strOrBlank(m.CompanyName),
		strOrBlank(m.Designation),
		floatOrBlank(m.LastSalary),
		m.Skills,
		strings.Join(m.TechnicalSkills, ", "),
		fmt.Sprintf("%s %d (%s)", m.SSCBoard, m.SSCYear, m.SSCPercentage),
		graduation,
		"",
	}
	if err := setRow(f, sheetApplications, row, vals); err != nil {
		return err
	}
	if m.ResumePath == "" {
		return nil
	}
	cell, _ := excelize.CoordinatesToCellName(len(applicationHeaders), row)
	if err := f.SetCellValue(sheetApplications, cell, "Open resume"); err != nil {
		return err
	}
	if err := f.SetCellHyperLink(sheetApplications, cell, strings.TrimRight(baseURL, "/")+dto.FileURL(m.ResumePath), "External"); err != nil {
		return err
	}
	return f.SetCellStyle(sheetApplications, cell, cell, linkStyle)
}

func strOrBlank(p *string) any {
	if p == nil {
		return ""
	}
	return *p
}

func intOrBlank(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}

func floatOrBlank(p *float64) any {
	if p == nil {
		return ""
	}
	return *p
}
