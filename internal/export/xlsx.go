// Package export writes aggregated leads to spreadsheet files.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/prosperian/prosperian-api/internal/model"
)

var leadHeader = []string{
	"first_name", "last_name", "title", "email", "linkedin_url",
	"company", "company_location", "employee_range", "industry", "website",
	"search_name",
}

// WriteLeadsXLSX writes the leads to an XLSX workbook at path, one row
// per lead with a fixed header row.
func WriteLeadsXLSX(path string, leads []model.Lead) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range leadHeader {
		header.AddCell().Value = col
	}

	for _, lead := range leads {
		addLeadRow(sheet, lead)
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func addLeadRow(sheet *xlsx.Sheet, lead model.Lead) {
	company := lead.Company
	if company == nil {
		company = &model.Company{Name: lead.CompanyName}
	}

	row := sheet.AddRow()
	for _, val := range []string{
		lead.FirstName,
		lead.LastName,
		lead.Title,
		lead.MostProbableEmail,
		lead.LinkedInURL,
		company.Name,
		company.Location,
		company.EmployeeRange,
		company.Industry,
		company.Website,
		lead.SearchName,
	} {
		row.AddCell().Value = val
	}
}
