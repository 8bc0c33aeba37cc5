package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	feasibility "dealer-feasibility/internal/feasibility/domain"
)

// BuildProjectionPDF renders a feasibility report for one projection run.
func BuildProjectionPDF(result *feasibility.ProjectionResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Outlet Feasibility Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Subject: %s", result.SubjectID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Scenario: %s", result.ScenarioID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", result.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", result.RunAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Horizon: %d years", result.HorizonYears))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Initial Investment: %.2f", result.InitialInvestment))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Metrics")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("NPV: %.2f", result.NPV))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("IRR: %s", formatRate(result.IRR)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("MIRR: %.4f", result.MIRR))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Payback Period: %s", formatYears(result.PaybackPeriod)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Discounted Payback Period: %s", formatYears(result.DiscountedPaybackPeriod)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Cash Inflow: %.2f", result.TotalCashInflow))
	pdf.Ln(5)
	if result.ProfitabilityIndex != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Profitability Index: %.4f", *result.ProfitabilityIndex))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	// Cash-flow table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(20, 6, "Year", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Net Cash Flow", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Discounted", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Cumulative", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for year, flow := range result.CashFlows {
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", year), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, fmt.Sprintf("%.2f", flow), "1", 0, "R", false, 0, "")
		pdf.CellFormat(55, 6, fmt.Sprintf("%.2f", result.DiscountedCashFlows[year]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(55, 6, fmt.Sprintf("%.2f", result.CumulativeCashFlows[year]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildProjectionXLSX renders a workbook for one projection run: a summary
// sheet, a per-product breakdown sheet, and a cash-flow sheet.
func BuildProjectionXLSX(result *feasibility.ProjectionResult) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	breakdownSheet := "breakdown"
	cashflowSheet := "cashflow"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(breakdownSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(cashflowSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Outlet Feasibility Report")
	_ = f.SetCellValue(summarySheet, "A3", "Subject")
	_ = f.SetCellValue(summarySheet, "B3", result.SubjectID)
	_ = f.SetCellValue(summarySheet, "A4", "Scenario")
	_ = f.SetCellValue(summarySheet, "B4", result.ScenarioID)
	_ = f.SetCellValue(summarySheet, "A5", "Run")
	_ = f.SetCellValue(summarySheet, "B5", result.ID)
	_ = f.SetCellValue(summarySheet, "A6", "Generated")
	_ = f.SetCellValue(summarySheet, "B6", result.RunAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A7", "Horizon (years)")
	_ = f.SetCellValue(summarySheet, "B7", result.HorizonYears)
	_ = f.SetCellValue(summarySheet, "A8", "Initial Investment")
	_ = f.SetCellValue(summarySheet, "B8", result.InitialInvestment)
	_ = f.SetCellValue(summarySheet, "A9", "NPV")
	_ = f.SetCellValue(summarySheet, "B9", result.NPV)
	_ = f.SetCellValue(summarySheet, "A10", "IRR")
	_ = f.SetCellValue(summarySheet, "B10", formatRate(result.IRR))
	_ = f.SetCellValue(summarySheet, "A11", "MIRR")
	_ = f.SetCellValue(summarySheet, "B11", result.MIRR)
	_ = f.SetCellValue(summarySheet, "A12", "Payback Period")
	_ = f.SetCellValue(summarySheet, "B12", formatYears(result.PaybackPeriod))
	_ = f.SetCellValue(summarySheet, "A13", "Discounted Payback Period")
	_ = f.SetCellValue(summarySheet, "B13", formatYears(result.DiscountedPaybackPeriod))
	_ = f.SetCellValue(summarySheet, "A14", "Total Cash Inflow")
	_ = f.SetCellValue(summarySheet, "B14", result.TotalCashInflow)
	if result.ProfitabilityIndex != nil {
		_ = f.SetCellValue(summarySheet, "A15", "Profitability Index")
		_ = f.SetCellValue(summarySheet, "B15", *result.ProfitabilityIndex)
	}

	writeBreakdownSheet(f, breakdownSheet, result)
	writeCashflowSheet(f, cashflowSheet, result)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBreakdownSheet(f *excelize.File, sheet string, result *feasibility.ProjectionResult) {
	products := feasibility.Products()

	_ = f.SetCellValue(sheet, "A1", "Year")
	col := 1
	for _, product := range products {
		col++
		cell, _ := excelize.CoordinatesToCellName(col, 1)
		_ = f.SetCellValue(sheet, cell, fmt.Sprintf("%s Volume", product))
	}
	for _, product := range products {
		col++
		cell, _ := excelize.CoordinatesToCellName(col, 1)
		_ = f.SetCellValue(sheet, cell, fmt.Sprintf("%s Revenue", product))
	}
	headers := []string{"Total Revenue", "Operating Costs", "Insurance", "Maintenance", "Rental Income"}
	for _, header := range headers {
		col++
		cell, _ := excelize.CoordinatesToCellName(col, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for year := 0; year <= result.HorizonYears; year++ {
		row := year + 2
		col = 1
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, year)
		for _, product := range products {
			col++
			cell, _ = excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, seriesAt(result.Breakdown.Volumes[product], year))
		}
		for _, product := range products {
			col++
			cell, _ = excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, seriesAt(result.Breakdown.Revenues[product], year))
		}
		for _, series := range [][]float64{
			result.Breakdown.TotalRevenue,
			result.Breakdown.OperatingCosts,
			result.Breakdown.Insurance,
			result.Breakdown.Maintenance,
			result.Breakdown.RentalIncome,
		} {
			col++
			cell, _ = excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, seriesAt(series, year))
		}
	}
}

func writeCashflowSheet(f *excelize.File, sheet string, result *feasibility.ProjectionResult) {
	_ = f.SetCellValue(sheet, "A1", "Year")
	_ = f.SetCellValue(sheet, "B1", "Net Cash Flow")
	_ = f.SetCellValue(sheet, "C1", "Discounted")
	_ = f.SetCellValue(sheet, "D1", "Cumulative")
	for year, flow := range result.CashFlows {
		row := year + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), year)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), flow)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), seriesAt(result.DiscountedCashFlows, year))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), seriesAt(result.CumulativeCashFlows, year))
	}
}

func seriesAt(series []float64, year int) float64 {
	if year < 0 || year >= len(series) {
		return 0
	}
	return series[year]
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "undefined"
	}
	return fmt.Sprintf("%.2f%%", *rate*100)
}

func formatYears(years *float64) string {
	if years == nil {
		return "not recovered"
	}
	return fmt.Sprintf("%.2f years", *years)
}
