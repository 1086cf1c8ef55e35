package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/fdg312/diet-planner/internal/mealplans"
	"github.com/fdg312/diet-planner/internal/planner"
)

// Render dispatches to the format renderer.
func Render(plan *mealplans.PlanDTO, format string) ([]byte, error) {
	switch format {
	case FormatPDF:
		return renderPDF(plan)
	case FormatCSV:
		return renderCSV(plan)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// renderCSV пишет одну строку на каждое блюдо
func renderCSV(plan *mealplans.PlanDTO) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"day", "meal", "food", "calories", "protein_g", "carbs_g", "fat_g"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, day := range plan.Days {
		for _, slot := range planner.Slots {
			for _, e := range day.Meals[slot] {
				row := []string{
					day.Day,
					string(slot),
					e.Name,
					strconv.Itoa(e.Calories),
					formatGrams(e.ProteinG),
					formatGrams(e.CarbsG),
					formatGrams(e.FatG),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPDF: одна таблица на день; core-шрифт Arial, текст через cp1252
func renderPDF(plan *mealplans.PlanDTO) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Weekly meal plan", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Weekly meal plan")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Daily target: %d kcal", plan.DailyTarget))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Generated: "+plan.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	for _, day := range plan.Days {
		drawDay(pdf, tr, day)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawDay(pdf *gofpdf.Fpdf, tr func(string) string, day planner.DailyPlan) {
	// день не разрывается между страницами, если помещается целиком
	rows := 0
	for _, entries := range day.Meals {
		rows += len(entries)
	}
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+float64(rows+3)*6+8 > pageH-bottom {
		pdf.AddPage()
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("%s - %d kcal", day.Day, day.TotalCalories))
	pdf.Ln(8)

	if day.Description != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, tr(day.Description), "", "L", false)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(25, 6, "Meal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(85, 6, "Food", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "kcal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Protein", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Carbs", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Fat", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, slot := range planner.Slots {
		for _, e := range day.Meals[slot] {
			pdf.CellFormat(25, 6, string(slot), "1", 0, "L", false, 0, "")
			pdf.CellFormat(85, 6, tr(e.Name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 6, strconv.Itoa(e.Calories), "1", 0, "R", false, 0, "")
			pdf.CellFormat(20, 6, formatGrams(e.ProteinG), "1", 0, "R", false, 0, "")
			pdf.CellFormat(20, 6, formatGrams(e.CarbsG), "1", 0, "R", false, 0, "")
			pdf.CellFormat(20, 6, formatGrams(e.FatG), "1", 1, "R", false, 0, "")
		}
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(110, 6, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 6, strconv.Itoa(day.TotalCalories), "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 6, formatGrams(day.Macros.Protein), "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 6, formatGrams(day.Macros.Carbs), "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 6, formatGrams(day.Macros.Fat), "1", 1, "R", false, 0, "")
	pdf.Ln(6)
}

func formatGrams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
