package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xuri/excelize/v2"

	"github.com/agencia-digital/agencia/internal/timetrack"
)

// Formats accepted by Write
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Write renders ts in the named format
func Write(w io.Writer, ts Timesheet, format string) error {
	switch strings.ToLower(format) {
	case "", FormatTable:
		return WriteTable(w, ts)
	case FormatCSV:
		return WriteCSV(w, ts)
	case FormatXLSX:
		return WriteXLSX(w, ts)
	}
	return fmt.Errorf("unsupported report format %q (use table, csv or xlsx)", format)
}

// WriteTable renders a bordered terminal table
func WriteTable(w io.Writer, ts Timesheet) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Fecha", "Tarea", "Proyecto", "Tiempo").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range ts.Rows {
		t.Row(r.Date, fmt.Sprintf("#%d %s", r.TaskID, r.Task), r.Project, timetrack.Format(r.Duration))
	}

	_, err := fmt.Fprintf(w, "%s\nTotal: %s\n", t.Render(), timetrack.Format(ts.Total))
	return err
}

// WriteCSV writes one line per task per day with hours as a decimal
func WriteCSV(w io.Writer, ts Timesheet) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"date", "task_id", "task", "project", "duration", "hours"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range ts.Rows {
		row := []string{
			r.Date,
			strconv.FormatUint(uint64(r.TaskID), 10),
			r.Task,
			r.Project,
			timetrack.Format(r.Duration),
			fmt.Sprintf("%.2f", r.Duration.Hours()),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

const (
	detailSheet  = "Timesheet"
	summarySheet = "Por tarea"
)

// WriteXLSX writes a workbook with the daily detail and a per-task summary
func WriteXLSX(w io.Writer, ts Timesheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", detailSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	detail := [][]interface{}{{"Fecha", "ID", "Tarea", "Proyecto", "Tiempo", "Horas"}}
	for _, r := range ts.Rows {
		detail = append(detail, []interface{}{r.Date, r.TaskID, r.Task, r.Project, timetrack.Format(r.Duration), hours(r.Duration.Hours())})
	}
	detail = append(detail, []interface{}{"Total", nil, nil, nil, timetrack.Format(ts.Total), hours(ts.Total.Hours())})
	if err := writeRows(f, detailSheet, detail); err != nil {
		return err
	}

	summary := [][]interface{}{{"ID", "Tarea", "Proyecto", "Tiempo", "Horas"}}
	for _, t := range ts.ByTask() {
		summary = append(summary, []interface{}{t.TaskID, t.Task, t.Project, timetrack.Format(t.Duration), hours(t.Duration.Hours())})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	for _, sheet := range []string{detailSheet, summarySheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
	}
	lastRow := len(detail)
	if err := f.SetRowStyle(detailSheet, lastRow, lastRow, bold); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}

func hours(h float64) float64 {
	v, _ := strconv.ParseFloat(fmt.Sprintf("%.2f", h), 64)
	return v
}
