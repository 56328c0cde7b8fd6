package student

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

func exportHeader() []string {
	header := []string{"ID", "Nombre", "Proyecto"}
	for _, d := range Deliveries {
		header = append(header, d.Name)
	}
	return append(header, "Bono Participación", "Promedio", "Comentario")
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func exportRow(s Student) []string {
	row := []string{s.ID, s.Name, s.Project}
	for _, d := range Deliveries {
		row = append(row, oneDecimal(s.Grade(d.ID)))
	}
	var bonus float64
	if s.ParticipationBonus.Valid {
		bonus = s.ParticipationBonus.Float64
	}
	return append(row, oneDecimal(bonus), oneDecimal(Average(s)), s.Comment.String)
}

// WriteCSV writes a header and one row per student. Every field is quoted; inner quotes are doubled.
// encoding/csv only quotes fields when needed, hence the hand-written encoder.
func WriteCSV(w io.Writer, students []Student) error {
	bw := bufio.NewWriter(w)
	writeLine := func(fields []string) {
		for i, fld := range fields {
			fields[i] = `"` + strings.ReplaceAll(fld, `"`, `""`) + `"`
		}
		_, _ = bw.WriteString(strings.Join(fields, ",") + "\n")
	}

	writeLine(exportHeader())
	for _, s := range students {
		writeLine(exportRow(s))
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "writing csv")
	}
	return nil
}

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook.
func WriteXLSX(w io.Writer, students []Student) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	header := exportHeader()
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(exportSheet, "A1", lastCol, bold); err != nil {
		return errors.Wrap(err, "styling header")
	}

	for i, s := range students {
		row := exportRow(s)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		// numbers stay numeric in the workbook
		for j := 3; j < len(row)-1; j++ {
			if n, err := strconv.ParseFloat(row[j], 64); err == nil {
				cells[j] = n
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &cells); err != nil {
			return errors.Wrapf(err, "writing row %d", i+2)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing xlsx")
	}
	return nil
}

func setRow(f *excelize.File, n int, vals []string) error {
	cells := make([]interface{}, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	cell, _ := excelize.CoordinatesToCellName(1, n)
	if err := f.SetSheetRow(exportSheet, cell, &cells); err != nil {
		return errors.Wrapf(err, "writing row %d", n)
	}
	return nil
}
