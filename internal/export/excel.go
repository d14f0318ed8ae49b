// Package export renders the admin bookings report as an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"bestbuddies/internal/model"
)

var bookingColumns = []string{
	"ID", "Customer", "Pet", "Pet Type", "Package", "Date", "Time", "Phone", "Status", "Created",
}

var customerColumns = []string{"Name", "Email", "Joined", "Total Bookings"}

// WriteBookingsReport writes a two-sheet workbook (bookings, customers)
// to w.
func WriteBookingsReport(w io.Writer, bookings []model.Booking, users []model.User) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeBookingsSheet(f, bookings); err != nil {
		return err
	}
	if err := writeCustomersSheet(f, bookings, users); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeBookingsSheet(f *excelize.File, bookings []model.Booking) error {
	const sheet = "Bookings"
	f.SetSheetName("Sheet1", sheet)

	if err := writeHeader(f, sheet, bookingColumns); err != nil {
		return err
	}
	for i, b := range bookings {
		row := []interface{}{
			b.ID, b.CustomerName, b.PetName, string(b.PetType), b.PackageName,
			b.Date, b.Time, b.Phone, string(b.Status), b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCustomersSheet(f *excelize.File, bookings []model.Booking, users []model.User) error {
	const sheet = "Customers"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	if err := writeHeader(f, sheet, customerColumns); err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, b := range bookings {
		counts[b.UserID]++
	}

	row := 2
	for _, u := range users {
		if u.Role != model.RoleCustomer {
			continue
		}
		values := []interface{}{u.Name, u.Email, u.CreatedAt.Format("2006-01-02"), counts[u.ID]}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, columns []string) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
