package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/xuri/excelize/v2"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportSheet is the worksheet name used in xlsx exports.
const exportSheet = "Bookings"

// exportHeaders defines the column names of the first row of CSV and xlsx exports.
var exportHeaders = []string{
	"booking_id", "item_type", "item_name", "start_date", "end_date", "days",
	"guests", "customer", "option_name", "quantity", "unit_price", "unit_tax",
	"currency", "grand_total", "created_at",
}

// exportRow is the JSON form of domain.BookingExportRow.
type exportRow struct {
	BookingID  string             `json:"bookingId"`
	ItemType   string             `json:"itemType"`
	ItemName   string             `json:"itemName"`
	StartDate  openapi_types.Date `json:"startDate"`
	EndDate    openapi_types.Date `json:"endDate"`
	Days       int                `json:"days"`
	Guests     int                `json:"guests"`
	Customer   string             `json:"customer"`
	OptionName string             `json:"optionName,omitempty"`
	Quantity   int                `json:"quantity"`
	UnitPrice  float64            `json:"unitPrice"`
	UnitTax    float64            `json:"unitTax"`
	Currency   string             `json:"currency"`
	GrandTotal float64            `json:"grandTotal"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// ExportBookings handles GET /api/bookings/export.
// It returns one row per booked option. Use ?format=csv or ?format=xlsx for
// a file download; the default is JSON.
func (s *Server) ExportBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		badRequest(w, "invalid format")
		return
	}
	f := "json"
	if format != nil {
		f = *format
	}
	if f != "json" && f != "csv" && f != "xlsx" {
		badRequest(w, "format must be one of json, csv, xlsx")
		return
	}

	rows, err := s.export.Export(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "booking")
		return
	}

	switch f {
	case "csv":
		writeFile(w, "text/csv", "bookings.csv", buildCSV(rows))
	case "xlsx":
		buf, err := buildXLSX(rows)
		if err != nil {
			s.fail(w, r, err, "booking")
			return
		}
		writeFile(w, xlsxContentType, "bookings.xlsx", buf)
	default:
		out := make([]exportRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, domainRowToJSON(row))
		}
		writeOK(w, http.StatusOK, "rows", out)
	}
}

func writeFile(w http.ResponseWriter, contentType, name string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}

// buildCSV encodes rows as CSV with a header row.
func buildCSV(rows []domain.BookingExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// Writes into a bytes.Buffer cannot fail.
	_ = cw.Write(exportHeaders)
	for _, r := range rows {
		_ = cw.Write(domainRowToRecord(r))
	}
	cw.Flush()
	return &buf
}

// buildXLSX writes rows into a single-sheet workbook. Numeric columns are
// stored as numbers so spreadsheets can total them.
func buildXLSX(rows []domain.BookingExportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("handler.buildXLSX: rename sheet: %w", err)
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("handler.buildXLSX: header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("handler.buildXLSX: %w", err)
		}
		values := []any{
			r.BookingID, r.ItemType, r.ItemName, r.StartDate, r.EndDate, r.Days,
			r.Guests, r.Customer, r.OptionName, r.Quantity, r.UnitPrice, r.UnitTax,
			r.Currency, r.GrandTotal, r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("handler.buildXLSX: row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("handler.buildXLSX: write: %w", err)
	}
	return buf, nil
}

// domainRowToRecord encodes a domain.BookingExportRow as a flat string slice.
// Money is written with two decimals.
func domainRowToRecord(r domain.BookingExportRow) []string {
	return []string{
		r.BookingID,
		r.ItemType,
		r.ItemName,
		r.StartDate,
		r.EndDate,
		strconv.Itoa(r.Days),
		strconv.Itoa(r.Guests),
		r.Customer,
		r.OptionName,
		strconv.Itoa(r.Quantity),
		strconv.FormatFloat(r.UnitPrice, 'f', 2, 64),
		strconv.FormatFloat(r.UnitTax, 'f', 2, 64),
		r.Currency,
		strconv.FormatFloat(r.GrandTotal, 'f', 2, 64),
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// domainRowToJSON maps a domain row onto its JSON form. Dates come from the
// service as "2006-01-02"; a malformed one is left as the zero date.
func domainRowToJSON(r domain.BookingExportRow) exportRow {
	return exportRow{
		BookingID:  r.BookingID,
		ItemType:   r.ItemType,
		ItemName:   r.ItemName,
		StartDate:  parseDate(r.StartDate),
		EndDate:    parseDate(r.EndDate),
		Days:       r.Days,
		Guests:     r.Guests,
		Customer:   r.Customer,
		OptionName: r.OptionName,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		UnitTax:    r.UnitTax,
		Currency:   r.Currency,
		GrandTotal: r.GrandTotal,
		CreatedAt:  r.CreatedAt,
	}
}

func parseDate(s string) openapi_types.Date {
	t, _ := time.Parse(time.DateOnly, s)
	return openapi_types.Date{Time: t}
}
