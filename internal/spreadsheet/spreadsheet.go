// Package spreadsheet maps xlsx workbooks to location records and back.
// Import matches columns by header name (Indonesian headers from the admin
// export, with English fallbacks) and applies fallback defaults for unknown
// category or partnership values.
package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"petapintar/internal/models"
	"petapintar/internal/pipeline"
)

// SheetName is the worksheet used by exports.
const SheetName = "Data Lokasi"

// header aliases, lowercased. First column of each row is the canonical
// export header.
var headerAliases = map[string]string{
	"nama lokasi":       "name",
	"name":              "name",
	"kategori":          "category",
	"category":          "category",
	"latitude":          "lat",
	"lat":               "lat",
	"longitude":         "lng",
	"lng":               "lng",
	"deskripsi":         "description",
	"description":       "description",
	"alamat":            "address",
	"address":           "address",
	"telepon":           "phone",
	"phone":             "phone",
	"pemilik":           "ownerName",
	"ownername":         "ownerName",
	"whatsapp":          "whatsapp",
	"status kemitraan":  "partnership",
	"partnershipstatus": "partnership",
	"jam operasional":   "operatingHours",
	"operatinghours":    "operatingHours",
	"status":            "status",
}

var exportHeaders = []string{
	"Nama Lokasi", "Kategori", "Latitude", "Longitude", "Deskripsi", "Alamat",
	"Telepon", "Pemilik", "WhatsApp", "Status Kemitraan", "Jam Operasional", "Status",
}

// Result summarizes an import run.
type Result struct {
	Locations []models.Location
	Skipped   int
}

// Import reads the first sheet of an xlsx workbook and converts every valid
// row into a location record. Rows missing a name or parseable coordinates
// are counted as skipped, never fatal. Each accepted row gets a fresh ID and
// creation timestamp and is normalized through the import pipeline.
func Import(ctx context.Context, r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return Result{}, nil
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if field, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, taken := cols[field]; !taken {
				cols[field] = i
			}
		}
	}

	cell := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var drafts []*models.Location
	skipped := 0
	for _, row := range rows[1:] {
		name := cell(row, "name")
		lat, errLat := strconv.ParseFloat(cell(row, "lat"), 64)
		lng, errLng := strconv.ParseFloat(cell(row, "lng"), 64)
		if name == "" || errLat != nil || errLng != nil {
			skipped++
			continue
		}
		drafts = append(drafts, &models.Location{
			Name:           name,
			Category:       models.Category(cell(row, "category")),
			Lat:            lat,
			Lng:            lng,
			Description:    cell(row, "description"),
			Address:        cell(row, "address"),
			Phone:          cell(row, "phone"),
			OwnerName:      cell(row, "ownerName"),
			Whatsapp:       cell(row, "whatsapp"),
			OperatingHours: cell(row, "operatingHours"),
			Partnership:    models.Partnership(cell(row, "partnership")),
			Status:         models.OperationStatus(cell(row, "status")),
		})
	}

	p := pipeline.New(
		pipeline.NewStage(stageNormalize),
		pipeline.NewStage(stageIdentity),
	)

	var out []models.Location
	for _, d := range p.Apply(ctx, drafts) {
		out = append(out, *d)
	}
	return Result{Locations: out, Skipped: skipped}, nil
}

// stageNormalize coerces the enum-ish columns onto their known values,
// falling back to the defaults for anything unrecognised.
func stageNormalize(_ context.Context, l *models.Location) error {
	l.Category = models.ParseCategory(string(l.Category))
	l.Partnership = models.ParsePartnership(string(l.Partnership))
	l.Status = models.ParseStatus(string(l.Status))
	return nil
}

// stageIdentity assigns the immutable identity fields of a fresh record.
func stageIdentity(_ context.Context, l *models.Location) error {
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now().UTC()
	return nil
}

// Export writes every location into a new workbook using the canonical
// headers.
func Export(locations []models.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, h := range exportHeaders {
		cellName, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cellName, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, l := range locations {
		values := []any{
			l.Name, string(l.Category), l.Lat, l.Lng, l.Description, l.Address,
			l.Phone, l.OwnerName, l.Whatsapp, string(l.Partnership),
			l.OperatingHours, string(l.Status),
		}
		for colIdx, v := range values {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(SheetName, cellName, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
