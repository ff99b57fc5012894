package spreadsheet

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"petapintar/internal/models"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cellName, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestImport(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Nama Lokasi", "Kategori", "Latitude", "Longitude", "Deskripsi", "Status Kemitraan", "Status"},
		{"Drop Point Medan", "Drop Point", 3.5952, 98.6722, "near the market", "MITRA", "Tutup"},
		{"Gateway Belawan", "Gateway", 3.7855, 98.6832, "harbour side", "AGENT", "Buka"},
	})

	result, err := Import(context.Background(), buf)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Skipped != 0 {
		t.Errorf("Skipped = %d; want 0", result.Skipped)
	}
	if len(result.Locations) != 2 {
		t.Fatalf("got %d locations; want 2", len(result.Locations))
	}

	first := result.Locations[0]
	if first.Name != "Drop Point Medan" || first.Lat != 3.5952 || first.Lng != 98.6722 {
		t.Errorf("first row = %+v; core fields wrong", first)
	}
	if first.Partnership != models.PartnershipMitra || first.Status != models.StatusClosed {
		t.Errorf("first row enums = (%q, %q); want (MITRA, Tutup)", first.Partnership, first.Status)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Error("imported rows must get identity fields")
	}
	if second := result.Locations[1]; second.Category != models.CategoryGateway {
		t.Errorf("second row category = %q; want Gateway", second.Category)
	}
}

func TestImportEnglishHeaders(t *testing.T) {
	buf := workbook(t, [][]any{
		{"name", "lat", "lng", "description"},
		{"Drop Point Medan", 3.5952, 98.6722, "near the market"},
	})

	result, err := Import(context.Background(), buf)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if len(result.Locations) != 1 {
		t.Fatalf("got %d locations; want 1", len(result.Locations))
	}
	if got := result.Locations[0]; got.Description != "near the market" {
		t.Errorf("Description = %q; English headers not matched", got.Description)
	}
}

func TestImportEnumFallbacks(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Nama Lokasi", "Latitude", "Longitude", "Kategori", "Status Kemitraan", "Status"},
		{"Somewhere", 1.0, 2.0, "warehouse", "partner", "maybe"},
	})

	result, err := Import(context.Background(), buf)
	if err != nil {
		t.Fatal(err)
	}
	got := result.Locations[0]
	if got.Category != models.CategoryDropPoint {
		t.Errorf("Category = %q; want the Drop Point fallback", got.Category)
	}
	if got.Partnership != models.PartnershipAgent {
		t.Errorf("Partnership = %q; want the AGENT fallback", got.Partnership)
	}
	if got.Status != models.StatusOpen {
		t.Errorf("Status = %q; want the Buka fallback", got.Status)
	}
}

func TestImportSkipsInvalidRows(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Nama Lokasi", "Latitude", "Longitude"},
		{"", 1.0, 2.0},                   // missing name
		{"No Coordinates", "", ""},       // missing lat/lng
		{"Bad Latitude", "north", 2.0},   // unparseable lat
		{"Valid Row", 3.5952, 98.6722},   // kept
	})

	result, err := Import(context.Background(), buf)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Skipped != 3 {
		t.Errorf("Skipped = %d; want 3", result.Skipped)
	}
	if len(result.Locations) != 1 || result.Locations[0].Name != "Valid Row" {
		t.Fatalf("Locations = %+v; want only the valid row", result.Locations)
	}
}

func TestImportHeaderOnly(t *testing.T) {
	buf := workbook(t, [][]any{{"Nama Lokasi", "Latitude", "Longitude"}})

	result, err := Import(context.Background(), buf)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if len(result.Locations) != 0 || result.Skipped != 0 {
		t.Fatalf("result = %+v; want empty", result)
	}
}

func TestImportNotAWorkbook(t *testing.T) {
	if _, err := Import(context.Background(), bytes.NewReader([]byte("not an xlsx"))); err == nil {
		t.Fatal("expected an error for a non-xlsx payload")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	locations := []models.Location{
		{
			Name: "Drop Point Medan", Category: models.CategoryDropPoint,
			Lat: 3.5952, Lng: 98.6722, Description: "near the market",
			Address: "Jl. Pasar 1", Phone: "061-123", OwnerName: "Budi",
			Whatsapp: "0812", OperatingHours: "08:00-17:00",
			Partnership: models.PartnershipMitra, Status: models.StatusClosed,
		},
		{
			Name: "Gateway Belawan", Category: models.CategoryGateway,
			Lat: 3.7855, Lng: 98.6832, Description: "harbour side",
			Partnership: models.PartnershipAgent, Status: models.StatusOpen,
		},
	}

	f, err := Export(locations)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	result, err := Import(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Import of export returned error: %v", err)
	}
	if len(result.Locations) != len(locations) {
		t.Fatalf("got %d locations; want %d", len(result.Locations), len(locations))
	}
	for i, want := range locations {
		got := result.Locations[i]
		if got.Name != want.Name || got.Category != want.Category ||
			got.Lat != want.Lat || got.Lng != want.Lng ||
			got.OwnerName != want.OwnerName || got.OperatingHours != want.OperatingHours ||
			got.Partnership != want.Partnership || got.Status != want.Status {
			t.Errorf("row %d = %+v; want the exported values %+v", i, got, want)
		}
	}
}
