// internal/services/importexport_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emissionsiq/emissionsiq-backend/internal/csvio"
	"github.com/emissionsiq/emissionsiq-backend/internal/models"
)

// ImportExportService moves the flat product list in and out as CSV.
// Imports are buffered whole; the header gate runs before any row is
// touched and malformed rows are dropped with a surfaced count.
type ImportExportService struct {
	db           *gorm.DB
	writeTimeout time.Duration
}

// importInsertBatch bounds rows per INSERT; a single statement for a
// large file would exceed the driver's bind-parameter limit.
const importInsertBatch = 500

type ImportSummary struct {
	Created  int              `json:"created"`
	Skipped  int              `json:"skipped"`
	Products []models.Product `json:"products"`
}

type ExportFile struct {
	Filename string
	Data     []byte
}

func NewImportExportService(db *gorm.DB, writeTimeout time.Duration) *ImportExportService {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &ImportExportService{
		db:           db,
		writeTimeout: writeTimeout,
	}
}

// ExportCSV serializes the current product list, newest first, into the
// fixed four-column format. The filename embeds the export date.
func (s *ImportExportService) ExportCSV(ctx context.Context) (*ExportFile, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	rows := make([]csvio.ExportRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, csvio.ExportRow{
			Name:           p.Name,
			Category:       string(p.Category),
			TotalCO2:       p.TotalCO2,
			LastCalculated: p.LastCalculated,
		})
	}

	return &ExportFile{
		Filename: fmt.Sprintf("products_export_%s.csv", time.Now().Format("2006-01-02")),
		Data:     []byte(csvio.Export(rows)),
	}, nil
}

// ImportCSV parses the text and persists every accepted row as a new
// product with a placeholder emissions figure and the Imported marker.
// Header problems abort before any row; success requires at least one
// surviving row. No ingredients or value-chain data are attached.
func (s *ImportExportService) ImportCSV(ctx context.Context, userID *uuid.UUID, text string) (*ImportSummary, error) {
	parsed, err := csvio.Import(text)
	if err != nil {
		return nil, err
	}

	if len(parsed.Products) == 0 {
		return nil, errors.New("no valid products found in CSV file")
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	products := make([]models.Product, 0, len(parsed.Products))
	for _, row := range parsed.Products {
		products = append(products, models.Product{
			UserID:         userID,
			Name:           row.Name,
			Category:       models.ProductCategory(row.Category),
			TotalCO2:       placeholderCO2(),
			LastCalculated: models.CalculatedMarkerImported,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&products, importInsertBatch).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert imported products: %w", err)
	}

	if parsed.Skipped > 0 {
		logrus.WithFields(logrus.Fields{
			"created": len(products),
			"skipped": parsed.Skipped,
		}).Warn("CSV import dropped malformed rows")
	}

	return &ImportSummary{
		Created:  len(products),
		Skipped:  parsed.Skipped,
		Products: products,
	}, nil
}

// Template returns the downloadable sample file.
func (s *ImportExportService) Template() []byte {
	return []byte(csvio.Template())
}

// placeholderCO2 mirrors the dashboard's mock calculation for imported
// rows: a value in [1, 6) until a real calculation runs.
func placeholderCO2() float64 {
	return rand.Float64()*5 + 1
}
