// internal/handlers/transfer.go
package handlers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emissionsiq/emissionsiq-backend/internal/services"
	"github.com/emissionsiq/emissionsiq-backend/internal/utils"
)

// TransferHandler covers CSV import and export of the product list.
type TransferHandler struct {
	transferService *services.ImportExportService
	storageService  *services.StorageService
	maxBodyBytes    int64
}

func NewTransferHandler(transferService *services.ImportExportService, storageService *services.StorageService, maxBodyBytes int64) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		storageService:  storageService,
		maxBodyBytes:    maxBodyBytes,
	}
}

// GET /products/export
func (h *TransferHandler) ExportProducts(c *gin.Context) {
	file, err := h.transferService.ExportCSV(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if c.Query("store") == "true" {
		if !h.storageService.Enabled() {
			utils.BadRequestResponse(c, "Export storage is not configured", nil)
			return
		}
		result, err := h.storageService.UploadExport(file.Filename, file.Data)
		if err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
		utils.SuccessResponse(c, gin.H{
			"artifact": result,
			"filename": file.Filename,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, "text/csv", file.Data)
}

// GET /products/import/template
func (h *TransferHandler) DownloadTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="product_template.csv"`)
	c.Data(200, "text/csv", h.transferService.Template())
}

// POST /products/import
//
// Accepts either a multipart "file" field or raw CSV in the body. The
// whole file is buffered before parsing.
func (h *TransferHandler) ImportProducts(c *gin.Context) {
	text, err := h.readCSVBody(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	var userID *uuid.UUID
	if uid, ok := currentUserID(c); ok {
		userID = &uid
	}

	summary, err := h.transferService.ImportCSV(c.Request.Context(), userID, text)
	if err != nil {
		switch {
		case services.IsRetryable(err):
			utils.RetryableErrorResponse(c, "")
		case isImportClientError(err):
			// Header problems and empty imports abort before any row
			// is created; both are the client's fault.
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": fmt.Sprintf("Imported %s", pluralProducts(summary.Created)),
		"import":  summary,
	})
}

func (h *TransferHandler) readCSVBody(c *gin.Context) (string, error) {
	if fileHeader, err := c.FormFile("file"); err == nil {
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
			return "", fmt.Errorf("please select a valid CSV file")
		}
		if h.maxBodyBytes > 0 && fileHeader.Size > h.maxBodyBytes {
			return "", fmt.Errorf("file exceeds the %d byte import limit", h.maxBodyBytes)
		}
		file, err := fileHeader.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open uploaded file")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", fmt.Errorf("failed to read uploaded file")
		}
		return string(data), nil
	}

	reader := io.Reader(c.Request.Body)
	if h.maxBodyBytes > 0 {
		// one byte past the cap distinguishes at-limit from over-limit
		reader = io.LimitReader(reader, h.maxBodyBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read request body")
	}
	if h.maxBodyBytes > 0 && int64(len(data)) > h.maxBodyBytes {
		return "", fmt.Errorf("file exceeds the %d byte import limit", h.maxBodyBytes)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no CSV content provided")
	}
	return string(data), nil
}

// isImportClientError separates parse-stage failures from store-side
// insert failures, which are the server's problem.
func isImportClientError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "missing required columns") ||
		strings.Contains(msg, "file is empty") ||
		strings.Contains(msg, "no valid products")
}

func pluralProducts(n int) string {
	if n == 1 {
		return "1 product"
	}
	return strconv.Itoa(n) + " products"
}
