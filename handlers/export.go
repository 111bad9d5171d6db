package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/AhmadFauzanZW/wilopo-cargo/models"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

type ExportHandler struct {
	shipments *models.ShipmentStore
}

func NewExportHandler(shipments *models.ShipmentStore) *ExportHandler {
	return &ExportHandler{shipments: shipments}
}

// ShipmentsPDF обрабатывает GET /api/export/shipments/pdf
func (h *ExportHandler) ShipmentsPDF(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	shipments, err := h.shipments.ListByUser(c.Request.Context(), userID, isAdmin)
	if err != nil {
		log.Printf("❌ Ошибка экспорта PDF: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "error generating PDF report"})
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Wilopo Cargo", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "Shipment Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated on: "+time.Now().Format("2006-01-02"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	widths := []float64{38, 34, 40, 40, 28}
	headers := []string{"Tracking #", "Status", "Origin", "Destination", "Date"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, head := range headers {
		pdf.CellFormat(widths[i], 7, head, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, sh := range shipments {
		cells := []string{
			sh.TrackingNumber, sh.Status, sh.Origin, sh.Destination,
			sh.CreatedAt.Format("2006-01-02"),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=shipments-report.pdf")
	if err := pdf.Output(c.Writer); err != nil {
		log.Printf("❌ Ошибка записи PDF: %v", err)
	}
}

// SingleShipmentPDF обрабатывает GET /api/export/shipment/:id/pdf
func (h *ExportHandler) SingleShipmentPDF(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	sh, err := h.shipments.GetByID(c.Request.Context(), c.Param("id"), userID, isAdmin)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "shipment not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка экспорта PDF: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "error generating PDF report"})
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Wilopo Cargo", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, "Shipment Details", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	writeField := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Shipment Information", "", 1, "L", false, 0, "")
	writeField("Tracking Number:", sh.TrackingNumber)
	writeField("Status:", sh.Status)
	writeField("Origin:", sh.Origin)
	writeField("Destination:", sh.Destination)
	writeField("Service Type:", sh.ServiceType)
	writeField("Weight (kg):", fmt.Sprintf("%.2f", sh.Weight))
	writeField("Volume (m3):", fmt.Sprintf("%.3f", sh.Volume))
	if sh.EstimatedCost != nil {
		writeField("Estimated Cost (USD):", fmt.Sprintf("%.2f", *sh.EstimatedCost))
	}
	writeField("Created:", sh.CreatedAt.Format("2006-01-02"))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Status History", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	histWidths := []float64{40, 40, 55, 45}
	for i, head := range []string{"Status", "Date", "Description", "Location"} {
		pdf.CellFormat(histWidths[i], 7, head, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, e := range sh.StatusHistory {
		description, location := "", ""
		if e.Description != nil {
			description = *e.Description
		}
		if e.Location != nil {
			location = *e.Location
		}
		cells := []string{e.Status, e.Timestamp.Format("2006-01-02 15:04"), description, location}
		for i, cell := range cells {
			pdf.CellFormat(histWidths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=shipment-%s.pdf", sh.TrackingNumber))
	if err := pdf.Output(c.Writer); err != nil {
		log.Printf("❌ Ошибка записи PDF: %v", err)
	}
}

var excelColumns = []struct {
	Header string
	Width  float64
}{
	{"Tracking Number", 20},
	{"Status", 20},
	{"Origin", 25},
	{"Destination", 25},
	{"Weight (kg)", 12},
	{"Volume (m³)", 12},
	{"Estimated Cost ($)", 18},
	{"Created Date", 18},
}

// ShipmentsExcel обрабатывает GET /api/export/shipments/excel
func (h *ExportHandler) ShipmentsExcel(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	shipments, err := h.shipments.ListByUser(c.Request.Context(), userID, isAdmin)
	if err != nil {
		log.Printf("❌ Ошибка экспорта Excel: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "error generating Excel report"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Shipments"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"667EEA"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})

	for i, col := range excelColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col.Header)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, colName, colName, col.Width)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(excelColumns))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	for row, sh := range shipments {
		values := []interface{}{
			sh.TrackingNumber, sh.Status, sh.Origin, sh.Destination,
			sh.Weight, sh.Volume, nil, sh.CreatedAt.Format("2006-01-02"),
		}
		if sh.EstimatedCost != nil {
			values[6] = *sh.EstimatedCost
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=shipments-report.xlsx")
	if err := f.Write(c.Writer); err != nil {
		log.Printf("❌ Ошибка записи Excel: %v", err)
	}
}

// SingleShipmentExcel обрабатывает GET /api/export/shipment/:id/excel
func (h *ExportHandler) SingleShipmentExcel(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	sh, err := h.shipments.GetByID(c.Request.Context(), c.Param("id"), userID, isAdmin)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "shipment not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка экспорта Excel: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "error generating Excel report"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Shipment"
	f.SetSheetName("Sheet1", sheet)

	fields := []struct {
		Label string
		Value interface{}
	}{
		{"Tracking Number", sh.TrackingNumber},
		{"Status", sh.Status},
		{"Origin", sh.Origin},
		{"Destination", sh.Destination},
		{"Service Type", sh.ServiceType},
		{"Weight (kg)", sh.Weight},
		{"Volume (m³)", sh.Volume},
		{"Created Date", sh.CreatedAt.Format("2006-01-02")},
	}
	if sh.EstimatedCost != nil {
		fields = append(fields, struct {
			Label string
			Value interface{}
		}{"Estimated Cost ($)", *sh.EstimatedCost})
	}

	for i, field := range fields {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), field.Label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), field.Value)
	}
	f.SetColWidth(sheet, "A", "B", 25)

	// История статусов на отдельном листе
	historySheet := "Status History"
	f.NewSheet(historySheet)
	for i, head := range []string{"Status", "Date", "Description", "Location"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(historySheet, cell, head)
	}
	for row, e := range sh.StatusHistory {
		description, location := "", ""
		if e.Description != nil {
			description = *e.Description
		}
		if e.Location != nil {
			location = *e.Location
		}
		values := []interface{}{e.Status, e.Timestamp.Format("2006-01-02 15:04"), description, location}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(historySheet, cell, v)
		}
	}
	f.SetColWidth(historySheet, "A", "D", 25)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=shipment-%s.xlsx", sh.TrackingNumber))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("❌ Ошибка записи Excel: %v", err)
	}
}
