package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/AhmadFauzanZW/wilopo-cargo/config"
	"github.com/AhmadFauzanZW/wilopo-cargo/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20 // 10MB

// Разрешённые расширения загружаемых документов
var allowedExtensions = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".pdf": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

type DocumentHandler struct {
	cfg       *config.Config
	documents *models.DocumentStore
	shipments *models.ShipmentStore
	notifier  *Notifier
}

func NewDocumentHandler(cfg *config.Config, documents *models.DocumentStore, shipments *models.ShipmentStore, notifier *Notifier) *DocumentHandler {
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		log.Printf("⚠️ Не удалось создать каталог загрузок: %v", err)
	}
	return &DocumentHandler{cfg: cfg, documents: documents, shipments: shipments, notifier: notifier}
}

// Upload обрабатывает POST /api/shipments/:id/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	shipment, err := h.shipments.OwnedBy(c.Request.Context(), c.Param("id"), userID, isAdmin)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка проверки отправления: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error uploading document"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only images, PDFs, and office documents are allowed"})
		return
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dst := filepath.Join(h.cfg.UploadsDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Printf("❌ Ошибка сохранения файла: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error uploading document"})
		return
	}

	documentType := c.PostForm("document_type")
	doc, err := h.documents.Create(c.Request.Context(), shipment.ID, documentType,
		"/uploads/"+filename, file.Filename, file.Size)
	if err != nil {
		// Подчищаем файл, если запись не создалась
		_ = os.Remove(dst)
		log.Printf("❌ Ошибка создания записи документа: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error uploading document"})
		return
	}

	go h.notifier.NotifyDocumentUpload(shipment, doc)

	c.JSON(http.StatusCreated, doc)
}

// List обрабатывает GET /api/shipments/:id/documents
func (h *DocumentHandler) List(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	shipment, err := h.shipments.OwnedBy(c.Request.Context(), c.Param("id"), userID, isAdmin)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка проверки отправления: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error fetching documents"})
		return
	}

	docs, err := h.documents.ListByShipment(c.Request.Context(), shipment.ID)
	if err != nil {
		log.Printf("❌ Ошибка получения документов: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error fetching documents"})
		return
	}

	if docs == nil {
		docs = []models.Document{}
	}
	c.JSON(http.StatusOK, docs)
}

// Delete обрабатывает DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	doc, err := h.documents.GetForUser(c.Request.Context(), c.Param("id"), userID, isAdmin)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка получения документа: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error deleting document"})
		return
	}

	if err := h.documents.Delete(c.Request.Context(), doc.ID); err != nil {
		log.Printf("❌ Ошибка удаления документа: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error deleting document"})
		return
	}

	// Файл удаляем после записи; ошибка некритична
	filename := strings.TrimPrefix(doc.FileURL, "/uploads/")
	if err := os.Remove(filepath.Join(h.cfg.UploadsDir, filename)); err != nil {
		log.Printf("⚠️ Файл документа не удалён: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "document deleted"})
}
