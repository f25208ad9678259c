package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"iconforge/internal/config"
	"iconforge/internal/domain"
	"iconforge/internal/middleware"
	"iconforge/internal/service"
)

type Handler struct {
	service service.GenerationService
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(service service.GenerationService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

// multipartOverhead is the room left above MaxUploadSize for form fields
// and part headers.
const multipartOverhead = 1 << 20

// Generate handles POST /api/generate with multipart fields image and assetType.
func (h *Handler) Generate(c *gin.Context) {
	log := h.log.With(zap.String("request_id", middleware.GetRequestID(c)))

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.App.MaxUploadSize+multipartOverhead)
	if err := c.Request.ParseMultipartForm(h.cfg.App.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Info("Upload rejected", zap.String("reason", domain.MsgFileTooLarge), zap.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.MsgFileTooLarge})
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			log.Warn("Failed to parse multipart form", zap.Error(err))
		}
	}

	req := domain.GenerationRequest{AssetType: c.PostForm("assetType")}

	file, err := c.FormFile("image")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			log.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": domain.MsgGenerationFailed})
			return
		}
		defer f.Close()

		// One extra byte lets the service see an oversized file.
		req.Image, err = io.ReadAll(io.LimitReader(f, h.cfg.App.MaxUploadSize+1))
		if err != nil {
			log.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": domain.MsgGenerationFailed})
			return
		}
		req.MimeType = file.Header.Get("Content-Type")
	} else if !errors.Is(err, http.ErrMissingFile) {
		log.Warn("Failed to read multipart form", zap.Error(err))
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, log, req, err)
		return
	}

	log.Info("Icon generated",
		zap.String("asset_type", result.AssetType),
		zap.String("image_url", result.ImageURL))

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"imageUrl":  result.ImageURL,
		"assetType": result.AssetType,
	})
}

func (h *Handler) respondError(c *gin.Context, log *zap.Logger, req domain.GenerationRequest, err error) {
	var (
		missing *domain.MissingInputError
		invalid *domain.InvalidInputError
	)

	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{"error": missing.Message})
	case errors.As(err, &invalid):
		log.Info("Upload rejected", zap.String("reason", invalid.Message), zap.String("detail", invalid.Detail))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Message})
	default:
		log.Error("Generation error",
			zap.String("asset_type", req.AssetType),
			zap.Int("image_size", len(req.Image)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": domain.MsgGenerationFailed})
	}
}

func (h *Handler) ListAssetTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"assetTypes": h.service.AssetTypes()})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
