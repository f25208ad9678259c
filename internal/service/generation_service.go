package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"iconforge/internal/config"
	"iconforge/internal/domain"
	"iconforge/internal/prompt"
	"iconforge/internal/staging"
	"iconforge/pkg/metrics"
	"iconforge/pkg/utils"
)

type GenerationService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
	AssetTypes() []domain.AssetDescriptor
}

type generationService struct {
	model  domain.ImageModel
	stager staging.Stager
	proc   *utils.ImageProcessor
	cfg    *config.Config
	log    *zap.Logger
}

func NewGenerationService(model domain.ImageModel, stager staging.Stager, cfg *config.Config, log *zap.Logger) GenerationService {
	return &generationService{
		model:  model,
		stager: stager,
		proc:   utils.NewImageProcessor(log),
		cfg:    cfg,
		log:    log,
	}
}

func (s *generationService) AssetTypes() []domain.AssetDescriptor {
	return prompt.Catalog()
}

// Generate runs the whole pipeline for one upload. It calls the model at most
// once and never retries. Failures after input validation come back as
// *domain.GenerationFailedError.
func (s *generationService) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.generate(ctx, req)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		var failed *domain.GenerationFailedError
		if errors.As(err, &failed) {
			metrics.GenerationsTotal.WithLabelValues("failure", failed.Stage).Inc()
		}
		return nil, err
	}

	metrics.GenerationsTotal.WithLabelValues("success", "").Inc()
	return result, nil
}

func (s *generationService) validate(req domain.GenerationRequest) error {
	if len(req.Image) == 0 {
		return domain.ErrNoFile
	}
	if strings.TrimSpace(req.AssetType) == "" {
		return domain.ErrAssetTypeMissing
	}

	if int64(len(req.Image)) > s.cfg.App.MaxUploadSize {
		return &domain.InvalidInputError{
			Message: domain.MsgFileTooLarge,
			Detail:  fmt.Sprintf("%d bytes", len(req.Image)),
		}
	}
	if len(s.cfg.App.AllowedFormats) > 0 {
		if mt, ok := utils.IsAllowedFormat(req.Image, s.cfg.App.AllowedFormats); !ok {
			return &domain.InvalidInputError{
				Message: domain.MsgInvalidFileType,
				Detail:  fmt.Sprintf("detected %s, declared %q", mt, req.MimeType),
			}
		}
	}

	if s.cfg.App.MaxPixels > 0 {
		// Undecodable headers are left to the normalize stage.
		if w, h, err := utils.Dimensions(req.Image); err == nil && int64(w)*int64(h) > s.cfg.App.MaxPixels {
			return &domain.InvalidInputError{
				Message: domain.MsgImageTooLarge,
				Detail:  fmt.Sprintf("%dx%d", w, h),
			}
		}
	}

	return nil
}

func (s *generationService) generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	normalized, err := s.proc.Normalize(req.Image)
	if err != nil {
		return nil, domain.NewGenerationFailed("normalize", err)
	}

	handle, err := s.stager.Stage(ctx, normalized, utils.NormalizedFormat)
	if err != nil {
		return nil, domain.NewGenerationFailed("stage", err)
	}
	defer s.release(ctx, handle)

	text := prompt.Derive(req.AssetType)

	s.log.Info("Invoking image model",
		zap.String("asset_type", req.AssetType),
		zap.String("prompt", text),
		zap.String("staged_key", handle.Key))

	modelCtx := ctx
	if s.cfg.Replicate.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		modelCtx, cancel = context.WithTimeout(ctx, s.cfg.Replicate.GenerationTimeout)
		defer cancel()
	}

	outputs, err := s.model.Generate(modelCtx, domain.NewModelInput(text, handle.URL))
	if err != nil {
		return nil, domain.NewGenerationFailed("model", err)
	}
	if len(outputs) == 0 || outputs[0] == "" {
		return nil, domain.NewGenerationFailed("extract", errors.New("model returned no usable output"))
	}

	return &domain.GenerationResult{
		ImageURL:  outputs[0],
		AssetType: req.AssetType,
	}, nil
}

// release runs even when ctx is already cancelled so a disconnecting client
// cannot leave the artifact behind.
func (s *generationService) release(ctx context.Context, h staging.Handle) {
	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.releaseTimeout())
	defer cancel()

	if err := s.stager.Release(relCtx, h); err != nil {
		metrics.StagingReleaseFailures.Inc()
		s.log.Error("Failed to release staged artifact",
			zap.String("staged_key", h.Key),
			zap.Error(err))
	}
}

func (s *generationService) releaseTimeout() time.Duration {
	if s.cfg.Staging.ReleaseTimeout > 0 {
		return s.cfg.Staging.ReleaseTimeout
	}
	return 10 * time.Second
}
