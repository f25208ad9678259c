package replicate

import (
	"context"
	"errors"
	"fmt"
	"time"

	r8 "github.com/replicate/replicate-go"
	"go.uber.org/zap"

	"iconforge/internal/config"
	"iconforge/internal/domain"
)

var ErrEmptyOutput = errors.New("model returned no outputs")

type runFunc func(ctx context.Context, identifier string, input r8.PredictionInput) (r8.PredictionOutput, error)

// Client runs predictions against one Replicate model version.
type Client struct {
	api   *r8.Client
	model string
	run   runFunc
	log   *zap.Logger
}

// NewClient builds the Replicate API client once; callers inject it where needed.
func NewClient(cfg config.ReplicateConfig, log *zap.Logger) (*Client, error) {
	opts := []r8.ClientOption{r8.WithToken(cfg.APIToken)}
	if cfg.BaseURL != "" {
		opts = append(opts, r8.WithBaseURL(cfg.BaseURL))
	}

	api, err := r8.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create replicate client: %w", err)
	}

	return &Client{
		api:   api,
		model: cfg.Model,
		run: func(ctx context.Context, identifier string, input r8.PredictionInput) (r8.PredictionOutput, error) {
			return api.Run(ctx, identifier, input, nil)
		},
		log: log,
	}, nil
}

// API exposes the underlying SDK client, e.g. for the files API.
func (c *Client) API() *r8.Client {
	return c.api
}

// Generate implements domain.ImageModel.
func (c *Client) Generate(ctx context.Context, in domain.ModelInput) ([]string, error) {
	input := r8.PredictionInput{
		"prompt":              in.Prompt,
		"image":               in.ImageURL,
		"num_outputs":         in.NumOutputs,
		"guidance_scale":      in.GuidanceScale,
		"num_inference_steps": in.NumInferenceSteps,
		"style_preset":        in.StylePreset,
	}

	start := time.Now()
	output, err := c.run(ctx, c.model, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run model %s: %w", c.model, err)
	}

	urls, err := outputURLs(output)
	if err != nil {
		return nil, err
	}

	c.log.Info("Prediction completed",
		zap.String("model", c.model),
		zap.Int("outputs", len(urls)),
		zap.Duration("elapsed", time.Since(start)))

	return urls, nil
}

// outputURLs flattens the shapes Replicate uses for image outputs: a single
// string or a list of strings.
func outputURLs(output r8.PredictionOutput) ([]string, error) {
	switch v := output.(type) {
	case nil:
		return nil, ErrEmptyOutput
	case string:
		if v == "" {
			return nil, ErrEmptyOutput
		}
		return []string{v}, nil
	case []string:
		if len(v) == 0 {
			return nil, ErrEmptyOutput
		}
		return v, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, ErrEmptyOutput
		}
		urls := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected output element %d of type %T", i, item)
			}
			urls = append(urls, s)
		}
		return urls, nil
	default:
		return nil, fmt.Errorf("unexpected output type %T", output)
	}
}
