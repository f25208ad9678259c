package domain

import "context"

// ModelInput carries the sampling parameters sent to the hosted model.
type ModelInput struct {
	Prompt            string
	ImageURL          string
	NumOutputs        int
	GuidanceScale     float64
	NumInferenceSteps int
	StylePreset       string
}

// Fixed sampling parameters for icon generation.
const (
	DefaultNumOutputs        = 1
	DefaultGuidanceScale     = 7.5
	DefaultNumInferenceSteps = 50
	DefaultStylePreset       = "icon"
)

// NewModelInput fills in the fixed icon sampling parameters.
func NewModelInput(prompt, imageURL string) ModelInput {
	return ModelInput{
		Prompt:            prompt,
		ImageURL:          imageURL,
		NumOutputs:        DefaultNumOutputs,
		GuidanceScale:     DefaultGuidanceScale,
		NumInferenceSteps: DefaultNumInferenceSteps,
		StylePreset:       DefaultStylePreset,
	}
}

// ImageModel is a hosted text-to-image model conditioned on a reference image.
type ImageModel interface {
	// Generate runs the model once and returns its output references in order.
	Generate(ctx context.Context, in ModelInput) ([]string, error)
}
