package domain

import "fmt"

const (
	MsgNoFile           = "No file uploaded"
	MsgAssetTypeMissing = "Asset type is required"
	MsgFileTooLarge     = "File too large"
	MsgInvalidFileType  = "Invalid file type"
	MsgImageTooLarge    = "Image too large"
	MsgGenerationFailed = "Failed to generate image"
)

// MissingInputError reports a required request field that was not supplied.
type MissingInputError struct {
	Field   string
	Message string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing %s: %s", e.Field, e.Message)
}

var (
	ErrNoFile           = &MissingInputError{Field: "image", Message: MsgNoFile}
	ErrAssetTypeMissing = &MissingInputError{Field: "assetType", Message: MsgAssetTypeMissing}
)

// InvalidInputError reports an upload rejected by server-side validation.
type InvalidInputError struct {
	Message string
	Detail  string
}

func (e *InvalidInputError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid input: %s (%s)", e.Message, e.Detail)
	}
	return "invalid input: " + e.Message
}

// GenerationFailedError hides the cause of a failed generation from callers.
// The cause stays reachable through Unwrap for logging.
type GenerationFailedError struct {
	Stage string
	Err   error
}

func NewGenerationFailed(stage string, err error) *GenerationFailedError {
	return &GenerationFailedError{Stage: stage, Err: err}
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Err
}
