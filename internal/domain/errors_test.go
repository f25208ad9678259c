package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationFailedErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewGenerationFailed("model", context.DeadlineExceeded))

	var failed *GenerationFailedError
	assert.True(t, errors.As(err, &failed))
	assert.Equal(t, "model", failed.Stage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMissingInputError(t *testing.T) {
	var missing *MissingInputError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", ErrNoFile), &missing))
	assert.Equal(t, MsgNoFile, missing.Message)
	assert.Equal(t, "missing assetType: Asset type is required", ErrAssetTypeMissing.Error())
}

func TestInvalidInputError(t *testing.T) {
	assert.Equal(t, "invalid input: File too large", (&InvalidInputError{Message: MsgFileTooLarge}).Error())
	assert.Equal(t, "invalid input: Invalid file type (text/plain)",
		(&InvalidInputError{Message: MsgInvalidFileType, Detail: "text/plain"}).Error())
}
