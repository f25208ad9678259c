package domain

// GenerationRequest is one upload as received over HTTP. It is never persisted.
type GenerationRequest struct {
	Image     []byte
	MimeType  string
	AssetType string
}

// GenerationResult is the artifact reference handed back to the caller.
type GenerationResult struct {
	ImageURL  string `json:"imageUrl"`
	AssetType string `json:"assetType"`
}

// AssetDescriptor is an entry of the selectable asset catalog.
type AssetDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
