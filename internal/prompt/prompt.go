// Package prompt maps asset-type labels to generation instructions.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"iconforge/internal/domain"
)

// FallbackTemplate is used for asset types missing from the canonical table.
// The asset type is substituted with its original casing.
const FallbackTemplate = "A simple, minimalist %s icon in a clean style"

var canonical = map[string]string{
	"checkmark":   "A simple, clean checkmark icon in a minimalist style",
	"warning":     "A minimalist warning triangle icon with exclamation mark",
	"information": "A clean information icon with letter i",
	"success":     "A simple success icon with checkmark",
	"error":       "A minimalist error or close icon with X mark",
}

// Derive returns the prompt for assetType. It never fails.
func Derive(assetType string) string {
	if p, ok := canonical[strings.ToLower(assetType)]; ok {
		return p
	}
	return fmt.Sprintf(FallbackTemplate, assetType)
}

// Canonical reports whether assetType has a hand-authored prompt.
func Canonical(assetType string) bool {
	_, ok := canonical[strings.ToLower(assetType)]
	return ok
}

// CanonicalKeys lists the table keys in sorted order.
func CanonicalKeys() []string {
	keys := make([]string, 0, len(canonical))
	for k := range canonical {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var catalog = []domain.AssetDescriptor{
	{ID: "checkmark", Name: "Checkmark", Description: "Indicates a completed action or positive result."},
	{ID: "warning", Name: "Warning Triangle", Description: "Signals caution or a potential issue."},
	{ID: "cross", Name: "Cross", Description: "Marks a failed action or a dismissal."},
	{ID: "info", Name: "Information Circle", Description: "Points to additional details."},
	{ID: "locked", Name: "Locked Padlock", Description: "Shows restricted or secured content."},
	{ID: "unlocked", Name: "Unlocked Padlock", Description: "Shows content that is open to access."},
	{ID: "hourglass", Name: "Hourglass", Description: "Indicates waiting or work in progress."},
	{ID: "stop", Name: "Stop Sign", Description: "Signals a blocking condition."},
}

// Catalog returns the asset types offered in the selection step.
func Catalog() []domain.AssetDescriptor {
	out := make([]domain.AssetDescriptor, len(catalog))
	copy(out, catalog)
	return out
}
