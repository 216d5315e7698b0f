package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one rendered scene in the output manifest.
type ManifestEntry struct {
	Name     string   `json:"name"`
	Image    string   `json:"image"`
	Warnings []string `json:"warnings,omitempty"`
}

// WriteManifest writes the successful results to path as JSON. Image
// paths are relative to the output directory.
func WriteManifest(path, format string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:     r.Name,
			Image:    fmt.Sprintf("%s.%s", r.Name, format),
			Warnings: r.Warnings,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
