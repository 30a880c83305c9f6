package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one rendered job in the output manifest.
type ManifestEntry struct {
	Name    string `json:"name"`
	Config  string `json:"config"`
	Image   string `json:"image,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json for a finished run. jobs and results
// must be index-aligned.
func WriteManifest(path string, jobs []string, results []Result) error {
	entries := make([]ManifestEntry, len(jobs))
	for i, job := range jobs {
		entries[i] = ManifestEntry{
			Name:    results[i].Name,
			Config:  job,
			Image:   results[i].Image,
			Success: results[i].Success,
			Error:   results[i].Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
