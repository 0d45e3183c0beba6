package patch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// writeMetadata atomically (over)writes metadata.json for the patch at dir.
func writeMetadata(dir string, p Patch) error {
	data, err := json.MarshalIndent(p, "", " ")
	if err != nil {
 return err
	}
	return atomicWrite(filepath.Join(dir, "metadata.json"), data)
}

// readMetadata loads metadata.json from dir.
func readMetadata(dir string) (Patch, error) {
	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
 return Patch{}, err
	}
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
 return Patch{}, err
	}
	return p, nil
}
