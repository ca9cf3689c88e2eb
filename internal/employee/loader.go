package employee

import (
	"encoding/json"
	"fmt"
	"os"
)

type dataset struct {
	Employees []Record `json:"employees"`
}

// Load reads the employee dataset from path. A missing or unparseable file
// is a structural failure reported to the caller; per-record field omissions
// are not errors.
func Load(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return ds.Employees, nil
}
