package output

import (
	"encoding/json"

	"github.com/ukpaye/payroll-engine/internal/payrun"
)

// JSONFormatter serializes the whole pay run, intermediate values included, as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(run *payrun.Run) ([]byte, error) {
	return json.MarshalIndent(run, "", "  ")
}
