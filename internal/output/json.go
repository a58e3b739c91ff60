package output

import (
	"encoding/json"
)

// JSONFormatter formats reports as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (jf *JSONFormatter) Name() string { return "json" }

// Format generates JSON output for a report
func (jf *JSONFormatter) Format(r *Report) ([]byte, error) {
	if jf.Pretty {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return json.Marshal(r)
}
