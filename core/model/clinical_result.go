package model

import (
	"encoding/json"
	"fmt"
)

// ClinicalDay is one day of the clinical rollup. It serializes flat:
// {"date", "dateKey", "max", <18 counters>}.
type ClinicalDay struct {
	Date     string
	DateKey  string
	Max      int
	Counters Clinical
}

func (d ClinicalDay) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, ClinicalCount+3)
	for k, v := range d.Counters.Fields() {
		m[k] = v
	}
	m["date"] = d.Date
	m["dateKey"] = d.DateKey
	m["max"] = d.Max
	return json.Marshal(m)
}

func (d *ClinicalDay) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = ClinicalDay{}
	for k, v := range raw {
		var err error
		switch k {
		case "date":
			err = json.Unmarshal(v, &d.Date)
		case "dateKey":
			err = json.Unmarshal(v, &d.DateKey)
		case "max":
			err = json.Unmarshal(v, &d.Max)
		default:
			i, ok := clinicalIndex[k]
			if !ok {
				return fmt.Errorf("unknown clinical field %q", k)
			}
			err = json.Unmarshal(v, &d.Counters[i])
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
	}
	return nil
}

// ClinicalSummary carries month-wide figures of the clinical rollup.
type ClinicalSummary struct {
	Month            int      `json:"month"`
	Year             int      `json:"year"`
	Days             int      `json:"days"`
	ActiveDays       int      `json:"activeDays"`
	Companies        int      `json:"companies"`
	TotalRecords     int      `json:"totalRecords"`
	ProcessedRecords int      `json:"processedRecords"`
	Totals           Clinical `json:"totals"`
}

// ClinicalResult is the day-indexed clinical report.
type ClinicalResult struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Data    []ClinicalDay    `json:"data"`
	Columns []ClinicalColumn `json:"columns"`
	Summary ClinicalSummary  `json:"summary"`
}

// FailedClinical builds the fixed-shape failure response of the rollup.
func FailedClinical(err error) *ClinicalResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &ClinicalResult{
		Error:   msg,
		Data:    []ClinicalDay{},
		Columns: ClinicalColumns,
	}
}
