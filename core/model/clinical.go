package model

import (
	"encoding/json"
	"fmt"
)

// ClinicalCount is the number of clinical sub-counters tracked per record:
// nine specialties, each split into a morning and an afternoon shift.
const ClinicalCount = 18

// ClinicalColumn describes one clinical sub-counter.
type ClinicalColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Shift Shift  `json:"shift"`
}

type specialty struct {
	key   string
	label string
}

var specialties = [ClinicalCount / 2]specialty{
	{"internal", "Nội khoa"},
	{"surgery", "Ngoại khoa"},
	{"gynecology", "Sản phụ khoa"},
	{"eye", "Mắt"},
	{"ent", "Tai mũi họng"},
	{"dental", "Răng hàm mặt"},
	{"dermatology", "Da liễu"},
	{"ultrasound", "Siêu âm"},
	{"xray", "X-quang"},
}

// ClinicalColumns lists the sub-counters in index order. Even indexes are
// morning counters, odd indexes the afternoon counterpart.
var ClinicalColumns = func() []ClinicalColumn {
	cols := make([]ClinicalColumn, 0, ClinicalCount)
	for _, sp := range specialties {
		cols = append(cols,
			ClinicalColumn{Key: sp.key + "Morning", Label: sp.label + " (sáng)", Shift: ShiftMorning},
			ClinicalColumn{Key: sp.key + "Afternoon", Label: sp.label + " (chiều)", Shift: ShiftAfternoon},
		)
	}
	return cols
}()

var clinicalIndex = func() map[string]int {
	idx := make(map[string]int, ClinicalCount)
	for i, c := range ClinicalColumns {
		idx[c.Key] = i
	}
	return idx
}()

// ClinicalIndex returns the position of the sub-counter with the given key.
func ClinicalIndex(key string) (int, bool) {
	i, ok := clinicalIndex[key]
	return i, ok
}

// Clinical holds the 18 clinical sub-counters. It serializes as an object
// keyed by ClinicalColumn.Key.
type Clinical [ClinicalCount]int

// Add accumulates o into c.
func (c *Clinical) Add(o Clinical) {
	for i := range c {
		c[i] += o[i]
	}
}

// Max returns the largest sub-counter.
func (c Clinical) Max() int {
	m := 0
	for _, v := range c {
		if v > m {
			m = v
		}
	}
	return m
}

// Sum returns the total of all sub-counters.
func (c Clinical) Sum() int {
	s := 0
	for _, v := range c {
		s += v
	}
	return s
}

// Fields returns the counters keyed by column key.
func (c Clinical) Fields() map[string]int {
	m := make(map[string]int, ClinicalCount)
	for i, col := range ClinicalColumns {
		m[col.Key] = c[i]
	}
	return m
}

func (c Clinical) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Fields())
}

func (c *Clinical) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*c = Clinical{}
	for k, v := range m {
		i, ok := clinicalIndex[k]
		if !ok {
			return fmt.Errorf("unknown clinical counter %q", k)
		}
		c[i] = v
	}
	return nil
}
