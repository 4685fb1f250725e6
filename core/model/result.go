package model

// CompanyDetail is the per-company snapshot accumulated over all of a
// company's records for the target month.
type CompanyDetail struct {
	Company   string `json:"company"`
	Employee  string `json:"employee"`
	Morning   int    `json:"morning"`
	Afternoon int    `json:"afternoon"`
	Headcount int    `json:"headcount"`
	// PlannedDays is the largest total-days-planned seen across records.
	PlannedDays int `json:"plannedDays"`
	// TotalDays only grows: max(current, resolved day count) per record.
	TotalDays     int      `json:"totalDays"`
	PeriodTotal   int      `json:"periodTotal"`
	Status        Status   `json:"status"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	ExplicitDates string   `json:"explicitDates"`
	BloodDrawDate string   `json:"bloodDrawDate"`
	Priority      bool     `json:"priority"`
	Notes         string   `json:"notes"`
	Records       int      `json:"records"`
	Clinical      Clinical `json:"clinical"`
}

// TimelineRow is one company row of the calendar grid. Days[i] is the
// headcount on day-of-month i+1.
type TimelineRow struct {
	Company       string `json:"company"`
	Employee      string `json:"employee"`
	Days          []int  `json:"days"`
	Total         int    `json:"total"`
	Status        Status `json:"status"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	ExplicitDates string `json:"explicitDates"`
	BloodDrawDate string `json:"bloodDrawDate"`
	Priority      bool   `json:"priority"`
}

// Timeline is the company-by-day grid for one month.
type Timeline struct {
	Dates    []int         `json:"dates"`
	Weekdays []string      `json:"weekdays"`
	Rows     []TimelineRow `json:"rows"`
	// Totals[i] is the grand total across companies on day i+1.
	Totals []int `json:"totals"`
}

// Summary carries the grid-wide figures of an aggregation result.
type Summary struct {
	TotalCompanies     int    `json:"totalCompanies"`
	CompletedCompanies int    `json:"completedCompanies"`
	PendingCompanies   int    `json:"pendingCompanies"`
	CurrentMonth       int    `json:"currentMonth"`
	CurrentYear        int    `json:"currentYear"`
	MaxPeoplePerDay    int    `json:"maxPeoplePerDay"`
	AveragePerDay      int    `json:"averagePerDay"`
	TotalPeople        int    `json:"totalPeople"`
	TotalRecords       int    `json:"totalRecords"`
	ProcessedRecords   int    `json:"processedRecords"`
	ShiftFilter        Shift  `json:"shiftFilter"`
	TimeWindow         Window `json:"timeWindow"`
}

// Result is the aggregation response. Every field is always populated, even
// on failure, so consumers only need to branch on Success.
type Result struct {
	Success        bool                     `json:"success"`
	Error          string                   `json:"error,omitempty"`
	Timeline       Timeline                 `json:"timeline"`
	CompanyDetails map[string]CompanyDetail `json:"companyDetails"`
	Summary        Summary                  `json:"summary"`
	Employees      []string                 `json:"employees"`
}

// EmptyTimeline returns a timeline with non-nil, empty slices.
func EmptyTimeline() Timeline {
	return Timeline{Dates: []int{}, Weekdays: []string{}, Rows: []TimelineRow{}, Totals: []int{}}
}

// FailedResult builds the fixed-shape failure response.
func FailedResult(err error) *Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &Result{
		Success:        false,
		Error:          msg,
		Timeline:       EmptyTimeline(),
		CompanyDetails: map[string]CompanyDetail{},
		Employees:      []string{},
	}
}
