package reports

type DepartmentHeadcount struct {
	DepartmentID   string `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	Headcount      int    `json:"headcount"`
}

type PeriodAverage struct {
	Period  string  `json:"period"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type RecognitionTotals struct {
	Month    string `json:"month"`
	Stars    int    `json:"stars"`
	Dislikes int    `json:"dislikes"`
}

type ExpenseTotals struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Total  string `json:"total"`
}

type CheckinParticipation struct {
	Answered  int     `json:"answered"`
	Headcount int     `json:"headcount"`
	Rate      float64 `json:"rate"`
}

// Summary is the KPI bundle behind GET /reports/summary. A manager sees
// their department; an admin sees everything.
type Summary struct {
	Headcount       []DepartmentHeadcount `json:"headcount"`
	Evaluations     []PeriodAverage       `json:"evaluations"`
	Recognition     []RecognitionTotals   `json:"recognition"`
	Expenses        []ExpenseTotals       `json:"expenses"`
	Checkins        CheckinParticipation  `json:"checkins"`
	DepartmentScope string                `json:"departmentScope,omitempty"`
}
