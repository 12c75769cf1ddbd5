package models

// TaskPerformanceSummary holds the per-task counters produced by the task
// runner at task completion. The engine never sees individual stimuli, only
// these aggregates plus the raw response-time list for variability analysis.
type TaskPerformanceSummary struct {
	TaskType            string    `json:"taskType"`
	CorrectResponses    int       `json:"correctResponses"`
	IncorrectResponses  int       `json:"incorrectResponses"`
	MissedResponses     int       `json:"missedResponses"`
	PrematureResponses  int       `json:"prematureResponses"`
	AverageResponseMs   float64   `json:"averageResponseMs"`
	ResponseTimes       []float64 `json:"responseTimes"`
	TaskDurationSeconds float64   `json:"taskDurationSeconds"`
}

// TotalResponses counts every trial the participant acted on or missed.
func (s *TaskPerformanceSummary) TotalResponses() int {
	return s.CorrectResponses + s.IncorrectResponses + s.MissedResponses
}
