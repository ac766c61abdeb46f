package task

// Stats summarises a student's task list. Total == Completed + Pending + Overdue.
type Stats struct {
	Total     int `json:"total_tareas"`
	Completed int `json:"completadas"`
	Pending   int `json:"pendientes"`
	Overdue   int `json:"vencidas"`
}

// ComputeStats classifies every row exactly once: completed, else overdue, else pending.
func ComputeStats(rows []StudentTask) Stats {
	stats := Stats{Total: len(rows)}
	for _, row := range rows {
		switch {
		case row.Completed:
			stats.Completed++
		case row.Overdue:
			stats.Overdue++
		default:
			stats.Pending++
		}
	}
	return stats
}
