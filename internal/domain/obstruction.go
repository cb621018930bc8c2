package domain

type ObstructionState string

const (
	ObstructionClear        ObstructionState = "clear"
	ObstructionDialog       ObstructionState = "blocked-by: dialog"
	ObstructionModalOverlay ObstructionState = "blocked-by: modal-overlay"
)

// ObstructionReport is what one resolve pass observed. Faults counts interactions that failed and were
// treated as no-ops.
type ObstructionReport struct {
	State    ObstructionState
	Attempts int
	Faults   int
}

func (r ObstructionReport) Clear() bool {
	return r.State == ObstructionClear
}
