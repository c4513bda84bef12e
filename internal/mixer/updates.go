package mixer

import "fmt"

// ProgressUpdate represents a progress event during a mix run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within the run
	Total   int    // Total steps in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Pipeline phase enumeration
type Phase int

const (
	BuildPoolsPhase Phase = iota
	AllocatePhase
	SelectPhase
	InterleavePhase
	DonePhase
)

func (p Phase) String() string {
	switch p {
	case BuildPoolsPhase:
		return "build_pools"
	case AllocatePhase:
		return "allocate"
	case SelectPhase:
		return "select"
	case InterleavePhase:
		return "interleave"
	case DonePhase:
		return "done"
	default:
		return ""
	}
}

func buildPoolsUpdate(step, total, sources int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildPoolsPhase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Shuffling %d source pools...", sources),
	}
}

func allocateUpdate(step, total, requested int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AllocatePhase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Allocating %d slots across sources...", requested),
	}
}

func selectUpdate(step, total, perArtist int) ProgressUpdate {
	msg := "Selecting tracks..."
	if perArtist > 0 {
		msg = fmt.Sprintf("Selecting tracks (max %d per artist)...", perArtist)
	}
	return ProgressUpdate{
		Phase:   SelectPhase,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}

func interleaveUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InterleavePhase,
		Step:    step,
		Total:   total,
		Message: "Interleaving selections...",
	}
}

func mixedUpdate(got, requested int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DonePhase,
		Step:    4,
		Total:   4,
		Message: fmt.Sprintf("Mixed playlist ready: %d/%d tracks", got, requested),
	}
}
