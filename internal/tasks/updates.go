package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event of one source.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Source  string  // Source name
	Stage   Stage   // Stage the source just entered
	Message string  // Human-readable message for display
	Result  *Result // Final result, set only when Stage is Done
}

// Stage enumerates the per-source pipeline states.
type Stage int

const (
	LoadLocal Stage = iota
	FetchRemote
	Normalize
	CheckConsistency
	Diff
	Write
	Skip
	Done
)

func (s Stage) String() string {
	switch s {
	case LoadLocal:
		return "load_local"
	case FetchRemote:
		return "fetch_remote"
	case Normalize:
		return "normalize"
	case CheckConsistency:
		return "check_consistency"
	case Diff:
		return "diff"
	case Write:
		return "write"
	case Skip:
		return "skip"
	case Done:
		return "done"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func loadLocalUpdate(name, path string) ProgressUpdate {
	return ProgressUpdate{Source: name, Stage: LoadLocal, Message: fmt.Sprintf("Loading local song list at %s", path)}
}

func fetchRemoteUpdate(name string) ProgressUpdate {
	return ProgressUpdate{Source: name, Stage: FetchRemote, Message: "Fetching song list..."}
}

func normalizeUpdate(name string, n int) ProgressUpdate {
	return ProgressUpdate{Source: name, Stage: Normalize, Message: fmt.Sprintf("Normalizing %d songs...", n)}
}

func checkUpdate(name string) ProgressUpdate {
	return ProgressUpdate{Source: name, Stage: CheckConsistency, Message: "Verifying categories..."}
}

func diffUpdate(name string) ProgressUpdate {
	return ProgressUpdate{Source: name, Stage: Diff, Message: "Comparing with local song list..."}
}

func writeUpdate(name, path string) ProgressUpdate {
	return ProgressUpdate{Source: name, Stage: Write, Message: fmt.Sprintf("Writing new data to %s", path)}
}

func skipUpdate(name string) ProgressUpdate {
	return ProgressUpdate{Source: name, Stage: Skip, Message: "Local song list already up-to-date"}
}

func doneUpdate(res Result) ProgressUpdate {
	msg := fmt.Sprintf("Done: %s", res.Outcome)
	if res.Err != nil {
		msg = fmt.Sprintf("Failed during %s: %v", res.Stage, res.Err)
	}
	return ProgressUpdate{Source: res.Source, Stage: Done, Message: msg, Result: &res}
}
