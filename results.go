package flowgraph

// Status is the terminal state of one processor within a single execute
// call. Exactly one of Success, Error, or Cancelled holds for every
// processor id in the pipeline once a run finishes (spec.md §7).
type Status string

const (
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// CancelFailFastReason is the generic reason id recorded when a reactive
// task learns of a fail_fast abort only through the tracker's broadcast
// channel, which does not carry the id of the failed processor.
const CancelFailFastReason = "fail_fast"

// Result is the terminal record for one processor id.
type Result struct {
	ID       string
	Status   Status
	Payload  []byte
	Metadata Metadata
	Err      *ProcessorError
	// CancelReason holds the id of the failed processor that triggered
	// cancellation (under either policy), or CancelFailFastReason for a
	// reactive task aborted by the fail_fast broadcast. Only meaningful when
	// Status == StatusCancelled.
	CancelReason string
}

// Results is the mapping from processor id to terminal Result returned by
// Execute for every processor that reached a terminal state.
type Results map[string]Result
