package batch

// ProgressStatus is the state of one program within a batch chop run.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// ProgressEvent is emitted to the caller as a batch chop run progresses.
type ProgressEvent struct {
	Program string
	Status  ProgressStatus
	Message string
}
