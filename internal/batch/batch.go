// Package batch runs the chopper over many independent programs in
// parallel. A chop call touches no process-wide state, so fanning multiple
// calls out across goroutines is safe.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arborist-dev/chopper/internal/chopper"
	"github.com/arborist-dev/chopper/internal/vil"
)

// Job is one program to chop, named for progress reporting and result
// correlation.
type Job struct {
	Name    string
	Program *vil.Program
}

// JobResult holds the outcome of one Job after ChopAll.
type JobResult struct {
	Name   string
	Result *chopper.Result
	Err    error
}

// ChopAll dispatches every job to Chop in parallel via errgroup, emitting
// progress events through onProgress if non-nil. Unlike errgroup's usual
// fail-fast convention, one job's failure does not cancel the others —
// each program's chop is independent, so a malformed program must not
// abort chops that would otherwise succeed. ChopAll itself never returns
// an error; failures are carried per-job in JobResult.Err.
func ChopAll(ctx context.Context, jobs []Job, onProgress func(ProgressEvent), opts ...chopper.Option) []JobResult {
	results := make([]JobResult, len(jobs))
	g, _ := errgroup.WithContext(ctx)

	emit := func(ev ProgressEvent) {
		if onProgress != nil {
			onProgress(ev)
		}
	}

	for i, job := range jobs {
		i, job := i, job
		emit(ProgressEvent{Program: job.Name, Status: ProgressPending})

		g.Go(func() error {
			emit(ProgressEvent{Program: job.Name, Status: ProgressWorking})

			res, err := chopper.Chop(job.Program, opts...)
			if err != nil {
				results[i] = JobResult{Name: job.Name, Err: err}
				emit(ProgressEvent{Program: job.Name, Status: ProgressFailed, Message: err.Error()})
				return nil // do not cancel sibling jobs
			}

			results[i] = JobResult{Name: job.Name, Result: res}
			emit(ProgressEvent{Program: job.Name, Status: ProgressComplete})
			return nil
		})
	}

	_ = g.Wait()
	return results
}
