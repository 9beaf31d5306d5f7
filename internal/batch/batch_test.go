package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/chopper/internal/vil"
)

func TestChopAll_RunsEveryJobIndependently(t *testing.T) {
	jobs := []Job{
		{Name: "one", Program: &vil.Program{Name: "one", Members: []vil.Member{&vil.Method{Name: "A", Body: []vil.Stmt{}}}}},
		{Name: "two", Program: &vil.Program{Name: "two", Members: []vil.Member{&vil.Method{Name: "B", Body: []vil.Stmt{}}}}},
	}

	var events []ProgressEvent
	results := ChopAll(context.Background(), jobs, func(ev ProgressEvent) {
		events = append(events, ev)
	})

	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Result)
		assert.Len(t, r.Result.Programs, 1)
	}

	var sawComplete int
	for _, ev := range events {
		if ev.Status == ProgressComplete {
			sawComplete++
		}
	}
	assert.Equal(t, 2, sawComplete)
}

func TestChopAll_OneJobFailing_DoesNotAbortOthers(t *testing.T) {
	jobs := []Job{
		{Name: "bad", Program: &vil.Program{Name: "bad", Members: []vil.Member{&vil.PluginMember{Name: "x", Kind: "unknown"}}}},
		{Name: "good", Program: &vil.Program{Name: "good", Members: []vil.Member{&vil.Method{Name: "A", Body: []vil.Stmt{}}}}},
	}

	results := ChopAll(context.Background(), jobs, nil)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	require.NotNil(t, results[1].Result)
}
