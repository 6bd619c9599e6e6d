package sequence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/sequence"
)

func intPtr(i int) *int { return &i }

func twoItemSnapshot() sequence.Snapshot {
	return sequence.New(models.StudySequence{
		ID:   1,
		Name: "weekly plan",
		Items: []models.StudySequenceItem{
			{SubjectID: 10},
			{SubjectID: 20},
		},
	})
}

func logFor(subjectID int64, minutes int, itemIndex int) models.StudyLogEntry {
	return models.StudyLogEntry{
		SubjectID:         subjectID,
		DurationMinutes:   minutes,
		SequenceItemIndex: intPtr(itemIndex),
	}
}

func TestNew_ZeroesProgress(t *testing.T) {
	snap := sequence.New(models.StudySequence{
		ID:    1,
		Items: []models.StudySequenceItem{{SubjectID: 10, TotalTimeStudied: 45}},
	})

	assert.Equal(t, 0, snap.Sequence.Items[0].TotalTimeStudied)
	assert.Equal(t, 0, snap.Index)
}

func TestAdvanceOnLog_MeetingGoalAdvancesCursor(t *testing.T) {
	snap := sequence.New(models.StudySequence{
		ID:    1,
		Items: []models.StudySequenceItem{{SubjectID: 10}},
	})

	next, out := snap.AdvanceOnLog(logFor(10, 60, 0), 60)

	assert.True(t, out.Matched)
	assert.True(t, out.Advanced)
	assert.True(t, out.Completed, "single-item sequence completes")
	assert.Equal(t, 60, next.Sequence.Items[0].TotalTimeStudied)
	assert.Equal(t, 1, next.Index, "cursor lands on the completion sentinel")
	assert.True(t, next.Done())
}

func TestAdvanceOnLog_BelowGoalAccumulates(t *testing.T) {
	snap := twoItemSnapshot()

	next, out := snap.AdvanceOnLog(logFor(10, 30, 0), 60)

	assert.True(t, out.Matched)
	assert.False(t, out.Advanced)
	assert.Equal(t, 30, next.Sequence.Items[0].TotalTimeStudied)
	assert.Equal(t, 0, next.Index)

	next, out = next.AdvanceOnLog(logFor(10, 30, 0), 60)
	assert.True(t, out.Advanced, "goal met across two logs")
	assert.Equal(t, 1, next.Index)
	assert.False(t, next.Done())
}

func TestAdvanceOnLog_NonCursorItemAccumulatesWithoutAdvancing(t *testing.T) {
	snap := twoItemSnapshot()

	next, out := snap.AdvanceOnLog(logFor(20, 120, 1), 60)

	assert.True(t, out.Matched)
	assert.False(t, out.Advanced, "only the cursor item can advance the cursor")
	assert.Equal(t, 120, next.Sequence.Items[1].TotalTimeStudied)
	assert.Equal(t, 0, next.Index)
}

func TestAdvanceOnLog_MismatchesAreObservableNoOps(t *testing.T) {
	snap := twoItemSnapshot()

	// No attribution at all.
	next, out := snap.AdvanceOnLog(models.StudyLogEntry{SubjectID: 10, DurationMinutes: 60}, 60)
	assert.False(t, out.Matched)
	assert.Equal(t, snap, next)

	// Index out of range.
	next, out = snap.AdvanceOnLog(logFor(10, 60, 5), 60)
	assert.False(t, out.Matched)
	assert.Equal(t, snap, next)

	// Subject doesn't match the item at the index.
	next, out = snap.AdvanceOnLog(logFor(99, 60, 0), 60)
	assert.False(t, out.Matched)
	assert.Equal(t, snap, next)
}

func TestReverseOnLogDelete_RestoresPreAddValue(t *testing.T) {
	snap := twoItemSnapshot()
	entry := logFor(10, 30, 0)

	added, _ := snap.AdvanceOnLog(entry, 60)
	require.Equal(t, 30, added.Sequence.Items[0].TotalTimeStudied)

	reverted, out := added.ReverseOnLogDelete(entry)
	assert.True(t, out.Matched)
	assert.Equal(t, snap.Sequence.Items[0].TotalTimeStudied, reverted.Sequence.Items[0].TotalTimeStudied,
		"delete must restore the exact pre-add value")
}

func TestReverseOnLogEdit_AppliesDelta(t *testing.T) {
	snap := twoItemSnapshot()
	oldEntry := logFor(10, 30, 0)

	added, _ := snap.AdvanceOnLog(oldEntry, 60)

	newEntry := oldEntry
	newEntry.DurationMinutes = 45
	edited, out := added.ReverseOnLogEdit(oldEntry, newEntry)

	assert.True(t, out.Matched)
	assert.Equal(t, 45, edited.Sequence.Items[0].TotalTimeStudied)
}

func TestReverse_FloorsAtZero(t *testing.T) {
	snap := twoItemSnapshot()

	next, _ := snap.ReverseOnLogDelete(logFor(10, 500, 0))
	assert.Equal(t, 0, next.Sequence.Items[0].TotalTimeStudied)
}

func TestReverse_CursorIsNeverRewound(t *testing.T) {
	snap := twoItemSnapshot()
	entry := logFor(10, 60, 0)

	advanced, out := snap.AdvanceOnLog(entry, 60)
	require.True(t, out.Advanced)
	require.Equal(t, 1, advanced.Index)

	// Deleting the very log that completed the item leaves the cursor
	// where it is, with accumulated time below the goal. Documented,
	// possibly-unintended behavior preserved from the original design.
	afterDelete, _ := advanced.ReverseOnLogDelete(entry)
	assert.Equal(t, 1, afterDelete.Index)
	assert.Equal(t, 0, afterDelete.Sequence.Items[0].TotalTimeStudied)

	edited := entry
	edited.DurationMinutes = 1
	afterEdit, _ := advanced.ReverseOnLogEdit(entry, edited)
	assert.Equal(t, 1, afterEdit.Index)
}

func TestReplace_NewIDResetsEverything(t *testing.T) {
	snap := twoItemSnapshot()
	snap, _ = snap.AdvanceOnLog(logFor(10, 60, 0), 60)
	require.Equal(t, 1, snap.Index)

	next := snap.Replace(models.StudySequence{
		ID:    2,
		Items: []models.StudySequenceItem{{SubjectID: 10, TotalTimeStudied: 99}},
	})

	assert.Equal(t, 0, next.Index)
	assert.Equal(t, 0, next.Sequence.Items[0].TotalTimeStudied)
}

func TestReplace_SameIDKeepsCursorWhenSubjectMatches(t *testing.T) {
	snap := twoItemSnapshot()
	snap, _ = snap.AdvanceOnLog(logFor(10, 60, 0), 60)
	require.Equal(t, 1, snap.Index)

	// Same id, item at cursor position still subject 20.
	next := snap.Replace(models.StudySequence{
		ID: 1,
		Items: []models.StudySequenceItem{
			{SubjectID: 10, TotalTimeStudied: 60},
			{SubjectID: 20},
			{SubjectID: 30},
		},
	})
	assert.Equal(t, 1, next.Index, "cursor preserved")

	// Same id but the cursor position now references another subject.
	next = snap.Replace(models.StudySequence{
		ID: 1,
		Items: []models.StudySequenceItem{
			{SubjectID: 30},
			{SubjectID: 40},
		},
	})
	assert.Equal(t, 0, next.Index, "cursor reset on mismatch")
}

func TestReset_ZeroesProgressAndCursor(t *testing.T) {
	snap := twoItemSnapshot()
	snap, _ = snap.AdvanceOnLog(logFor(10, 60, 0), 60)
	snap, _ = snap.AdvanceOnLog(logFor(20, 30, 1), 60)

	reset := snap.Reset()

	assert.Equal(t, 0, reset.Index)
	for _, it := range reset.Sequence.Items {
		assert.Equal(t, 0, it.TotalTimeStudied)
	}
	assert.Equal(t, snap.Sequence.ID, reset.Sequence.ID)
}

func TestSnapshot_OperationsDoNotMutateReceiver(t *testing.T) {
	snap := twoItemSnapshot()
	before := snap.Sequence.Items[0].TotalTimeStudied

	_, _ = snap.AdvanceOnLog(logFor(10, 60, 0), 60)

	assert.Equal(t, before, snap.Sequence.Items[0].TotalTimeStudied)
	assert.Equal(t, 0, snap.Index)
}
