package sequence

import "github.com/studyflow/studyflow/internal/models"

// Snapshot is the tracker state: an ordered study sequence plus a cursor
// into it. Index is always a valid item index or exactly len(Items), the
// completion sentinel. Snapshots are values; every operation returns a new
// one and leaves the receiver untouched.
type Snapshot struct {
	Sequence models.StudySequence `json:"sequence"`
	Index    int                  `json:"index"`
}

// Outcome reports what an operation did, so callers can observe
// consistency mismatches instead of having them silently swallowed.
type Outcome struct {
	Matched   bool `json:"matched"`   // the log's item index and subject lined up
	Advanced  bool `json:"advanced"`  // the cursor moved forward
	Completed bool `json:"completed"` // the cursor ran past the last item
}

// New builds a fresh snapshot for a sequence: every item's accumulated
// time zeroed and the cursor at the first item.
func New(seq models.StudySequence) Snapshot {
	items := make([]models.StudySequenceItem, len(seq.Items))
	for i, it := range seq.Items {
		items[i] = models.StudySequenceItem{SubjectID: it.SubjectID}
	}
	seq.Items = items
	return Snapshot{Sequence: seq}
}

// Done reports whether the cursor has run past the last item.
func (s Snapshot) Done() bool {
	return s.Index >= len(s.Sequence.Items)
}

// CurrentItem returns the item under the cursor, or false when the
// sequence is complete.
func (s Snapshot) CurrentItem() (models.StudySequenceItem, bool) {
	if s.Done() {
		return models.StudySequenceItem{}, false
	}
	return s.Sequence.Items[s.Index], true
}

// AdvanceOnLog credits a log entry's duration to the sequence item it is
// attributed to. goalMinutes is the studied subject's per-session goal.
// When the credited item is the one under the cursor and its accumulated
// time reaches the goal, the cursor advances; it may land one past the
// last index, which means the sequence is complete, not an error.
//
// Entries without an item index, or whose index/subject don't line up with
// the sequence, leave the snapshot unchanged and report Matched=false.
func (s Snapshot) AdvanceOnLog(entry models.StudyLogEntry, goalMinutes int) (Snapshot, Outcome) {
	idx, ok := s.itemIndexFor(entry)
	if !ok {
		return s, Outcome{}
	}

	next := s.cloneItems()
	next.Sequence.Items[idx].TotalTimeStudied += entry.DurationMinutes

	out := Outcome{Matched: true}
	if idx == s.Index && goalMinutes > 0 && next.Sequence.Items[idx].TotalTimeStudied >= goalMinutes {
		next.Index++
		out.Advanced = true
		out.Completed = next.Done()
	}
	return next, out
}

// ReverseOnLogEdit adjusts the credited item by the duration delta between
// the old and new versions of a log entry. The accumulated time is floored
// at zero. The cursor is never rewound, even when the item drops back
// below its goal.
func (s Snapshot) ReverseOnLogEdit(oldEntry, newEntry models.StudyLogEntry) (Snapshot, Outcome) {
	idx, ok := s.itemIndexFor(oldEntry)
	if !ok {
		return s, Outcome{}
	}
	next := s.cloneItems()
	total := next.Sequence.Items[idx].TotalTimeStudied + newEntry.DurationMinutes - oldEntry.DurationMinutes
	if total < 0 {
		total = 0
	}
	next.Sequence.Items[idx].TotalTimeStudied = total
	return next, Outcome{Matched: true}
}

// ReverseOnLogDelete subtracts a deleted log entry's duration from the
// credited item, floored at zero. The cursor is never rewound.
func (s Snapshot) ReverseOnLogDelete(entry models.StudyLogEntry) (Snapshot, Outcome) {
	idx, ok := s.itemIndexFor(entry)
	if !ok {
		return s, Outcome{}
	}
	next := s.cloneItems()
	total := next.Sequence.Items[idx].TotalTimeStudied - entry.DurationMinutes
	if total < 0 {
		total = 0
	}
	next.Sequence.Items[idx].TotalTimeStudied = total
	return next, Outcome{Matched: true}
}

// Replace swaps in another sequence. A different sequence id means a brand
// new plan: all progress zeroed, cursor reset. The same id means the
// current plan was edited in place; the cursor survives only if the item
// at its position still references the same subject.
func (s Snapshot) Replace(seq models.StudySequence) Snapshot {
	if seq.ID != s.Sequence.ID {
		return New(seq)
	}

	keep := false
	if s.Index < len(s.Sequence.Items) && s.Index < len(seq.Items) {
		keep = s.Sequence.Items[s.Index].SubjectID == seq.Items[s.Index].SubjectID
	}

	next := Snapshot{Sequence: seq}
	next.Sequence.Items = append([]models.StudySequenceItem(nil), seq.Items...)
	if keep {
		next.Index = s.Index
	}
	return next
}

// Reset zeroes every item's accumulated time and moves the cursor back to
// the first item. The sequence itself is unchanged.
func (s Snapshot) Reset() Snapshot {
	next := s.cloneItems()
	for i := range next.Sequence.Items {
		next.Sequence.Items[i].TotalTimeStudied = 0
	}
	next.Index = 0
	return next
}

// itemIndexFor validates an entry's attribution against the sequence:
// the index must be in range and the item there must reference the
// entry's subject.
func (s Snapshot) itemIndexFor(entry models.StudyLogEntry) (int, bool) {
	if entry.SequenceItemIndex == nil {
		return 0, false
	}
	idx := *entry.SequenceItemIndex
	if idx < 0 || idx >= len(s.Sequence.Items) {
		return 0, false
	}
	if s.Sequence.Items[idx].SubjectID != entry.SubjectID {
		return 0, false
	}
	return idx, true
}

func (s Snapshot) cloneItems() Snapshot {
	next := s
	next.Sequence.Items = append([]models.StudySequenceItem(nil), s.Sequence.Items...)
	return next
}
