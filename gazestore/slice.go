package gazestore

import (
	"cmp"
	"slices"
)

// Slice is the (test, recording, participant) triple, the unit of inclusion and exclusion.
type Slice struct {
	TestName        string `json:"test_name"`
	RecordingName   string `json:"recording_name"`
	ParticipantName string `json:"participant_name"`
}

// S is a shorthand constructor for a Slice.
func S(testName, recordingName, participantName string) Slice {
	return Slice{
		TestName:        testName,
		RecordingName:   recordingName,
		ParticipantName: participantName,
	}
}

func compareSlices(a, b Slice) int {
	return cmp.Or(
		cmp.Compare(a.TestName, b.TestName),
		cmp.Compare(a.ParticipantName, b.ParticipantName),
		cmp.Compare(a.RecordingName, b.RecordingName),
	)
}

// SortSlices sorts by test, participant, recording.
func SortSlices(s []Slice) {
	slices.SortFunc(s, compareSlices)
}

// SliceStatus is a Slice annotated with its current overlay membership.
type SliceStatus struct {
	Slice
	Excluded bool `json:"excluded"`
}

/***** SliceSet *****/

// SliceSet is an immutable set of Slice. The zero value is an empty set.
// Mutating operations return a new set and leave the receiver untouched,
// so a SliceSet can be shared between goroutines without locking.
type SliceSet struct {
	members map[Slice]struct{}
}

// NewSliceSet builds a SliceSet from the given slices, dropping duplicates.
func NewSliceSet(s ...Slice) SliceSet {
	members := make(map[Slice]struct{}, len(s))
	for _, sl := range s {
		members[sl] = struct{}{}
	}

	return SliceSet{members: members}
}

// Contains reports whether the slice is a member.
func (ss SliceSet) Contains(s Slice) bool {
	_, ok := ss.members[s]
	return ok
}

// Len returns the number of members.
func (ss SliceSet) Len() int {
	return len(ss.members)
}

// Slices returns the members sorted by test, participant, recording.
func (ss SliceSet) Slices() []Slice {
	out := make([]Slice, 0, len(ss.members))
	for s := range ss.members {
		out = append(out, s)
	}
	SortSlices(out)

	return out
}

// Equal reports whether both sets have the same members.
func (ss SliceSet) Equal(other SliceSet) bool {
	if ss.Len() != other.Len() {
		return false
	}

	for s := range ss.members {
		if !other.Contains(s) {
			return false
		}
	}

	return true
}

// With returns a copy of the set including s.
func (ss SliceSet) With(s Slice) SliceSet {
	out := ss.clone(len(ss.members) + 1)
	out.members[s] = struct{}{}

	return out
}

// Without returns a copy of the set excluding s.
func (ss SliceSet) Without(s Slice) SliceSet {
	out := ss.clone(len(ss.members))
	delete(out.members, s)

	return out
}

// CompatibleWith returns the sorted members that can affect a query with the given filter:
// same test, participant inside the allow-list (when one is given), same recording (when one is given).
func (ss SliceSet) CompatibleWith(filter Filter) []Slice {
	out := make([]Slice, 0)

	for s := range ss.members {
		if filter.TestName() != "" && s.TestName != filter.TestName() {
			continue
		}

		if filter.HasParticipants() && !slices.Contains(filter.Participants(), s.ParticipantName) {
			continue
		}

		if filter.Recording() != "" && s.RecordingName != filter.Recording() {
			continue
		}

		out = append(out, s)
	}
	SortSlices(out)

	return out
}

func (ss SliceSet) clone(capacity int) SliceSet {
	members := make(map[Slice]struct{}, capacity)
	for s := range ss.members {
		members[s] = struct{}{}
	}

	return SliceSet{members: members}
}
