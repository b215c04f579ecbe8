package gazestore

import (
	"errors"
	"slices"
	"strings"
)

/***** Filter *****/

// Filter is the filter bundle for sample-derived queries.
// It is immutable once finalized; build it with BuildFilter.
type Filter struct {
	testName     string
	participants []string
	timeline     string
	recording    string
	limit        uint
	offset       uint
}

func (f Filter) TestName() string {
	return f.testName
}

// Participants returns the sanitized allow-list. Empty means no restriction.
func (f Filter) Participants() []string {
	return f.participants
}

func (f Filter) HasParticipants() bool {
	return len(f.participants) > 0
}

func (f Filter) Timeline() string {
	return f.timeline
}

func (f Filter) Recording() string {
	return f.recording
}

// Limit returns the page size; 0 means unbounded.
func (f Filter) Limit() uint {
	return f.limit
}

// Offset returns the requested offset as supplied; see EffectiveOffset.
func (f Filter) Offset() uint {
	return f.offset
}

// EffectiveOffset returns the offset that is actually applied.
// An offset is only honored together with a limit > 0, otherwise it is ignored.
func (f Filter) EffectiveOffset() uint {
	if f.limit == 0 {
		return 0
	}

	return f.offset
}

// Unpaged returns a copy of the filter without limit and offset.
func (f Filter) Unpaged() Filter {
	f.limit = 0
	f.offset = 0

	return f
}

// RequireTestName returns ErrMissingParameter when no test name is set.
func (f Filter) RequireTestName() error {
	if f.testName == "" {
		return errors.Join(ErrMissingParameter, errors.New("test_name is required"))
	}

	return nil
}

/***** FilterBuilder *****/

// FilterBuilder builds a Filter. All methods sanitize their input:
//   - trimming whitespace
//   - ignoring blank values
//   - sorting and de-duplicating participants
type FilterBuilder struct {
	filter Filter
}

// BuildFilter creates a FilterBuilder which must eventually be finalized with Finalize().
func BuildFilter() FilterBuilder {
	return FilterBuilder{}
}

// ForTest sets the test name.
func (fb FilterBuilder) ForTest(testName string) FilterBuilder {
	fb.filter.testName = strings.TrimSpace(testName)

	return fb
}

// ForParticipants adds participants to the allow-list.
func (fb FilterBuilder) ForParticipants(participants ...string) FilterBuilder {
	all := make([]string, 0, len(fb.filter.participants)+len(participants))
	all = append(all, fb.filter.participants...)

	for _, p := range participants {
		all = append(all, strings.TrimSpace(p))
	}

	fb.filter.participants = sanitizeNames(all)

	return fb
}

// OnTimeline restricts to one timeline.
func (fb FilterBuilder) OnTimeline(timeline string) FilterBuilder {
	fb.filter.timeline = strings.TrimSpace(timeline)

	return fb
}

// InRecording restricts to one recording.
func (fb FilterBuilder) InRecording(recording string) FilterBuilder {
	fb.filter.recording = strings.TrimSpace(recording)

	return fb
}

// Paged sets limit and offset. A limit of 0 means unbounded, in which case the offset is ignored.
func (fb FilterBuilder) Paged(limit, offset uint) FilterBuilder {
	fb.filter.limit = limit
	fb.filter.offset = offset

	return fb
}

// Finalize returns the Filter.
func (fb FilterBuilder) Finalize() Filter {
	return fb.filter
}

func sanitizeNames(names []string) []string {
	names = slices.DeleteFunc(
		names,
		func(n string) bool {
			return n == ""
		})
	slices.Sort(names)
	names = slices.Compact(names)
	names = slices.Clip(names)

	return names
}
