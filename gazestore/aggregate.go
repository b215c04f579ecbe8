package gazestore

import (
	"slices"
	"sort"
	"strings"
)

/***** Box statistics *****/

// BoxStats holds per-box sample counts and their share of the filtered total.
type BoxStats struct {
	BoxPercentages map[string]float64 `json:"box_percentages"`
	BoxCounts      map[string]int     `json:"box_counts"`
	TotalPoints    int                `json:"total_points"`
}

// ComputeBoxStats turns per-box counts into percentages of their sum.
// A zero total yields empty maps and TotalPoints 0.
func ComputeBoxStats(counts map[string]int) BoxStats {
	stats := BoxStats{
		BoxPercentages: make(map[string]float64),
		BoxCounts:      make(map[string]int),
	}

	for box, n := range counts {
		if n <= 0 {
			continue
		}
		stats.BoxCounts[box] = n
		stats.TotalPoints += n
	}

	if stats.TotalPoints == 0 {
		return stats
	}

	for box, n := range stats.BoxCounts {
		stats.BoxPercentages[box] = float64(n) / float64(stats.TotalPoints) * 100
	}

	return stats
}

/***** Relation maps *****/

// BuildRelationMaps relates tests and participants over all triples not contained in the overlay.
// A (test, participant) pair survives as long as at least one of its recordings is not excluded.
func BuildRelationMaps(triples []Slice, overlay SliceSet) RelationMaps {
	byTest := make(map[string][]string)
	byParticipant := make(map[string][]string)

	for _, s := range triples {
		if overlay.Contains(s) || s.TestName == "" || s.ParticipantName == "" {
			continue
		}
		byTest[s.TestName] = append(byTest[s.TestName], s.ParticipantName)
		byParticipant[s.ParticipantName] = append(byParticipant[s.ParticipantName], s.TestName)
	}

	for k, v := range byTest {
		byTest[k] = sortedUnique(v)
	}

	for k, v := range byParticipant {
		byParticipant[k] = sortedUnique(v)
	}

	return RelationMaps{
		ParticipantsByTest: byTest,
		TestsByParticipant: byParticipant,
	}
}

// Keys returns the sorted keys of a relation map.
func Keys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// StatusOf annotates triples with their overlay membership.
func StatusOf(triples []Slice, overlay SliceSet) []SliceStatus {
	out := make([]SliceStatus, 0, len(triples))
	for _, s := range triples {
		out = append(out, SliceStatus{Slice: s, Excluded: overlay.Contains(s)})
	}

	return out
}

func sortedUnique(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)

	return slices.Clip(slices.Compact(out))
}

/***** Search aggregation *****/

// CatalogEntry is the free-text catalog dimension of a test.
type CatalogEntry struct {
	TestName  string
	Group     *string
	ImageName *string
	Sentence  *string
}

// CatalogEntryFromRow reads a CatalogEntry from a test catalog reference row.
func CatalogEntryFromRow(row ReferenceRow) CatalogEntry {
	return CatalogEntry{
		TestName:  row.LookupString("test_name"),
		Group:     row.Lookup("group"),
		ImageName: row.Lookup("image_name"),
		Sentence:  row.Lookup("sentence"),
	}
}

// SliceDurations holds the per-kind duration sums of one triple.
// The row counts tell whether a kind is present at all.
type SliceDurations struct {
	Slice
	MP4Rows    int
	MP4Seconds float64
	PNGRows    int
	PNGSeconds float64
}

func (d SliceDurations) HasMP4() bool {
	return d.MP4Rows > 0
}

func (d SliceDurations) HasPNG() bool {
	return d.PNGRows > 0
}

// IsOccurrence reports whether both media kinds are present for the triple.
func (d SliceDurations) IsOccurrence() bool {
	return d.HasMP4() && d.HasPNG()
}

// SearchTestRow is the per-test search summary.
type SearchTestRow struct {
	TestName               string   `json:"test_name"`
	Group                  *string  `json:"group"`
	ImageName              *string  `json:"image_name"`
	Sentence               *string  `json:"sentence"`
	AvgPairDurationSeconds *float64 `json:"avg_pair_duration_seconds"`
	Occurrences            int      `json:"occurrences"`
	MP4Triples             int      `json:"mp4_triples"`
	PNGTriples             int      `json:"png_triples"`
}

// SearchSliceRow is the per-slice search listing.
type SearchSliceRow struct {
	TestName            string   `json:"test_name"`
	RecordingName       string   `json:"recording_name"`
	ParticipantName     string   `json:"participant_name"`
	Group               *string  `json:"group"`
	ImageName           *string  `json:"image_name"`
	Sentence            *string  `json:"sentence"`
	PairDurationSeconds *float64 `json:"pair_duration_seconds"`
	MP4DurationSeconds  *float64 `json:"mp4_duration_seconds"`
	PNGDurationSeconds  *float64 `json:"png_duration_seconds"`
	Excluded            bool     `json:"excluded"`
}

// MediaKind classifies a media name by its file extension.
type MediaKind int

const (
	MediaOther MediaKind = iota
	MediaMP4
	MediaPNG
)

// MediaKindOf returns the kind of a media name, case-insensitive.
func MediaKindOf(mediaName string) MediaKind {
	name := strings.ToLower(strings.TrimSpace(mediaName))

	switch {
	case strings.HasSuffix(name, ".mp4"):
		return MediaMP4
	case strings.HasSuffix(name, ".png"):
		return MediaPNG
	default:
		return MediaOther
	}
}

// AggregateSearchTests joins the catalog with per-triple durations into one row per test.
//
// Triples in the overlay are dropped. A triple counts as an occurrence only if both kinds are present;
// the average pair duration runs over occurrences only and stays nil without any.
// Tests present on only one side still get a row (left-join semantics in both directions).
func AggregateSearchTests(catalog []CatalogEntry, durations []SliceDurations, overlay SliceSet) []SearchTestRow {
	rows := make(map[string]*SearchTestRow)
	pairSums := make(map[string]float64)

	rowFor := func(testName string) *SearchTestRow {
		if r, ok := rows[testName]; ok {
			return r
		}
		r := &SearchTestRow{TestName: testName}
		rows[testName] = r

		return r
	}

	for _, c := range catalog {
		if c.TestName == "" {
			continue
		}
		if _, seen := rows[c.TestName]; seen {
			continue // first catalog row per test wins
		}
		r := rowFor(c.TestName)
		r.Group, r.ImageName, r.Sentence = c.Group, c.ImageName, c.Sentence
	}

	for _, d := range durations {
		if d.TestName == "" || overlay.Contains(d.Slice) {
			continue
		}
		r := rowFor(d.TestName)

		if d.HasMP4() {
			r.MP4Triples++
		}

		if d.HasPNG() {
			r.PNGTriples++
		}

		if d.IsOccurrence() {
			r.Occurrences++
			pairSums[d.TestName] += d.MP4Seconds + d.PNGSeconds
		}
	}

	out := make([]SearchTestRow, 0, len(rows))
	for name, r := range rows {
		if r.Occurrences > 0 {
			avg := pairSums[name] / float64(r.Occurrences)
			r.AvgPairDurationSeconds = &avg
		}
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TestName < out[j].TestName })

	return out
}

// BuildSearchSliceRows joins per-triple durations with the catalog and annotates overlay membership.
// Catalog fields are nil for tests without a catalog row; the pair duration is nil unless both kinds are present.
func BuildSearchSliceRows(catalog []CatalogEntry, durations []SliceDurations, overlay SliceSet) []SearchSliceRow {
	byTest := make(map[string]CatalogEntry, len(catalog))
	for _, c := range catalog {
		if _, seen := byTest[c.TestName]; !seen {
			byTest[c.TestName] = c
		}
	}

	out := make([]SearchSliceRow, 0, len(durations))
	for _, d := range durations {
		c := byTest[d.TestName]
		row := SearchSliceRow{
			TestName:        d.TestName,
			RecordingName:   d.RecordingName,
			ParticipantName: d.ParticipantName,
			Group:           c.Group,
			ImageName:       c.ImageName,
			Sentence:        c.Sentence,
			Excluded:        overlay.Contains(d.Slice),
		}

		if d.HasMP4() {
			v := d.MP4Seconds
			row.MP4DurationSeconds = &v
		}

		if d.HasPNG() {
			v := d.PNGSeconds
			row.PNGDurationSeconds = &v
		}

		if d.IsOccurrence() {
			v := d.MP4Seconds + d.PNGSeconds
			row.PairDurationSeconds = &v
		}

		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return compareSlices(
			S(out[i].TestName, out[i].RecordingName, out[i].ParticipantName),
			S(out[j].TestName, out[j].RecordingName, out[j].ParticipantName),
		) < 0
	})

	return out
}
