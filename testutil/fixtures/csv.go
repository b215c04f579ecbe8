package fixtures

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

const (
	logMsgSkippedRecord = "skipped malformed csv record"
	logAttrLine         = "line"
	logAttrError        = "error"
)

// csvColumns are the header names a sample CSV export must carry, in any order.
var csvColumns = []string{
	"gaze_point_x", "gaze_point_y", "box_name", "presented_media_name", "timeline_name",
	"participant_name", "recording_name", "exact_time", "test_name",
}

// LoadSamplesCSV reads samples from a CSV export with a header row.
// A malformed record is skipped with a warning and counted; it never aborts the load.
// Empty coordinates are NULL.
func LoadSamplesCSV(r io.Reader, logger gazestore.Logger) ([]gazestore.GazeSample, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, 0, fmt.Errorf("read csv header: missing column %q", col)
		}
	}

	samples := make([]gazestore.GazeSample, 0)
	skipped := 0

	for line := 2; ; line++ {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr == nil {
			var sample gazestore.GazeSample
			if sample, readErr = parseSampleRecord(record, index); readErr == nil {
				samples = append(samples, sample)
				continue
			}
		}

		skipped++
		if logger != nil {
			logger.Warn(logMsgSkippedRecord, logAttrLine, line, logAttrError, readErr.Error())
		}
	}

	return samples, skipped, nil
}

func parseSampleRecord(record []string, index map[string]int) (gazestore.GazeSample, error) {
	field := func(name string) (string, error) {
		i := index[name]
		if i >= len(record) {
			return "", fmt.Errorf("record has %d fields, column %q is missing", len(record), name)
		}

		return strings.TrimSpace(record[i]), nil
	}

	values := make(map[string]string, len(csvColumns))
	for _, col := range csvColumns {
		v, err := field(col)
		if err != nil {
			return gazestore.GazeSample{}, err
		}
		values[col] = v
	}

	x, err := parseOptionalFloat(values["gaze_point_x"])
	if err != nil {
		return gazestore.GazeSample{}, err
	}

	y, err := parseOptionalFloat(values["gaze_point_y"])
	if err != nil {
		return gazestore.GazeSample{}, err
	}

	if values["test_name"] == "" {
		return gazestore.GazeSample{}, errors.New("test_name is empty")
	}

	return gazestore.GazeSample{
		X:           x,
		Y:           y,
		Box:         values["box_name"],
		MediaName:   values["presented_media_name"],
		Timeline:    values["timeline_name"],
		Participant: values["participant_name"],
		Recording:   values["recording_name"],
		Timestamp:   values["exact_time"],
		TestName:    values["test_name"],
	}, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}

	return &f, nil
}
