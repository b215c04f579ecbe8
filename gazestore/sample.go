package gazestore

// GazeSample is a single eye-tracking sample as read from the backing store.
type GazeSample struct {
	X           *float64 `json:"gaze_x"`
	Y           *float64 `json:"gaze_y"`
	Box         string   `json:"box_name"`
	MediaName   string   `json:"media_name"`
	Timeline    string   `json:"timeline"`
	Participant string   `json:"participant"`
	Recording   string   `json:"recording"`
	Timestamp   string   `json:"timestamp"`
	TestName    string   `json:"test_name"`
}

// Slice returns the (test, recording, participant) triple the sample belongs to.
func (s GazeSample) Slice() Slice {
	return Slice{
		TestName:        s.TestName,
		RecordingName:   s.Recording,
		ParticipantName: s.Participant,
	}
}

// GazeSamples is a timestamp-ordered sequence of GazeSample.
type GazeSamples = []GazeSample

// TimelineRecording is a distinct (timeline, recording) pair.
type TimelineRecording struct {
	Timeline  string `json:"timeline"`
	Recording string `json:"recording"`
}

// WordWindow is a timed word annotation taken from the test catalog.
type WordWindow struct {
	ChineseWord string  `json:"chinese_word"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	TestName    string  `json:"test_name"`
	Timeline    string  `json:"timeline"`
}
