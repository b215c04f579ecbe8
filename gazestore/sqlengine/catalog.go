package sqlengine

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TestImage returns the base64-encoded stimulus image of a test, read through the configured AssetResolver.
// The catalog row is picked by timeline when one is given. Its image_path wins over image_name.
// A test without catalog row, without image, or whose asset does not exist yields nil.
func (e *Engine) TestImage(ctx context.Context, testName, timeline string) (*string, error) {
	filter := gazestore.BuildFilter().ForTest(testName).OnTimeline(timeline).Finalize()
	ctx, observer := e.startOperation(ctx, operationTestImage, filterAttrs(filter))

	if err := e.requireTestName(ctx, filter); err != nil {
		return nil, observer.finishError(err)
	}

	row, found, err := e.catalogRow(ctx, filter, "")
	if err != nil {
		return nil, observer.finishError(err)
	}

	if !found {
		observer.finishSuccess(0)
		return nil, nil
	}

	relPath := strings.TrimSpace(row.LookupString(colImagePath))
	if relPath == "" {
		relPath = strings.TrimSpace(row.LookupString(colImageName))
	}

	if relPath == "" {
		observer.finishSuccess(0)
		return nil, nil
	}

	return e.resolveImage(ctx, observer, relPath, logAttrTestName, filter.TestName())
}

// ImageByPath returns the base64-encoded asset at relPath, e.g. an image_path taken from the catalog.
// An asset that does not exist yields nil.
func (e *Engine) ImageByPath(ctx context.Context, relPath string) (*string, error) {
	relPath = strings.TrimSpace(relPath)
	ctx, observer := e.startOperation(ctx, operationImageByPath, map[string]string{logAttrAssetPath: relPath})

	if relPath == "" {
		err := errors.Join(gazestore.ErrMissingParameter, errors.New("image path is required"))
		e.logWarn(ctx, logMsgMissingParameter, logAttrError, err.Error())

		return nil, observer.finishError(err)
	}

	return e.resolveImage(ctx, observer, relPath)
}

// resolveImage reads relPath through the AssetResolver and finishes the operation.
// logArgs identify the caller's subject in log lines.
func (e *Engine) resolveImage(
	ctx context.Context,
	observer *operationObserver,
	relPath string,
	logArgs ...any,
) (*string, error) {
	if e.assets == nil {
		return nil, observer.finishError(gazestore.ErrNoAssetResolver)
	}

	logArgs = append(logArgs, logAttrAssetPath, relPath)

	data, err := e.assets.Resolve(ctx, relPath)
	if err != nil {
		if errors.Is(err, gazestore.ErrAssetNotFound) {
			e.logWarn(ctx, logMsgAssetNotFound, logArgs...)
			observer.finishSuccess(0)

			return nil, nil
		}

		e.logError(ctx, logMsgAssetResolveFailed, err, logArgs...)

		return nil, observer.finishError(err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	observer.finishSuccess(1)

	return &encoded, nil
}

// AOIMap returns the areas of interest of a test in table order.
// An absent AOI table yields an empty result.
func (e *Engine) AOIMap(ctx context.Context, testName string) ([]gazestore.AOIRegion, error) {
	filter := gazestore.BuildFilter().ForTest(testName).Finalize()
	ctx, observer := e.startOperation(ctx, operationAOIMap, filterAttrs(filter))

	if err := e.requireTestName(ctx, filter); err != nil {
		return nil, observer.finishError(err)
	}

	rows, err := e.referenceRows(ctx, e.aoiTable)
	if err != nil {
		return nil, observer.finishError(err)
	}

	regions := gazestore.AOIRegions(rows, filter.TestName())
	observer.finishSuccess(len(regions))

	return regions, nil
}

// WordWindows returns the word time windows of a test, parsed from the catalog's word_windows_json.
// Entries accept w or chinese_word, start or start_sec, end or end_sec; the long keys win.
// Entries without a word or without both bounds are dropped. Malformed JSON yields an empty result.
func (e *Engine) WordWindows(ctx context.Context, testName, timeline string) ([]gazestore.WordWindow, error) {
	filter := gazestore.BuildFilter().ForTest(testName).OnTimeline(timeline).Finalize()
	ctx, observer := e.startOperation(ctx, operationWordWindows, filterAttrs(filter))

	if err := e.requireTestName(ctx, filter); err != nil {
		return nil, observer.finishError(err)
	}

	row, found, err := e.catalogRow(ctx, filter, colWordWindows)
	if err != nil {
		return nil, observer.finishError(err)
	}

	windows := make([]gazestore.WordWindow, 0)

	raw := strings.TrimSpace(row.LookupString(colWordWindows))
	if !found || raw == "" {
		observer.finishSuccess(0)
		return windows, nil
	}

	var entries []wordWindowEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		e.logWarn(ctx, logMsgMalformedWordWindows, logAttrTestName, filter.TestName(), logAttrError, err.Error())
		observer.finishSuccess(0)

		return windows, nil
	}

	rowTimeline := row.LookupString(colCatalogTimeline)
	for _, entry := range entries {
		if w, ok := entry.toWordWindow(filter.TestName(), rowTimeline); ok {
			windows = append(windows, w)
		}
	}

	observer.finishSuccess(len(windows))

	return windows, nil
}

type wordWindowEntry struct {
	W           *string  `json:"w"`
	ChineseWord *string  `json:"chinese_word"`
	Start       *float64 `json:"start"`
	StartSec    *float64 `json:"start_sec"`
	End         *float64 `json:"end"`
	EndSec      *float64 `json:"end_sec"`
}

func (w wordWindowEntry) toWordWindow(testName, timeline string) (gazestore.WordWindow, bool) {
	word := firstNonNil(w.ChineseWord, w.W)
	start := firstNonNil(w.StartSec, w.Start)
	end := firstNonNil(w.EndSec, w.End)

	if word == nil || *word == "" || start == nil || end == nil {
		return gazestore.WordWindow{}, false
	}

	if math.IsNaN(*start) || math.IsInf(*start, 0) || math.IsNaN(*end) || math.IsInf(*end, 0) {
		return gazestore.WordWindow{}, false
	}

	return gazestore.WordWindow{
		ChineseWord: *word,
		StartSec:    *start,
		EndSec:      *end,
		TestName:    testName,
		Timeline:    timeline,
	}, true
}

func firstNonNil[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}

	return nil
}

// catalogRow picks the catalog row of the filter's test: the one on the filter's timeline if any,
// else the first with a non-blank preferColumn (when given), else the first row of the test.
func (e *Engine) catalogRow(
	ctx context.Context,
	filter gazestore.Filter,
	preferColumn string,
) (gazestore.ReferenceRow, bool, error) {

	rows, err := e.referenceRows(ctx, e.catalogTable)
	if err != nil {
		return gazestore.ReferenceRow{}, false, err
	}

	testRows := make([]gazestore.ReferenceRow, 0)
	for _, row := range rows {
		if row.LookupString(colTestName) == filter.TestName() {
			testRows = append(testRows, row)
		}
	}

	if len(testRows) == 0 {
		return gazestore.ReferenceRow{}, false, nil
	}

	if filter.Timeline() != "" {
		for _, row := range testRows {
			if row.LookupString(colCatalogTimeline) == filter.Timeline() {
				return row, true, nil
			}
		}
	}

	if preferColumn != "" {
		for _, row := range testRows {
			if strings.TrimSpace(row.LookupString(preferColumn)) != "" {
				return row, true, nil
			}
		}
	}

	return testRows[0], true, nil
}
