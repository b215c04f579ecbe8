package sqlengine_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/pool"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine"
	"github.com/AntonStoeckl/gaze-slices-go/testutil/fixtures"
)

type mapResolver map[string][]byte

func (m mapResolver) Resolve(_ context.Context, relPath string) ([]byte, error) {
	data, ok := m[relPath]
	if !ok {
		return nil, gazestore.ErrAssetNotFound
	}

	return data, nil
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) ([]byte, error) {
	return nil, errors.New("bucket unavailable")
}

func imageStore(t *testing.T) *fixtures.Store {
	t.Helper()

	store := fixtures.NewSQLiteStore(t, fixtures.CatalogTable)
	store.AddCatalog(t,
		fixtures.CatalogRecord{
			TestName:  "A",
			Timeline:  fixtures.Ptr("T1"),
			ImageName: fixtures.Ptr("a1.png"),
			WordWindows: fixtures.Ptr(
				`[{"w":"你","start":0.5,"end":1.0},{"chinese_word":"好","w":"x","start_sec":1.0,"start":9,"end_sec":1.75},{"w":"","start":1,"end":2},{"w":"缺","start":3}]`,
			),
		},
		fixtures.CatalogRecord{
			TestName:  "A",
			Timeline:  fixtures.Ptr("T2"),
			ImageName: fixtures.Ptr("ignored.png"),
			ImagePath: fixtures.Ptr("images/a2.png"),
		},
		fixtures.CatalogRecord{TestName: "B", WordWindows: fixtures.Ptr(`{not json`)},
		fixtures.CatalogRecord{TestName: "C", ImageName: fixtures.Ptr("missing.png")},
	)

	return store
}

func Test_TestImage(t *testing.T) {
	// setup
	resolver := mapResolver{
		"a1.png":        []byte("one"),
		"images/a2.png": []byte("two"),
	}
	engine := newEngine(t, imageStore(t), noExclusions(), sqlengine.WithAssetResolver(resolver))
	ctx := context.Background()

	// act
	byDefault, errDefault := engine.TestImage(ctx, "A", "")
	byTimeline, errTimeline := engine.TestImage(ctx, "A", "T2")
	missingAsset, errMissing := engine.TestImage(ctx, "C", "")
	unknownTest, errUnknown := engine.TestImage(ctx, "Z", "")

	// assert
	require.NoError(t, errDefault)
	require.NoError(t, errTimeline)
	require.NoError(t, errMissing)
	require.NoError(t, errUnknown)

	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("one")), *byDefault)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("two")), *byTimeline)
	assert.Nil(t, missingAsset)
	assert.Nil(t, unknownTest)
}

func Test_TestImage_When_NoResolverIsConfigured(t *testing.T) {
	engine := newEngine(t, imageStore(t), noExclusions())

	_, err := engine.TestImage(context.Background(), "A", "")

	assert.ErrorIs(t, err, gazestore.ErrNoAssetResolver)
}

func Test_TestImage_When_NoResolverIsConfigured_And_TestHasNoImage(t *testing.T) {
	// setup
	engine := newEngine(t, imageStore(t), noExclusions())
	ctx := context.Background()

	// act
	unknownTest, errUnknown := engine.TestImage(ctx, "Z", "")
	withoutImage, errWithout := engine.TestImage(ctx, "B", "")

	// assert
	require.NoError(t, errUnknown)
	require.NoError(t, errWithout)
	assert.Nil(t, unknownTest)
	assert.Nil(t, withoutImage)
}

func Test_TestImage_When_ResolverFails(t *testing.T) {
	engine := newEngine(t, imageStore(t), noExclusions(), sqlengine.WithAssetResolver(failingResolver{}))

	image, err := engine.TestImage(context.Background(), "A", "")

	assert.Error(t, err)
	assert.Nil(t, image)
}

func Test_WordWindows(t *testing.T) {
	// setup
	engine := newEngine(t, imageStore(t), noExclusions())

	// act
	windows, err := engine.WordWindows(context.Background(), "A", "")

	// assert
	require.NoError(t, err)
	assert.Equal(t, []gazestore.WordWindow{
		{ChineseWord: "你", StartSec: 0.5, EndSec: 1.0, TestName: "A", Timeline: "T1"},
		{ChineseWord: "好", StartSec: 1.0, EndSec: 1.75, TestName: "A", Timeline: "T1"},
	}, windows)
}

func Test_WordWindows_When_TimelineHasNone(t *testing.T) {
	engine := newEngine(t, imageStore(t), noExclusions())

	windows, err := engine.WordWindows(context.Background(), "A", "T2")

	require.NoError(t, err)
	assert.Empty(t, windows)
}

func Test_WordWindows_When_JSONIsMalformed(t *testing.T) {
	engine := newEngine(t, imageStore(t), noExclusions())

	windows, err := engine.WordWindows(context.Background(), "B", "")

	require.NoError(t, err)
	assert.NotNil(t, windows)
	assert.Empty(t, windows)
}

func Test_WordWindows_When_CatalogIsAbsent(t *testing.T) {
	engine := newEngine(t, scenarioStore(t), noExclusions())

	windows, err := engine.WordWindows(context.Background(), "A", "")

	require.NoError(t, err)
	assert.Empty(t, windows)
}

func Test_ImageByPath(t *testing.T) {
	// setup
	resolver := mapResolver{"images/a2.png": []byte("two")}
	engine := newEngine(t, scenarioStore(t), noExclusions(), sqlengine.WithAssetResolver(resolver))
	ctx := context.Background()

	// act
	found, errFound := engine.ImageByPath(ctx, " images/a2.png ")
	missing, errMissing := engine.ImageByPath(ctx, "images/none.png")
	_, errBlank := engine.ImageByPath(ctx, "  ")

	// assert
	require.NoError(t, errFound)
	require.NoError(t, errMissing)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("two")), *found)
	assert.Nil(t, missing)
	assert.ErrorIs(t, errBlank, gazestore.ErrMissingParameter)
}

func Test_ImageByPath_When_NoResolverIsConfigured(t *testing.T) {
	engine := newEngine(t, scenarioStore(t), noExclusions())

	_, err := engine.ImageByPath(context.Background(), "images/a2.png")

	assert.ErrorIs(t, err, gazestore.ErrNoAssetResolver)
}

func Test_AOIMap(t *testing.T) {
	// setup
	store := fixtures.NewSQLiteStore(t, fixtures.AOITable)
	store.AddAOIs(t,
		fixtures.AOIRecord{TestName: "A", Tag: "target", RegionID: fixtures.Ptr("X"), RGBHex: fixtures.Ptr("#ff0000")},
		fixtures.AOIRecord{TestName: "B", Tag: "target", RegionID: fixtures.Ptr("X")},
		fixtures.AOIRecord{TestName: "A", Tag: "distractor", RegionID: fixtures.Ptr("Y")},
		fixtures.AOIRecord{TestName: "A", Tag: "broken", RegionID: fixtures.Ptr("  ")},
		fixtures.AOIRecord{TestName: "A", Tag: "broken"},
	)
	engine := newEngine(t, store, noExclusions())

	// act
	regions, err := engine.AOIMap(context.Background(), "A")

	// assert
	require.NoError(t, err)
	assert.Equal(t, []gazestore.AOIRegion{
		{TestName: "A", Tag: "target", RegionID: "X", RGBHex: fixtures.Ptr("#ff0000")},
		{TestName: "A", Tag: "distractor", RegionID: "Y"},
	}, regions)
}

func Test_AOIMap_When_TableIsAbsent(t *testing.T) {
	engine := newEngine(t, scenarioStore(t), noExclusions())

	regions, err := engine.AOIMap(context.Background(), "A")

	require.NoError(t, err)
	assert.NotNil(t, regions)
	assert.Empty(t, regions)
}

func Test_AOIMap_With_Custom_Table(t *testing.T) {
	// setup
	store := fixtures.NewSQLiteStore(t, fixtures.AOITable)
	store.AddAOIs(t, fixtures.AOIRecord{TestName: "A", Tag: "target", RegionID: fixtures.Ptr("X")})
	engine := newEngine(t, store, noExclusions(), sqlengine.WithAOITable("regions"))

	// act
	regions, err := engine.AOIMap(context.Background(), "A")

	// assert
	require.NoError(t, err)
	assert.Empty(t, regions)

	_, err = sqlengine.NewEngineFromSQLDB(openDB(t, store, pool.DefaultConfig()), noExclusions(), sqlengine.WithAOITable(" "))
	assert.ErrorIs(t, err, gazestore.ErrEmptyTableName)
}

func Test_AOIMap_When_TestNameIsMissing(t *testing.T) {
	engine := newEngine(t, scenarioStore(t), noExclusions())

	_, err := engine.AOIMap(context.Background(), "")

	assert.ErrorIs(t, err, gazestore.ErrMissingParameter)
}
