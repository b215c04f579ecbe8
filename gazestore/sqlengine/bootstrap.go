package sqlengine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

// Bootstrap loads the reference tables and the AOI map, and derives participants, test names, and relation maps
// from the live overlay. All loads run concurrently; the first failure cancels the rest.
func (e *Engine) Bootstrap(ctx context.Context) (gazestore.StaticData, error) {
	ctx, observer := e.startOperation(ctx, operationBootstrap, nil)

	tables := make([][]gazestore.ReferenceRow, len(e.referenceTables))
	var triples []gazestore.Slice
	var aoiRows []gazestore.ReferenceRow

	g, gctx := errgroup.WithContext(ctx)

	for i, table := range e.referenceTables {
		g.Go(func() error {
			rows, err := e.referenceRows(gctx, table)
			if err != nil {
				return err
			}
			tables[i] = rows

			return nil
		})
	}

	g.Go(func() error {
		var err error
		aoiRows, err = e.referenceRows(gctx, e.aoiTable)

		return err
	})

	g.Go(func() error {
		var err error
		triples, err = e.triples(gctx, operationBootstrap, "", nil)

		return err
	})

	if err := g.Wait(); err != nil {
		return gazestore.StaticData{}, observer.finishError(err)
	}

	overlay := e.snapshot()
	relations := gazestore.BuildRelationMaps(triples, overlay)

	data := gazestore.StaticData{
		TestCatalog:        tables[0],
		TestGroup:          tables[1],
		Recordings:         tables[2],
		Participants:       liveNames(triples, overlay, func(s gazestore.Slice) string { return s.ParticipantName }),
		TestNames:          liveNames(triples, overlay, func(s gazestore.Slice) string { return s.TestName }),
		ParticipantsByTest: relations.ParticipantsByTest,
		TestsByParticipant: relations.TestsByParticipant,
		AOIMap:             gazestore.AOIRegions(aoiRows, ""),
	}

	observer.finishSuccess(len(triples))

	return data, nil
}
