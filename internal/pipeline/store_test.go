package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
)

func testBulletin(id string, eventIDs ...string) *catalogue.Catalogue {
	cat := catalogue.New(id, id)
	for _, eid := range eventIDs {
		origin := &catalogue.Origin{
			ID:     eid + "-o1",
			Time:   time.Date(2004, 1, 25, 11, 43, 11, 0, time.UTC),
			Author: "ISC",
			Location: catalogue.Location{
				OriginID:  eid + "-o1",
				Longitude: 102.0,
				Latitude:  -3.3,
			},
		}
		mag := catalogue.NewMagnitude(eid, origin.ID, 5.6, "ISC", "mb")
		origin.Magnitudes = []catalogue.Magnitude{mag}
		cat.Events = append(cat.Events, &catalogue.Event{
			ID:         eid,
			Origins:    []*catalogue.Origin{origin},
			Magnitudes: []catalogue.Magnitude{mag},
		})
	}
	return cat
}

func TestStoreFirstBulletinBecomesPrimary(t *testing.T) {
	store := NewStore("master", "Master Catalogue")
	require.NoError(t, store.Merge(testBulletin("b1", "evt1", "evt2")))

	sum := store.Summary()
	assert.Equal(t, "master", sum.ID)
	assert.Equal(t, "Master Catalogue", sum.Name)
	assert.Equal(t, 2, sum.Events)
	assert.Equal(t, 2, sum.Origins)
	assert.Equal(t, 2, sum.Magnitudes)
	assert.Equal(t, 1, sum.Bulletins)
}

func TestStoreLaterBulletinsRefine(t *testing.T) {
	store := NewStore("master", "Master Catalogue")
	require.NoError(t, store.Merge(testBulletin("b1", "evt1")))

	secondary := testBulletin("b2", "evt1", "evt9")
	secondary.Events[0].Origins[0].ID = "evt1-o2"
	secondary.Events[0].Origins[0].Location.OriginID = "evt1-o2"
	require.NoError(t, store.Merge(secondary))

	sum := store.Summary()
	// evt1 gains the new origin; evt9 is unknown to the primary and dropped.
	assert.Equal(t, 1, sum.Events)
	assert.Equal(t, 2, sum.Origins)
	assert.Equal(t, 2, sum.Bulletins)
}

func TestStoreMergeConflictSurfaces(t *testing.T) {
	store := NewStore("master", "Master Catalogue")
	require.NoError(t, store.Merge(testBulletin("b1", "evt1")))

	conflicting := testBulletin("b2", "evt1")
	conflicting.Events[0].Origins[0].Magnitudes[0].Value = 6.9

	err := store.Merge(conflicting)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalogue.ErrMagnitudeConflict)

	// The failed bulletin is not counted.
	assert.Equal(t, 1, store.Summary().Bulletins)
}
