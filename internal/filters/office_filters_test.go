package filters

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/justatarek/ergodnc/internal/utils"
)

func TestHostVisibilityAnonymous(t *testing.T) {
	q := HostVisibility(NewOfficeQuery(), Criteria{})

	require.Equal(t, []string{
		"offices.approval_status = ?",
		"offices.is_hidden = FALSE",
	}, q.Conds())
	require.Equal(t, []any{"approved"}, q.Args())
}

func TestHostVisibilityForeignHostStaysRestricted(t *testing.T) {
	me := uuid.New()
	them := uuid.New()
	q := HostVisibility(NewOfficeQuery(), Criteria{UserID: &me, HostID: &them})

	conds := q.Conds()
	require.Len(t, conds, 3)
	require.Equal(t, "offices.user_id = ?", conds[2])
	require.Equal(t, []any{"approved", them}, q.Args())
}

// A host browsing their own listings sees hidden and pending offices.
func TestHostVisibilityOwnListingBypass(t *testing.T) {
	me := uuid.New()
	q := HostVisibility(NewOfficeQuery(), Criteria{UserID: &me, HostID: &me})

	require.Equal(t, []string{"offices.user_id = ?"}, q.Conds())
	require.Equal(t, []any{me}, q.Args())
}

func TestVisitorHistory(t *testing.T) {
	require.Empty(t, VisitorHistory(NewOfficeQuery(), Criteria{}).Conds())

	visitor := uuid.New()
	q := VisitorHistory(NewOfficeQuery(), Criteria{VisitorID: &visitor})
	require.Len(t, q.Conds(), 1)
	require.Contains(t, q.Conds()[0], "EXISTS (SELECT 1 FROM reservations")
	require.Equal(t, []any{visitor}, q.Args())
}

func TestNearestOrdering(t *testing.T) {
	lat, lng := 38.72, -9.14

	q := Nearest(NewOfficeQuery(), Criteria{Lat: &lat, Lng: &lng})
	require.Contains(t, q.Order(), "POW(69.1 * (offices.lat - ?), 2)")
	require.Contains(t, q.Order(), "COS(offices.lat / 57.3)")
	require.Equal(t, []any{lat, lng}, q.Args())

	// one missing coordinate falls back to id ordering
	q = Nearest(NewOfficeQuery(), Criteria{Lat: &lat})
	require.Equal(t, "offices.id", q.Order())
}

func TestTagsRequiresEveryTag(t *testing.T) {
	require.Empty(t, Tags(NewOfficeQuery(), Criteria{}).Conds())

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	q := Tags(NewOfficeQuery(), Criteria{TagIDs: ids})
	require.Len(t, q.Conds(), 1)
	require.Contains(t, q.Conds()[0], "COUNT(DISTINCT ot.tag_id)")

	args := q.Args()
	require.Len(t, args, 2)
	require.Equal(t, []string{ids[0].String(), ids[1].String()}, args[0])
	require.Equal(t, 2, args[1])
}

func TestRenderRenumbersAcrossStages(t *testing.T) {
	me := uuid.New()
	them := uuid.New()
	lat, lng := 40.0, -73.9
	tagID := uuid.New()

	q := Apply(NewOfficeQuery(), Criteria{
		UserID:    &me,
		HostID:    &them,
		VisitorID: utils.Ptr(uuid.New()),
		Lat:       &lat,
		Lng:       &lng,
		TagIDs:    []uuid.UUID{tagID},
	}, HostVisibility, VisitorHistory, Nearest, Tags)

	whereSQL, orderSQL, args := q.Render()

	require.True(t, strings.HasPrefix(whereSQL, "WHERE "))
	require.NotContains(t, whereSQL, "?")
	require.NotContains(t, orderSQL, "?")

	// sequential placeholders, WHERE args first, ORDER BY args last
	for i := 1; i <= len(args); i++ {
		placeholder := "$" + string(rune('0'+i))
		require.True(t,
			strings.Contains(whereSQL, placeholder) || strings.Contains(orderSQL, placeholder),
			"missing placeholder %s", placeholder)
	}
	require.Equal(t, lat, args[len(args)-2])
	require.Equal(t, lng, args[len(args)-1])
}

func TestRenderDefaultOrdering(t *testing.T) {
	whereSQL, orderSQL, args := NewOfficeQuery().Render()
	require.Empty(t, whereSQL)
	require.Equal(t, "ORDER BY offices.id", orderSQL)
	require.Empty(t, args)
}
