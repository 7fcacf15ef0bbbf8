package filters

import (
	"github.com/google/uuid"

	"github.com/justatarek/ergodnc/internal/models"
)

/*
   Criteria carries the independent listing inputs. Every field is
   optional; a stage whose trigger is absent must pass the query through
   untouched (except HostVisibility, which owns the default visibility
   rule for non-owner listings).
*/
type Criteria struct {
	// Authenticated requester, if any.
	UserID *uuid.UUID

	HostID    *uuid.UUID
	VisitorID *uuid.UUID

	Lat *float64
	Lng *float64

	TagIDs []uuid.UUID
}

// Stage narrows a query from one criterion without knowing about the
// others. Stages are pure: same inputs, same output, no I/O.
type Stage func(OfficeQuery, Criteria) OfficeQuery

// Apply runs the stages in order. The stage list is passed explicitly at
// the call site; there is no registry.
func Apply(q OfficeQuery, c Criteria, stages ...Stage) OfficeQuery {
	for _, stage := range stages {
		q = stage(q, c)
	}
	return q
}

// HostVisibility restricts listings to approved, non-hidden offices unless
// a host is browsing their own inventory, in which case they see
// everything they own, hidden and pending included. A given host id always
// narrows to that host.
func HostVisibility(q OfficeQuery, c Criteria) OfficeQuery {
	ownListing := c.HostID != nil && c.UserID != nil && *c.UserID == *c.HostID
	if !ownListing {
		q = q.
			Where("offices.approval_status = ?", string(models.OfficeStatusApproved)).
			Where("offices.is_hidden = FALSE")
	}
	if c.HostID != nil {
		q = q.Where("offices.user_id = ?", *c.HostID)
	}
	return q
}

// VisitorHistory keeps only offices the visitor has ever reserved,
// regardless of reservation status.
func VisitorHistory(q OfficeQuery, c Criteria) OfficeQuery {
	if c.VisitorID == nil {
		return q
	}
	return q.Where(
		"EXISTS (SELECT 1 FROM reservations r WHERE r.office_id = offices.id AND r.user_id = ?)",
		*c.VisitorID,
	)
}

// Nearest orders by ascending approximate planar distance when both
// coordinates are given, ascending id otherwise.
func Nearest(q OfficeQuery, c Criteria) OfficeQuery {
	if c.Lat != nil && c.Lng != nil {
		return q.OrderBy(
			"POW(69.1 * (offices.lat - ?), 2) + POW(69.1 * (? - offices.lng) * COS(offices.lat / 57.3), 2)",
			*c.Lat, *c.Lng,
		)
	}
	return q.OrderBy("offices.id")
}

// Tags keeps offices holding every one of the given tags (exact match
// count, not "any").
func Tags(q OfficeQuery, c Criteria) OfficeQuery {
	if len(c.TagIDs) == 0 {
		return q
	}
	ids := make([]string, len(c.TagIDs))
	for i, id := range c.TagIDs {
		ids[i] = id.String()
	}
	return q.Where(
		"(SELECT COUNT(DISTINCT ot.tag_id) FROM office_tag ot WHERE ot.office_id = offices.id AND ot.tag_id = ANY(?::uuid[])) = ?",
		ids, len(ids),
	)
}
