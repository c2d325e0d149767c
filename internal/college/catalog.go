package college

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Lookup fetches fresh statistics for a college by display name. A nil patch
// or an error both mean "no data".
type Lookup interface {
	Lookup(ctx context.Context, name string) (*Patch, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, name string) (*Patch, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, name string) (*Patch, error) {
	return f(ctx, name)
}

// Catalog is the ordered list of colleges the user can pick from.
type Catalog struct {
	colleges []College
	byID     map[string]int
}

// NewCatalog builds a catalog over the given records.
func NewCatalog(colleges []College) *Catalog {
	c := &Catalog{
		colleges: append([]College(nil), colleges...),
		byID:     make(map[string]int, len(colleges)),
	}
	for i, col := range c.colleges {
		c.byID[col.ID] = i
	}
	return c
}

// Load enriches every fallback record in turn. Lookups run one after another
// with no retry; any failure keeps the static record and is logged at warn.
// A nil lookup means enrichment is disabled.
func Load(ctx context.Context, lookup Lookup, log *zap.SugaredLogger) *Catalog {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	static := Fallback()
	if lookup == nil {
		log.Debugw("enrichment disabled, using static catalog", "colleges", len(static))
		return NewCatalog(static)
	}

	out := make([]College, 0, len(static))
	for _, col := range static {
		if err := ctx.Err(); err != nil {
			log.Warnw("catalog load cancelled, keeping static record", "college", col.ID, "error", err)
			out = append(out, col)
			continue
		}
		patch, err := lookup.Lookup(ctx, col.Name)
		switch {
		case err != nil:
			log.Warnw("college enrichment unavailable, using fallback", "college", col.ID, "error", err)
			out = append(out, col)
		case patch == nil || patch.Empty():
			log.Warnw("college enrichment returned no data, using fallback", "college", col.ID)
			out = append(out, col)
		default:
			enriched := col.Apply(*patch)
			log.Infow("college enriched", "college", col.ID,
				"acceptance_rate", enriched.AcceptanceRate, "median_gpa", enriched.MedianGPA)
			out = append(out, enriched)
		}
	}
	return NewCatalog(out)
}

// All returns the records in display order.
func (c *Catalog) All() []College {
	return append([]College(nil), c.colleges...)
}

// Get returns the record with the given id.
func (c *Catalog) Get(id string) (College, error) {
	i, ok := c.byID[id]
	if !ok {
		return College{}, fmt.Errorf("%w: %q", ErrUnknownCollege, id)
	}
	return c.colleges[i], nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.colleges)
}
