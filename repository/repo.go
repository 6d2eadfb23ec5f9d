// Package repository offers a thin façade on top of the lower-level builders
// in the query package. It follows the functional-options pattern so callers
// can keep code terse while still accessing the full power of Redisearch,
// and it is where the SQL front end and the execution layer meet:
//
//	repo := repository.New("people_idx", conn)
//	people, err := repo.SearchSQL(ctx,
//	    "FirstName Should Equal 'Tim', Must(Type Must Equal '0')",
//	    repository.Select("first_name", "last_name"),
//	    repository.Limit(0, 100),
//	)
package repository

import (
	"context"

	"github.com/mgodwin/searchql/driver"
	q "github.com/mgodwin/searchql/query"
	"github.com/mgodwin/searchql/sqllang"
	"github.com/mgodwin/searchql/telemetry"
)

// Repository is bound to one RediSearch index.
type Repository struct {
	index string
	exec  driver.Executor
	hub   *telemetry.Hub
}

// New constructs a repository bound to a RediSearch index.
func New(index string, exec driver.Executor) *Repository {
	return &Repository{index: index, exec: exec}
}

// WithTelemetry attaches a hub; compile and search events are published to
// it. Returns the receiver for chaining.
func (r *Repository) WithTelemetry(h *telemetry.Hub) *Repository {
	r.hub = h
	return r
}

// -------------------------------------------------------------------
// SEARCH
// -------------------------------------------------------------------

// Search executes a FT.SEARCH using the provided where Expr and any search
// options (Select, SortAsc, Limit, …). It decodes the results into
// []map[string]string.
func (r *Repository) Search(
	ctx context.Context,
	where q.Expr,
	opts ...Opt,
) ([]map[string]string, error) {

	sb := q.NewSearch(r.index).
		Where(where).
		Using(r.exec)

	for _, opt := range opts {
		opt.applySearch(sb)
	}
	return sb.Run(ctx)
}

// SearchSQL compiles a WHERE-clause written in the SQL-like query language
// and executes it. The clause text and its compiled form are published to
// the attached telemetry hub.
func (r *Repository) SearchSQL(
	ctx context.Context,
	where string,
	opts ...Opt,
) ([]map[string]string, error) {

	tree, err := sqllang.Parse(where)
	if err != nil {
		r.hub.Publish(telemetry.Event{Kind: telemetry.KindCompile, Input: where, Err: err})
		return nil, err
	}
	r.hub.Publish(telemetry.Event{
		Kind:     telemetry.KindCompile,
		Input:    where,
		Compiled: q.Compile(tree),
	})

	rows, err := r.Search(ctx, tree, opts...)
	r.hub.Publish(telemetry.Event{Kind: telemetry.KindSearch, Input: where, Err: err})
	return rows, err
}

// Query scans a full SELECT statement, validates it against the allowed
// tables, and executes the resulting search. The statement's FROM table
// names the index, so this is not bound to the repository's own index.
func (r *Repository) Query(
	ctx context.Context,
	sql string,
	tables sqllang.TableSet,
) ([]map[string]string, error) {

	st, err := sqllang.ParseStatement(sql, tables)
	if err != nil {
		r.hub.Publish(telemetry.Event{Kind: telemetry.KindCompile, Input: sql, Err: err})
		return nil, err
	}

	sb := st.Search(r.exec)
	args, err := sb.RawArgs()
	if err != nil {
		return nil, err
	}
	r.hub.Publish(telemetry.Event{
		Kind:     telemetry.KindCompile,
		Input:    sql,
		Compiled: driverArgsString(args),
	})

	rows, err := sb.Run(ctx)
	r.hub.Publish(telemetry.Event{Kind: telemetry.KindSearch, Input: sql, Err: err})
	return rows, err
}

// -------------------------------------------------------------------
// AGGREGATE
// -------------------------------------------------------------------

// Aggregate runs FT.AGGREGATE. Caller supplies group-by fields and optional
// reducers. Result is a slice of map[string]string for maximum flexibility.
func (r *Repository) Aggregate(
	ctx context.Context,
	where q.Expr,
	opts ...Opt,
) ([]map[string]string, error) {

	ab := q.NewAggregate(r.index).
		Where(where).
		Using(r.exec)

	for _, opt := range opts {
		opt.applyAgg(ab)
	}
	return ab.Run(ctx)
}
