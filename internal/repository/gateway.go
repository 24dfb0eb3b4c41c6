package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// EntityDescriptor is the capability every concrete entity type supplies to
// the generic gateway operations: where it lives, how its rows become
// entities, and what a valid candidate looks like. The gateway itself knows
// nothing about any particular entity.
type EntityDescriptor[E any] interface {
	// Table returns the storage table the entity lives in.
	Table() string
	// MapRow translates one raw row into an entity, all-or-nothing.
	MapRow(row map[string]interface{}) (E, error)
	// Validate checks a candidate against the entity's required-field and
	// range contract before any write is issued.
	Validate(entity E) error
	// StampNew sets the creation timestamps on a candidate about to be
	// inserted. CreateDate and LastRevised are equal at that moment.
	StampNew(entity E, now time.Time)
	// InsertValues returns the column values to persist for a candidate.
	InsertValues(entity E) map[string]interface{}
	// AssignID writes the storage-issued id back onto the entity.
	AssignID(entity E, id int64)
}

// Gateway holds the storage handle shared by the generic operations.
type Gateway struct {
	db *sqlx.DB
}

func NewGateway(db *sqlx.DB) *Gateway {
	return &Gateway{db: db}
}

// GetSingleRowByID fetches exactly one row whose id column matches id and
// maps it. Zero matching rows is a NotFoundError. More than one match is a
// storage-integrity violation the gateway does not defend against.
func GetSingleRowByID[E any](ctx context.Context, g *Gateway, d EntityDescriptor[E], id int64) (E, error) {
	var zero E

	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", d.Table())

	rows, err := g.db.QueryxContext(ctx, query, id)
	if err != nil {
		return zero, &StorageError{Op: "select from " + d.Table(), Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, &StorageError{Op: "select from " + d.Table(), Err: err}
		}
		return zero, &NotFoundError{Entity: d.Table(), ID: id}
	}

	row := map[string]interface{}{}
	if err := rows.MapScan(row); err != nil {
		return zero, &StorageError{Op: "scan " + d.Table(), Err: err}
	}

	return d.MapRow(row)
}

// GetMultipleByFilters fetches every row matching the conjunction of
// filters, in the order named by the filter set. An empty result is valid
// and returns an empty slice, never an error.
func GetMultipleByFilters[E any](ctx context.Context, g *Gateway, d EntityDescriptor[E], filters FilterSet) ([]E, error) {
	query, args := filters.selectQuery(d.Table())

	rows, err := g.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "select from " + d.Table(), Err: err}
	}
	defer rows.Close()

	entities := []E{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, &StorageError{Op: "scan " + d.Table(), Err: err}
		}
		entity, err := d.MapRow(row)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "select from " + d.Table(), Err: err}
	}

	return entities, nil
}

// InsertNewRecord validates the candidate, persists it and assigns the
// storage-issued id back onto it. Validation happens strictly before the
// write; CreateDate and LastRevised are both set to the operation's
// timestamp.
func InsertNewRecord[E any](ctx context.Context, g *Gateway, d EntityDescriptor[E], candidate E) (E, error) {
	var zero E

	if err := d.Validate(candidate); err != nil {
		return zero, err
	}

	d.StampNew(candidate, time.Now().UTC())

	values := d.InsertValues(candidate)
	columns := sortedColumns(values)

	placeholders := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[column]
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		d.Table(),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	var id int64
	if err := g.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return zero, &StorageError{Op: "insert into " + d.Table(), Err: err}
	}

	d.AssignID(candidate, id)
	return candidate, nil
}

// UpdateWhere applies the given column updates to every row matching the
// filter set and reports how many rows were touched. It exists for the one
// constrained update in this layer, the moderation status transition;
// callers decide what zero affected rows means.
func UpdateWhere[E any](ctx context.Context, g *Gateway, d EntityDescriptor[E], updates map[string]interface{}, filters FilterSet) (int64, error) {
	columns := sortedColumns(updates)

	assignments := make([]string, len(columns))
	args := make([]interface{}, 0, len(columns)+len(filters.Filters))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
		args = append(args, updates[column])
	}

	where, whereArgs := filters.whereClause(len(columns) + 1)
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s", d.Table(), strings.Join(assignments, ", "), where)

	result, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &StorageError{Op: "update " + d.Table(), Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, &StorageError{Op: "update " + d.Table(), Err: err}
	}

	return affected, nil
}

// sortedColumns keeps generated SQL deterministic.
func sortedColumns(values map[string]interface{}) []string {
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
