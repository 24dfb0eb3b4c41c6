package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Sort directions accepted by the query contract.
const (
	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

// sortColumns whitelists the sort keys a search may name and maps them to
// storage columns. "default" is insertion order, which is the id sequence.
var sortColumns = map[string]string{
	"default":      "id",
	"price":        "price",
	"create_date":  "create_date",
	"last_revised": "last_revised",
}

// Filter is one equality, range or pattern condition on a column. Columns
// and operators only ever come from code, never from a request.
type Filter struct {
	Column string
	Op     string
	Value  interface{}
}

// FilterSet is the conjunction of filters, the explicit sort order and the
// pagination window the gateway applies to a multi-row fetch.
type FilterSet struct {
	Filters   []Filter
	Sort      string
	Direction string
	Limit     int
	Offset    int
}

func (fs FilterSet) selectQuery(table string) (string, []interface{}) {
	var builder strings.Builder
	builder.WriteString("SELECT * FROM ")
	builder.WriteString(table)

	where, args := fs.whereClause(1)
	builder.WriteString(where)

	if fs.Sort != "" {
		direction := fs.Direction
		if direction != DirectionDesc {
			direction = DirectionAsc
		}
		builder.WriteString(fmt.Sprintf(" ORDER BY %s %s", fs.Sort, direction))
	}
	if fs.Limit > 0 {
		builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", fs.Limit, fs.Offset))
	}

	return builder.String(), args
}

func (fs FilterSet) whereClause(firstArg int) (string, []interface{}) {
	if len(fs.Filters) == 0 {
		return "", nil
	}

	conditions := make([]string, len(fs.Filters))
	args := make([]interface{}, len(fs.Filters))
	for i, filter := range fs.Filters {
		conditions[i] = fmt.Sprintf("%s %s $%d", filter.Column, filter.Op, firstArg+i)
		args[i] = filter.Value
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// SearchQuery is a search request as it arrives from the transport layer.
// Every field is optional there; Normalize fills in the defaults.
type SearchQuery struct {
	Name      string
	Category  string
	Page      string
	Sort      string
	Direction string
}

// NormalizedQuery is a search request after defaulting and validation.
type NormalizedQuery struct {
	Name       string
	CategoryID int64
	Page       int
	Sort       string
	Direction  string
}

// Normalize applies the query contract: absent or "0" category means all
// categories, page defaults to 1 and is clamped below at 1, an unrecognized
// sort key falls back to insertion order, an unrecognized direction falls
// back to ascending. The only hard failure is a non-numeric category, which
// is an InvalidQueryError.
func (q SearchQuery) Normalize() (NormalizedQuery, error) {
	normalized := NormalizedQuery{
		Name:      strings.TrimSpace(q.Name),
		Page:      1,
		Sort:      sortColumns["default"],
		Direction: DirectionAsc,
	}

	category := strings.TrimSpace(q.Category)
	if category != "" && category != "0" {
		categoryID, err := strconv.ParseInt(category, 10, 64)
		if err != nil {
			return NormalizedQuery{}, &InvalidQueryError{Param: "category", Value: q.Category}
		}
		normalized.CategoryID = categoryID
	}

	if page, err := strconv.Atoi(strings.TrimSpace(q.Page)); err == nil {
		normalized.Page = page
	}
	if normalized.Page < 1 {
		normalized.Page = 1
	}

	if column, ok := sortColumns[strings.TrimSpace(q.Sort)]; ok {
		normalized.Sort = column
	}

	if strings.EqualFold(strings.TrimSpace(q.Direction), DirectionDesc) {
		normalized.Direction = DirectionDesc
	}

	return normalized, nil
}

// FilterSet converts the normalized query into the gateway's filter shape.
// The page size is a fixed configuration constant; the page selects a
// 1-indexed window.
func (q NormalizedQuery) FilterSet(pageSize int) FilterSet {
	filters := FilterSet{
		Sort:      q.Sort,
		Direction: q.Direction,
		Limit:     pageSize,
		Offset:    (q.Page - 1) * pageSize,
	}

	if q.Name != "" {
		filters.Filters = append(filters.Filters, Filter{Column: "post_title", Op: "ILIKE", Value: "%" + q.Name + "%"})
	}
	if q.CategoryID != 0 {
		filters.Filters = append(filters.Filters, Filter{Column: "category_id", Op: "=", Value: q.CategoryID})
	}

	return filters
}
