package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MappingError reports a storage row that violates an entity's field
// contract: a required field is absent or its raw value cannot be coerced
// to the attribute's type. Mapping is all-or-nothing; no partial entity is
// ever produced.
type MappingError struct {
	Entity string
	Field  string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map %s row: field %q %s", e.Entity, e.Field, e.Reason)
}

// MapPostRow converts a raw storage row into a Post. Every attribute must
// be present; numeric strings are coerced to numbers, driver byte slices to
// strings, and 0/1 integers to booleans.
func MapPostRow(row map[string]interface{}) (*Post, error) {
	const entity = "post"

	post := &Post{}
	var err error

	if post.ID, err = rowInt64(entity, row, "id"); err != nil {
		return nil, err
	}
	if post.UserID, err = rowInt64(entity, row, "user_id"); err != nil {
		return nil, err
	}
	if post.CategoryID, err = rowInt64(entity, row, "category_id"); err != nil {
		return nil, err
	}
	if post.CreateDate, err = rowTime(entity, row, "create_date"); err != nil {
		return nil, err
	}
	if post.LastRevised, err = rowTime(entity, row, "last_revised"); err != nil {
		return nil, err
	}
	if post.PostTitle, err = rowString(entity, row, "post_title"); err != nil {
		return nil, err
	}
	post.PostDescription = rowOptionalString(row, "post_description")
	if post.PostStatus, err = rowString(entity, row, "post_status"); err != nil {
		return nil, err
	}
	price, err := rowFloat64(entity, row, "price")
	if err != nil {
		return nil, err
	}
	post.Price = &price
	if post.IsPriceNegotiable, err = rowBool(entity, row, "is_price_negotiable"); err != nil {
		return nil, err
	}
	numberOfImages, err := rowInt64(entity, row, "number_of_images")
	if err != nil {
		return nil, err
	}
	post.NumberOfImages = int(numberOfImages)

	return post, nil
}

// MapMessageRow converts a raw storage row into a Message.
func MapMessageRow(row map[string]interface{}) (*Message, error) {
	const entity = "message"

	message := &Message{}
	var err error

	if message.ID, err = rowInt64(entity, row, "id"); err != nil {
		return nil, err
	}
	if message.SenderID, err = rowInt64(entity, row, "sender_id"); err != nil {
		return nil, err
	}
	if message.RecipientID, err = rowInt64(entity, row, "recipient_id"); err != nil {
		return nil, err
	}
	if message.PostID, err = rowInt64(entity, row, "post_id"); err != nil {
		return nil, err
	}
	if message.MessageBody, err = rowString(entity, row, "message_body"); err != nil {
		return nil, err
	}
	if message.CreateDate, err = rowTime(entity, row, "create_date"); err != nil {
		return nil, err
	}

	return message, nil
}

// MapCategoryRow converts a raw storage row into a Category.
func MapCategoryRow(row map[string]interface{}) (*Category, error) {
	const entity = "category"

	category := &Category{}
	var err error

	if category.ID, err = rowInt64(entity, row, "id"); err != nil {
		return nil, err
	}
	if category.CategoryName, err = rowString(entity, row, "category_name"); err != nil {
		return nil, err
	}

	return category, nil
}

func rowValue(entity string, row map[string]interface{}, field string) (interface{}, error) {
	value, ok := row[field]
	if !ok || value == nil {
		return nil, &MappingError{Entity: entity, Field: field, Reason: "is missing"}
	}
	return value, nil
}

func rowInt64(entity string, row map[string]interface{}, field string) (int64, error) {
	value, err := rowValue(entity, row, field)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		return parseInt64(entity, field, string(v))
	case string:
		return parseInt64(entity, field, v)
	}
	return 0, &MappingError{Entity: entity, Field: field, Reason: fmt.Sprintf("has non-integer value %v", value)}
}

func parseInt64(entity, field, raw string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &MappingError{Entity: entity, Field: field, Reason: fmt.Sprintf("has non-integer value %q", raw)}
	}
	return parsed, nil
}

func rowFloat64(entity string, row map[string]interface{}, field string) (float64, error) {
	value, err := rowValue(entity, row, field)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case []byte:
		return parseFloat64(entity, field, string(v))
	case string:
		return parseFloat64(entity, field, v)
	}
	return 0, &MappingError{Entity: entity, Field: field, Reason: fmt.Sprintf("has non-numeric value %v", value)}
}

func parseFloat64(entity, field, raw string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &MappingError{Entity: entity, Field: field, Reason: fmt.Sprintf("has non-numeric value %q", raw)}
	}
	return parsed, nil
}

func rowString(entity string, row map[string]interface{}, field string) (string, error) {
	value, err := rowValue(entity, row, field)
	if err != nil {
		return "", err
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", &MappingError{Entity: entity, Field: field, Reason: fmt.Sprintf("has non-text value %v", value)}
}

// rowOptionalString is for text attributes that may be NULL in storage;
// absence coerces to the empty string instead of failing.
func rowOptionalString(row map[string]interface{}, field string) string {
	value, ok := row[field]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

func rowBool(entity string, row map[string]interface{}, field string) (bool, error) {
	value, err := rowValue(entity, row, field)
	if err != nil {
		return false, err
	}
	switch v := value.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case []byte:
		return parseBool(entity, field, string(v))
	case string:
		return parseBool(entity, field, v)
	}
	return false, &MappingError{Entity: entity, Field: field, Reason: fmt.Sprintf("has non-boolean value %v", value)}
}

func parseBool(entity, field, raw string) (bool, error) {
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, &MappingError{Entity: entity, Field: field, Reason: fmt.Sprintf("has non-boolean value %q", raw)}
	}
	return parsed, nil
}

func rowTime(entity string, row map[string]interface{}, field string) (time.Time, error) {
	value, err := rowValue(entity, row, field)
	if err != nil {
		return time.Time{}, err
	}
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case []byte:
		return parseTime(entity, field, string(v))
	case string:
		return parseTime(entity, field, v)
	}
	return time.Time{}, &MappingError{Entity: entity, Field: field, Reason: fmt.Sprintf("has non-timestamp value %v", value)}
}

func parseTime(entity, field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, &MappingError{Entity: entity, Field: field, Reason: fmt.Sprintf("has non-timestamp value %q", raw)}
}
