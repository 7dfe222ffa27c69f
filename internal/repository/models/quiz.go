package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a string array as a JSON-encoded text column.
type StringSlice []string

// Value implements the driver.Valuer interface.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface.
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(bytesToParse, s)
}

// Quiz is the database representation of a quiz.
type Quiz struct {
	ID          string    `db:"id"` // ULID
	OwnerID     string    `db:"owner_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	VideoURL    string    `db:"video_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Question is the database representation of a question. Options are
// stored JSON-encoded; the exactly-4 invariant is enforced in the
// domain layer before rows are written.
type Question struct {
	ID        string      `db:"id"` // ULID
	QuizID    string      `db:"quiz_id"`
	Position  int         `db:"position"`
	Title     string      `db:"question_title"`
	Options   StringSlice `db:"question_options"`
	Answer    string      `db:"answer"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}
