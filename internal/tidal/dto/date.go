package dto

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// TidalDate handles the date formats found in catalog responses:
// plain dates ("2019-05-17") and full timestamps ("2019-05-17T00:00:00.000+0000").
type TidalDate struct {
	time.Time
}

// UnmarshalJSON parses a date string. null and "" leave the zero time.
func (td *TidalDate) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == nil || *s == "" {
		td.Time = time.Time{}
		return nil
	}

	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05.000-0700",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, *s); err == nil {
			td.Time = t
			return nil
		}
	}

	return fmt.Errorf("unable to parse date: %s", *s)
}
