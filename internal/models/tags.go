package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Tags набор меток ссылки. В базе хранится одной строкой через запятую.
type Tags []string

// Value реализует driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "", nil
	}
	return strings.Join(t, ","), nil
}

// Scan реализует sql.Scanner.
func (t *Tags) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported tags type %T", src)
	}
	if raw == "" {
		*t = Tags{}
		return nil
	}
	*t = strings.Split(raw, ",")
	return nil
}

// NormalizeTags убирает пустые метки, пробелы по краям и дубликаты, сохраняя порядок.
func NormalizeTags(in []string) Tags {
	out := make(Tags, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, tag := range in {
		tag = strings.TrimSpace(strings.ReplaceAll(tag, ",", " "))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
