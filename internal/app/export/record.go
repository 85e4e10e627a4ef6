package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
)

const ContentTypeCSV = "text/csv"

// RecordKey names the report object of record. Keys only contain
// [A-Za-z0-9._-] segments separated by '/'.
func RecordKey(record *models.PaymentRecord) string {
	id := record.TransactionID
	if id == "" {
		id = uuid.NewString()
	}

	return "donations/" + sanitizeSegment(record.WebformID) + "/" + sanitizeSegment(id) + ".csv"
}

func sanitizeSegment(s string) string {
	if s == "" {
		return "_"
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}

// EncodeCSV renders record as a header line followed by one value line.
func EncodeCSV(record *models.PaymentRecord) ([]byte, error) {
	header := append([]string{"timestamp"}, record.Data.Keys()...)
	row := make([]string, 0, len(header))
	row = append(row, record.Timestamp.UTC().Format(time.RFC3339))

	for _, f := range record.Data {
		row = append(row, formatValue(f.Value))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode record csv: %w", err)
	}

	return buf.Bytes(), nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
