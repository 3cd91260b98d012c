package alphavantage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"stock_etl/internal/feature/quotes/domain/entity"
)

const (
	// SeriesKey is the top-level member holding the daily series.
	SeriesKey = "Time Series (Daily)"
	// DateLayout is the layout of the series' date keys.
	DateLayout = "2006-01-02"

	fieldOpen   = "1. open"
	fieldHigh   = "2. high"
	fieldLow    = "3. low"
	fieldClose  = "4. close"
	fieldVolume = "5. volume"
)

// ToQuotes converts a TIME_SERIES_DAILY payload into quotes in the order the
// dates appear in the payload.
//
// A payload without the series member yields an empty slice. A field that is
// missing or unparseable becomes nil without affecting the rest of the record.
func ToQuotes(symbol string, raw json.RawMessage) []entity.Quote {
	out := make([]entity.Quote, 0)

	dec := json.NewDecoder(bytes.NewReader(raw))
	if !expectDelim(dec, '{') {
		return out
	}
	for dec.More() {
		key, ok := readKey(dec)
		if !ok {
			return out
		}
		if key != SeriesKey {
			if !skipValue(dec) {
				return out
			}
			continue
		}
		return appendSeries(out, dec, symbol)
	}
	return out
}

// appendSeries walks the series object member by member so that the
// provider's ordering survives. A repeated date keeps its first position and
// takes the last value.
func appendSeries(out []entity.Quote, dec *json.Decoder, symbol string) []entity.Quote {
	if !expectDelim(dec, '{') {
		return out
	}
	seen := make(map[string]int)
	for dec.More() {
		date, ok := readKey(dec)
		if !ok {
			return out
		}
		var fields map[string]json.RawMessage
		if err := dec.Decode(&fields); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return out
			}
			fields = nil
		}
		q := entity.Quote{
			Symbol:    symbol,
			Open:      toFloat(fields[fieldOpen]),
			High:      toFloat(fields[fieldHigh]),
			Low:       toFloat(fields[fieldLow]),
			Close:     toFloat(fields[fieldClose]),
			Volume:    toInt(fields[fieldVolume]),
			Timestamp: parseDate(date),
		}
		if i, dup := seen[date]; dup {
			out[i] = q
			continue
		}
		seen[date] = len(out)
		out = append(out, q)
	}
	return out
}

func expectDelim(dec *json.Decoder, want json.Delim) bool {
	tok, err := dec.Token()
	if err != nil {
		return false
	}
	d, ok := tok.(json.Delim)
	return ok && d == want
}

func readKey(dec *json.Decoder) (string, bool) {
	tok, err := dec.Token()
	if err != nil {
		return "", false
	}
	s, ok := tok.(string)
	return s, ok
}

func skipValue(dec *json.Decoder) bool {
	var discard json.RawMessage
	return dec.Decode(&discard) == nil
}

// scalarText returns the text of a JSON string or number, or false for
// anything else (null, bool, object, array, missing).
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	case c == '-' || (c >= '0' && c <= '9'):
		return string(raw), true
	default:
		return "", false
	}
}

func toFloat(raw json.RawMessage) *float64 {
	s, ok := scalarText(raw)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toInt(raw json.RawMessage) *int64 {
	s, ok := scalarText(raw)
	if !ok {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseDate(s string) *time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
