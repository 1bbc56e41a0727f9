package address

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
)

// Recognized keys in raw address payloads. Coordinate keys have historical
// aliases because different upstream writers never agreed on one spelling.
const (
	keyRecipientName = "recipient_name"
	keyPhoneNumber   = "phone_number"
	keyLine1         = "address_line_1"
	keyLine2         = "address_line_2"
	keyCity          = "city"
	keyState         = "state"
	keyPincode       = "pincode"
)

var latitudeKeys = []string{"latitude", "lat"}
var longitudeKeys = []string{"longitude", "lng", "lon"}

// kvPattern matches `key: value` / `key=value` pairs in text that was meant
// to be JSON but is not. Keys may be bare or quoted; values may be double- or
// single-quoted strings or bare tokens.
var kvPattern = regexp.MustCompile(
	`["']?([A-Za-z0-9_]+)["']?\s*[:=]\s*(?:"((?:[^"\\]|\\.)*)"|'([^']*)'|([^,}\]\s"']+))`)

// Normalize converts a raw address payload into a canonical Record.
//
// Three shapes are accepted:
//   - a string-keyed map (decoded JSON object)
//   - a string or byte slice expected to contain JSON, possibly malformed
//   - any other structured value that survives a JSON round-trip
//
// Normalize never fails: coordinate values that are out of range or the (0,0)
// placeholder degrade to "no coordinate", and totally unparseable input yields
// an empty Record so callers can still render whatever fields survived.
func Normalize(raw any) Record {
	switch v := raw.(type) {
	case nil:
		return Record{}
	case Record:
		return v
	case map[string]any:
		return fromMap(v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = val
		}
		return fromMap(m)
	case json.RawMessage:
		return fromText(string(v))
	case []byte:
		return fromText(string(v))
	case string:
		return fromText(v)
	default:
		// Structured object: round-trip through JSON to reach a map shape.
		data, err := json.Marshal(v)
		if err != nil {
			return Record{}
		}
		return fromText(string(data))
	}
}

// fromText parses a textual payload. Strict JSON is attempted first; on
// failure a tolerant key scan extracts whatever pairs it can recognize.
// Upstream data has historically been inconsistently escaped, so the scan is
// the difference between "no coordinate" and losing the recipient's phone.
func fromText(text string) Record {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "null" {
		return Record{}
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(trimmed), &m); err == nil {
		return fromMap(m)
	}

	// Some writers double-encode the object; one more strict pass catches that.
	var nested string
	if err := json.Unmarshal([]byte(trimmed), &nested); err == nil {
		if err = json.Unmarshal([]byte(nested), &m); err == nil {
			return fromMap(m)
		}
	}

	return fromMap(scanPairs(trimmed))
}

// scanPairs extracts key/value pairs from malformed JSON-ish text.
// First occurrence of a key wins.
func scanPairs(text string) map[string]any {
	pairs := make(map[string]any)
	for _, match := range kvPattern.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(match[1])
		if _, seen := pairs[key]; seen {
			continue
		}

		var value string
		switch {
		case match[2] != "":
			value = unescape(match[2])
		case match[3] != "":
			value = match[3]
		default:
			value = match[4]
		}
		pairs[key] = value
	}
	return pairs
}

func unescape(s string) string {
	replacer := strings.NewReplacer(`\"`, `"`, `\\`, `\`)
	return replacer.Replace(s)
}

// fromMap builds a Record from a string-keyed map, tolerating numeric and
// numeric-string coordinate values.
func fromMap(m map[string]any) Record {
	if len(m) == 0 {
		return Record{}
	}

	rec := Record{
		RecipientName: stringField(m, keyRecipientName),
		PhoneNumber:   stringField(m, keyPhoneNumber),
		Line1:         stringField(m, keyLine1),
		Line2:         stringField(m, keyLine2),
		City:          stringField(m, keyCity),
		State:         stringField(m, keyState),
		Pincode:       stringField(m, keyPincode),
	}

	lat, latOK := numberField(m, latitudeKeys)
	lng, lngOK := numberField(m, longitudeKeys)
	if latOK && lngOK {
		if coord, err := kernel.NewCoordinate(lat, lng); err == nil {
			rec.coordinate = &coord
		}
		// Invalid pairs (out of range, NaN, the (0,0) sentinel) degrade to
		// "no coordinate" rather than failing the whole record.
	}

	return rec
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}

	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

func numberField(m map[string]any, keys []string) (float64, bool) {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}

		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
