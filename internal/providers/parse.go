package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDecode marks a body that is not valid for the format's content type.
	ErrDecode = errors.New("decode failure")
	// ErrSchema marks a well-formed body whose shape does not match the format.
	ErrSchema = errors.New("schema mismatch")
)

// Parse decodes body according to format and normalizes it. now is only
// used as a fallback timestamp for feeds that omit publish dates.
func Parse(format Format, body []byte, now time.Time) (Result, error) {
	switch format {
	case FormatStatuspage:
		var s spSummary
		if err := decodeJSON(body, &s); err != nil {
			return Result{}, err
		}
		return parseStatuspage(s), nil
	case FormatGoogle:
		var incs []gcpIncident
		if err := decodeJSON(body, &incs); err != nil {
			return Result{}, err
		}
		return parseGCP(incs), nil
	case FormatSalesforce:
		var incs []sfIncident
		if err := decodeJSON(body, &incs); err != nil {
			return Result{}, err
		}
		return parseSalesforce(incs), nil
	case FormatSlack:
		var c slackCurrent
		if err := decodeJSON(body, &c); err != nil {
			return Result{}, err
		}
		return parseSlack(c), nil
	case FormatRSS:
		return ParseRSS(body, now), nil
	default:
		return Result{}, fmt.Errorf("unsupported format %q", format)
	}
}

func decodeJSON(body []byte, v any) error {
	if !json.Valid(body) {
		snippet := string(bytes.TrimSpace(body))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return fmt.Errorf("%w: invalid JSON response (maybe HTML). snippet=%q", ErrDecode, snippet)
	}
	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: %v", ErrSchema, err)
		}
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
