package upstream

import (
	"encoding/json"

	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
)

// Envelope is the backend's response wrapper. Success and failure both ride
// on HTTP 200; the boolean inside the body is authoritative. The client
// decodes it once at the boundary so callers only ever see records or a
// typed error.
type Envelope struct {
	Err     bool            `json:"error"`
	Message string          `json:"message"`
	Records json.RawMessage `json:"records"`

	// Raw holds the whole body for the handful of endpoints (login,
	// register) that put fields next to the envelope instead of inside
	// records.
	Raw json.RawMessage `json:"-"`
}

// Decode unmarshals records into out. A missing or null records field
// leaves out untouched.
func (e *Envelope) Decode(out any) error {
	if e == nil || len(e.Records) == 0 || string(e.Records) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Records, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode upstream records")
	}
	return nil
}

// DecodeFirst unmarshals the first element of a records array into out,
// tolerating backends that return a bare object instead of a one-element
// array. It reports whether a record was present.
func (e *Envelope) DecodeFirst(out any) (bool, error) {
	if e == nil || len(e.Records) == 0 || string(e.Records) == "null" {
		return false, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(e.Records, &list); err == nil {
		if len(list) == 0 {
			return false, nil
		}
		if err := json.Unmarshal(list[0], out); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode upstream record")
		}
		return true, nil
	}

	if err := json.Unmarshal(e.Records, out); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode upstream record")
	}
	return true, nil
}

// DecodeBody unmarshals the entire response body into out, for endpoints
// that respond outside the records convention.
func (e *Envelope) DecodeBody(out any) error {
	if e == nil || len(e.Raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode upstream body")
	}
	return nil
}
