package validators

import (
	"strconv"
	"strings"

	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
)

// ParseURLID reads a required positive int64 identifier from a chi route
// parameter already extracted by the caller.
func ParseURLID(raw, field string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a positive id").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
