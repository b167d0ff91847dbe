package connectors

import (
	"sort"
	"strings"

	pkgerrors "github.com/kevin07696/payment-connectors/pkg/errors"
)

// RequireString turns an absent value into MissingRequiredField with the
// exact field name. Mappers funnel every required-field check through these
// helpers so failures are always precise.
func RequireString(value, field string) (string, error) {
	if value == "" {
		return "", pkgerrors.NewMissingRequiredField(field)
	}
	return value, nil
}

// Require returns the pointed-to value or MissingRequiredField.
func Require[T any](value *T, field string) (T, error) {
	if value == nil {
		var zero T
		return zero, pkgerrors.NewMissingRequiredField(field)
	}
	return *value, nil
}

// CollectMissing gathers every empty value in fields and reports them all in
// one error, so a caller fixing a request sees the full list at once.
func CollectMissing(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if len(missing) == 1 {
		return pkgerrors.NewMissingRequiredField(missing[0])
	}
	// Deterministic order for error messages.
	sort.Strings(missing)
	return pkgerrors.NewMissingRequiredField(strings.Join(missing, ", "))
}
