package validators

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
)

const DefaultRegion = "ES"

// NormalizePhone returns the E.164 form of raw. Numbers without a
// leading + are read as national numbers of region.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", httperr.ErrValidation("phone", "required")
	}
	if region == "" {
		region = DefaultRegion
	}

	num, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", httperr.ErrValidation("phone", "invalid_phone")
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
