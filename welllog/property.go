package welllog

import "slices"

// Well-known header properties.
const (
	PropName           = "name"
	PropDescription    = "description"
	PropExternalIDs    = "externalIds"
	PropWell           = "well"
	PropWellbore       = "wellbore"
	PropField          = "field"
	PropCountry        = "country"
	PropDate           = "date"
	PropOperator       = "operator"
	PropServiceCompany = "serviceCompany"
	PropRunNumber      = "runNumber"
	PropElevation      = "elevation"
	PropSource         = "source"
	PropStartIndex     = "startIndex"
	PropEndIndex       = "endIndex"
	PropStep           = "step"
	PropDataURI        = "dataUri"
)

// WellKnownProperties lists the header keys with defined semantics, in the
// order they are conventionally written.
var WellKnownProperties = []string{
	PropName,
	PropDescription,
	PropExternalIDs,
	PropWell,
	PropWellbore,
	PropField,
	PropCountry,
	PropDate,
	PropOperator,
	PropServiceCompany,
	PropRunNumber,
	PropElevation,
	PropSource,
	PropStartIndex,
	PropEndIndex,
	PropStep,
	PropDataURI,
}

// IsWellKnown reports whether key is a well-known header property.
func IsWellKnown(key string) bool {
	return slices.Contains(WellKnownProperties, key)
}
