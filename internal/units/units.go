// Package units provides shared constants and validation for length units
package units

// Unit constants
const (
	CM = "cm"
	MM = "mm"
	IN = "in"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{CM, MM, IN}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "cm, mm, in"
}

// ConvertLength converts a length from centimetres to the target units.
// The engine computes spatial metrics in centimetres.
func ConvertLength(lengthCm float64, targetUnits string) float64 {
	switch targetUnits {
	case MM:
		return lengthCm * 10
	case IN:
		return lengthCm / 2.54
	case CM:
		return lengthCm // no conversion needed
	default:
		return lengthCm // default to cm if unknown unit
	}
}
