package entities

import "fmt"

// BloodType represents one of the 8 ABO/Rh blood type combinations.
// It is the partition key for every per-type value in the pipeline.
type BloodType int

const (
	APositive BloodType = iota
	ANegative
	BPositive
	BNegative
	ABPositive
	ABNegative
	OPositive
	ONegative
)

// AllBloodTypes lists the 8 blood types in canonical order.
var AllBloodTypes = []BloodType{
	APositive, ANegative,
	BPositive, BNegative,
	ABPositive, ABNegative,
	OPositive, ONegative,
}

// String method for BloodType enum
func (b BloodType) String() string {
	switch b {
	case APositive:
		return "A+"
	case ANegative:
		return "A-"
	case BPositive:
		return "B+"
	case BNegative:
		return "B-"
	case ABPositive:
		return "AB+"
	case ABNegative:
		return "AB-"
	case OPositive:
		return "O+"
	case ONegative:
		return "O-"
	default:
		return "Unknown"
	}
}

// ParseBloodType converts a label like "O-" into a BloodType
func ParseBloodType(s string) (BloodType, error) {
	switch s {
	case "A+":
		return APositive, nil
	case "A-":
		return ANegative, nil
	case "B+":
		return BPositive, nil
	case "B-":
		return BNegative, nil
	case "AB+":
		return ABPositive, nil
	case "AB-":
		return ABNegative, nil
	case "O+":
		return OPositive, nil
	case "O-":
		return ONegative, nil
	default:
		return 0, fmt.Errorf("unknown blood type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so BloodType renders as
// its clinical label in JSON maps and CSV output.
func (b BloodType) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *BloodType) UnmarshalText(text []byte) error {
	parsed, err := ParseBloodType(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
