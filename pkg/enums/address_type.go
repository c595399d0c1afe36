package enums

import "fmt"

type AddressType string

const (
	AddressTypeHome  AddressType = "Home"
	AddressTypeWork  AddressType = "Work"
	AddressTypeOther AddressType = "Other"
)

var validAddressTypes = []AddressType{
	AddressTypeHome,
	AddressTypeWork,
	AddressTypeOther,
}

func (a AddressType) String() string {
	return string(a)
}

func (a AddressType) IsValid() bool {
	for _, candidate := range validAddressTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAddressType defaults empty input to Home.
func ParseAddressType(value string) (AddressType, error) {
	if value == "" {
		return AddressTypeHome, nil
	}
	for _, candidate := range validAddressTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid address type %q", value)
}
