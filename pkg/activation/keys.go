package activation

import "fmt"

// Button is one of the three physical keys on the badge.
type Button struct {
	Digit byte
	Name  string
	// Code is the value the firmware reports for the key over BLE.
	Code uint16
}

func (b Button) String() string {
	return fmt.Sprintf("%s (0x%04X)", b.Name, b.Code)
}

// Buttons maps digits to keys. The BLE codes run in the opposite order to the digits.
var Buttons = []Button{
	{Digit: '1', Name: "key 1", Code: 0xE102},
	{Digit: '2', Name: "key 2", Code: 0xE101},
	{Digit: '3', Name: "key 3", Code: 0xE100},
}

// Keys returns the button presses needed to enter a ternary code.
func Keys(digits string) ([]Button, error) {
	if err := checkTernary(digits); err != nil {
		return nil, err
	}
	keys := make([]Button, 0, len(digits))
	for i := 0; i < len(digits); i++ {
		keys = append(keys, Buttons[digits[i]-'1'])
	}
	return keys, nil
}
