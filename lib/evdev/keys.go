package evdev

import "fmt"

var keyNames = map[uint16]string{
	1:  "esc",
	2:  "1",
	3:  "2",
	4:  "3",
	5:  "4",
	6:  "5",
	7:  "6",
	8:  "7",
	9:  "8",
	10: "9",
	11: "0",
	12: "-",
	13: "=",
	14: "backspace",
	15: "tab",
	16: "q",
	17: "w",
	18: "e",
	19: "r",
	20: "t",
	21: "y",
	22: "u",
	23: "i",
	24: "o",
	25: "p",
	28: "enter",
	30: "a",
	31: "s",
	32: "d",
	33: "f",
	34: "g",
	35: "h",
	36: "j",
	37: "k",
	38: "l",
	44: "z",
	45: "x",
	46: "c",
	47: "v",
	48: "b",
	49: "n",
	50: "m",
	57: "space",
	// keypad
	71:  "7",
	72:  "8",
	73:  "9",
	74:  "-",
	75:  "4",
	76:  "5",
	77:  "6",
	78:  "+",
	79:  "1",
	80:  "2",
	81:  "3",
	82:  "0",
	96:  "enter",
	98:  "/",
	103: "up",
	105: "left",
	106: "right",
	108: "down",
	113: "mute",
	114: "volume down",
	115: "volume up",
	164: "play/pause",
}

// KeyName of a key code, as a keyboard label.
func KeyName(code uint16) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	return fmt.Sprintf("key_%d", code)
}
