package entities

// Button is one inline keyboard button. Exactly one of Data or URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is an inline keyboard, one slice per row
type Keyboard [][]Button

// Row appends a row of buttons and returns the keyboard
func (k Keyboard) Row(buttons ...Button) Keyboard {
	if len(buttons) == 0 {
		return k
	}
	return append(k, buttons)
}

// Column appends each button as its own row
func (k Keyboard) Column(buttons ...Button) Keyboard {
	for _, b := range buttons {
		k = append(k, []Button{b})
	}
	return k
}

// Find returns the first button carrying data
func (k Keyboard) Find(data string) (Button, bool) {
	for _, row := range k {
		for _, b := range row {
			if b.Data == data {
				return b, true
			}
		}
	}
	return Button{}, false
}

// Count returns the total number of buttons
func (k Keyboard) Count() int {
	n := 0
	for _, row := range k {
		n += len(row)
	}
	return n
}
