package widget

import "sync"

// Input is the question field
type Input struct {
	mu      sync.Mutex
	value   string
	focused bool
}

func (c *Input) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *Input) SetValue(v string) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

func (c *Input) Focus() {
	c.mu.Lock()
	c.focused = true
	c.mu.Unlock()
}

func (c *Input) Blur() {
	c.mu.Lock()
	c.focused = false
	c.mu.Unlock()
}

func (c *Input) Focused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused
}

// Button is the submit control
type Button struct {
	mu       sync.Mutex
	disabled bool
}

func (c *Button) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

func (c *Button) SetDisabled(v bool) {
	c.mu.Lock()
	c.disabled = v
	c.mu.Unlock()
}

// Controls are the parts a widget works on, supplied by the page
type Controls struct {
	Transcript *Transcript
	Input      *Input
	Send       *Button

	// HistoryEnabled is set when the identity may load saved conversations
	HistoryEnabled bool
}

func (c *Controls) setDefaults() {
	if c.Transcript == nil {
		c.Transcript = NewTranscript()
	}
	if c.Input == nil {
		c.Input = new(Input)
	}
	if c.Send == nil {
		c.Send = new(Button)
	}
}
