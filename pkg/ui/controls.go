package ui

import (
	"maps"
	"math"
)

// Controls ties panel widgets to configuration keys. Whenever one of them
// changes, Poll reports the values of every bound widget so the receiver can
// apply them in a single reconfiguration.
type Controls struct {
	bindings []binding
	last     map[string]any
}

type binding struct {
	key   string
	value func() any
}

func NewControls() *Controls {
	return &Controls{}
}

// BindSlider binds a slider to key. Integer sliders snap to whole steps and
// report an int.
func (c *Controls) BindSlider(key string, s *Slider, integer bool) *Slider {
	if integer && s.Step == 0 {
		s.Step = 1
		s.SetValue(s.Value)
	}
	c.bindings = append(c.bindings, binding{
		key: key,
		value: func() any {
			if integer {
				return int(math.Round(s.Value))
			}
			return s.Value
		},
	})
	return s
}

// BindCheckbox binds a checkbox to key.
func (c *Controls) BindCheckbox(key string, cb *Checkbox) *Checkbox {
	c.bindings = append(c.bindings, binding{
		key:   key,
		value: func() any { return cb.Value },
	})
	return cb
}

// Values returns the current value of every bound widget.
func (c *Controls) Values() map[string]any {
	values := make(map[string]any, len(c.bindings))
	for _, b := range c.bindings {
		values[b.key] = b.value()
	}
	return values
}

// Poll returns all bound values when any of them differs from the previous
// poll. The first poll only records the starting values.
func (c *Controls) Poll() (map[string]any, bool) {
	values := c.Values()
	if c.last == nil {
		c.last = values
		return nil, false
	}
	if maps.Equal(values, c.last) {
		return nil, false
	}
	c.last = values
	return maps.Clone(values), true
}
