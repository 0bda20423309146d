package mock

import "github.com/fwojciec/parity"

var _ parity.Converter = (*Converter)(nil)

// Converter is a mock implementation of parity.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
