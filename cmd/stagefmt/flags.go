package main

import (
	"github.com/spf13/pflag"

	pkgconfig "github.com/bebsworthy/stagefmt/pkg/config"
)

var _ pflag.Value = (*colorFlag)(nil)

// colorFlag accepts auto, always or never
type colorFlag pkgconfig.ColorMode

func (c *colorFlag) String() string {
	return string(*c)
}

func (c *colorFlag) Set(s string) error {
	mode := pkgconfig.ColorMode(s)
	if err := mode.Validate(); err != nil {
		return err
	}
	*c = colorFlag(mode)
	return nil
}

func (c *colorFlag) Type() string {
	return "when"
}
