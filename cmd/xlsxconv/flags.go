package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*enumFlag)(nil)
	_ pflag.Value = (*charFlag)(nil)
)

// enumFlag is a string flag restricted to a fixed set of values.
type enumFlag struct {
	value   string
	allowed []string
}

func newEnumFlag(value string, allowed ...string) *enumFlag {
	return &enumFlag{value: value, allowed: allowed}
}

func (f *enumFlag) String() string { return f.value }

func (f *enumFlag) Set(s string) error {
	for _, a := range f.allowed {
		if s == a {
			f.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", f.choices())
}

func (f *enumFlag) Type() string { return "string" }

func (f *enumFlag) choices() string {
	return "{" + strings.Join(f.allowed, ",") + "}"
}

// charFlag holds exactly one character.
type charFlag struct {
	value rune
}

func (f *charFlag) String() string { return string(f.value) }

func (f *charFlag) Set(s string) error {
	r := []rune(s)
	if len(r) != 1 {
		return fmt.Errorf("must be a single character")
	}
	f.value = r[0]
	return nil
}

func (f *charFlag) Type() string { return "char" }
