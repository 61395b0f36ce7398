package group

import (
	"errors"
	"fmt"
)

// ParamsTOML is the TOML-able version of Params. Integers are stored as
// hex-encoded big-endian strings so values of any size round-trip exactly.
type ParamsTOML struct {
	P string
	Q string
	G string
}

// TOML returns a struct that can be marshalled using a TOML-encoding library.
func (p *Params) TOML() interface{} {
	return &ParamsTOML{
		P: IntToString(p.P),
		Q: IntToString(p.Q),
		G: IntToString(p.G),
	}
}

// FromTOML constructs the parameters from an unmarshalled TOML structure and
// validates them, so a loaded file is either usable or rejected outright.
func (p *Params) FromTOML(i interface{}) error {
	ptoml, ok := i.(*ParamsTOML)
	if !ok {
		return errors.New("group: can't decode toml from non ParamsTOML struct")
	}
	var err error
	if p.P, err = StringToInt(ptoml.P); err != nil {
		return fmt.Errorf("decoding p: %w", err)
	}
	if p.Q, err = StringToInt(ptoml.Q); err != nil {
		return fmt.Errorf("decoding q: %w", err)
	}
	if p.G, err = StringToInt(ptoml.G); err != nil {
		return fmt.Errorf("decoding g: %w", err)
	}
	return p.Validate()
}

// TOMLValue returns an empty TOML-compatible value of the parameters.
func (p *Params) TOMLValue() interface{} {
	return &ParamsTOML{}
}
