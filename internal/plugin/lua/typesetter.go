package lua

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inlinemark/internal/markup/artifact"
)

// Typesetter is an artifact.Typesetter backed by a Lua script.
type Typesetter struct {
	state       *State
	hasFinalize bool
}

var _ artifact.Typesetter = (*Typesetter)(nil)

// NewTypesetter runs script and checks that it defines typeset.
func NewTypesetter(script string, opts ...StateOption) (*Typesetter, error) {
	state := NewState(opts...)
	if err := state.DoString(script); err != nil {
		state.Close()
		return nil, fmt.Errorf("loading typesetter script: %w", err)
	}
	if !state.HasFunction("typeset") {
		state.Close()
		return nil, ErrNoTypesetFunction
	}
	return &Typesetter{
		state:       state,
		hasFinalize: state.HasFunction("finalize"),
	}, nil
}

// LoadTypesetter reads a script file and calls NewTypesetter.
func LoadTypesetter(path string, opts ...StateOption) (*Typesetter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading typesetter script %s: %w", path, err)
	}
	return NewTypesetter(string(data), opts...)
}

// Typeset calls typeset(source, inline). The script returns the markup,
// or nil and an error message.
func (t *Typesetter) Typeset(source string, inline bool) (string, error) {
	results, err := t.state.Call("typeset", lua.LString(source), lua.LBool(inline))
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", ErrBadResult
	}
	switch v := results[0].(type) {
	case lua.LString:
		return string(v), nil
	case *lua.LNilType:
		msg := "typeset failed"
		if len(results) > 1 && results[1] != lua.LNil {
			msg = results[1].String()
		}
		return "", &ScriptError{Function: "typeset", Message: msg}
	default:
		return "", fmt.Errorf("%w, got %s", ErrBadResult, results[0].Type())
	}
}

// Finalize calls finalize when the script defines it.
func (t *Typesetter) Finalize() error {
	if !t.hasFinalize {
		return nil
	}
	_, err := t.state.Call("finalize")
	return err
}

// Close releases the Lua state.
func (t *Typesetter) Close() error {
	return t.state.Close()
}
