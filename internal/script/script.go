// Package script compiles Lua sort orders for records.
//
// A script is either a boolean expression or a function body over the two
// records a and b, and reports whether a sorts before b:
//
//	a.name < b.name
//	if a.age == b.age then return a.id < b.id end return tonumber(a.age) < tonumber(b.age)
//
// Records are exposed as tables holding their fields plus "id".
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/liveset/internal/logging"
	"github.com/dshills/liveset/internal/record"
)

// DefaultTimeout bounds a single comparison.
const DefaultTimeout = 100 * time.Millisecond

// Option configures a Script.
type Option func(*Script)

// WithLogger sets the logger that receives runtime errors.
func WithLogger(l *logging.Logger) Option {
	return func(s *Script) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout bounds each comparison. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Script) {
		s.timeout = d
	}
}

// Script is a compiled comparator.
//
// gopher-lua states are not goroutine-safe, so a Script must only be used
// from one goroutine. Sources already guarantee this by having one writer.
type Script struct {
	source  string
	L       *lua.LState
	fn      *lua.LFunction
	logger  *logging.Logger
	timeout time.Duration

	failures int
	lastErr  error
	closed   bool
}

// Compile compiles src into a comparator.
func Compile(src string, opts ...Option) (*Script, error) {
	s := &Script{
		source:  src,
		logger:  logging.Nop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("script")

	if strings.TrimSpace(src) == "" {
		return nil, &CompileError{Source: src, Err: errors.New("empty script")}
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	fn, err := load(L, src)
	if err != nil {
		L.Close()
		return nil, &CompileError{Source: src, Err: err}
	}

	s.L = L
	s.fn = fn
	return s, nil
}

// Comparator compiles src and returns its ordering as a plain function.
func Comparator(src string, opts ...Option) (func(a, b record.Record) bool, error) {
	s, err := Compile(src, opts...)
	if err != nil {
		return nil, err
	}
	return s.Before, nil
}

// openSafeLibraries opens the libraries a pure comparison needs.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// The base library can still reach the file system.
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
}

// load tries src as an expression first and falls back to a function body.
func load(L *lua.LState, src string) (*lua.LFunction, error) {
	chunk, err := L.LoadString("return function(a, b) return (" + src + ") end")
	if err != nil {
		chunk, err = L.LoadString("return function(a, b)\n" + src + "\nend")
		if err != nil {
			return nil, err
		}
	}

	L.Push(chunk)
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, err
	}
	fn, ok := L.Get(-1).(*lua.LFunction)
	L.Pop(1)
	if !ok {
		return nil, fmt.Errorf("chunk did not produce a function")
	}
	return fn, nil
}

// Compare evaluates the script for a and b.
func (s *Script) Compare(a, b record.Record) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	top := s.L.GetTop()
	s.L.Push(s.fn)
	s.L.Push(s.table(a))
	s.L.Push(s.table(b))

	var callErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				callErr = fmt.Errorf("lua panic: %v", r)
			}
		}()
		callErr = s.L.PCall(2, 1, nil)
	}()
	if callErr != nil {
		s.L.SetTop(top)
		return false, callErr
	}

	ret := s.L.Get(-1)
	s.L.SetTop(top)

	switch ret {
	case lua.LTrue:
		return true, nil
	case lua.LFalse, lua.LNil:
		return false, nil
	default:
		return false, fmt.Errorf("%w, got %s", ErrResult, ret.Type())
	}
}

// Before reports whether a sorts before b. A failing evaluation counts as
// false and is logged.
func (s *Script) Before(a, b record.Record) bool {
	ok, err := s.Compare(a, b)
	if err != nil {
		s.failures++
		s.lastErr = err
		s.logger.WithFields(map[string]any{"a": a.ID, "b": b.ID}).Warn("comparison failed: %v", err)
		return false
	}
	return ok
}

// Failures returns the number of failed evaluations and the last error.
func (s *Script) Failures() (int, error) {
	return s.failures, s.lastErr
}

// Source returns the script text.
func (s *Script) Source() string {
	return s.source
}

// Close releases the Lua state.
func (s *Script) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

func (s *Script) table(r record.Record) *lua.LTable {
	t := s.L.CreateTable(0, len(r.Fields)+1)
	for k, v := range r.Fields {
		t.RawSetString(k, lua.LString(v))
	}
	t.RawSetString("id", lua.LString(r.ID))
	return t
}
