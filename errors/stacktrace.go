package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given
// error or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	type causer interface {
		Cause() error
	}

	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

func matchesFunc(f errors.Frame, prefixes ...string) bool {
	fn := funcName(f)
	for _, prefix := range prefixes {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return false
}

func funcName(f errors.Frame) string {
	// Frame is the program counter + 1.
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

func fileLine(f errors.Frame) (string, int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

func trimInternal(st errors.StackTrace) errors.StackTrace {
	// Trim our internal parts here. Manual error creation and wrapping
	// frames are never interesting.
	for matchesFunc(st[0],
		"github.com/vestnet/vest/errors.Wrap",
		"github.com/vestnet/vest/errors.Wrapf",
		"github.com/vestnet/vest/errors.(*Error).New",
		"github.com/vestnet/vest/errors.(*Error).Newf",
	) {
		st = st[1:]
	}
	// Trim out outer wrappers (runtime.goexit and test library if present).
	for l := len(st) - 1; l > 0 && matchesFunc(st[l], "runtime.", "testing."); l-- {
		st = st[:l]
	}
	return st
}

func writeSimpleFrame(s io.Writer, f errors.Frame) {
	file, line := fileLine(f)
	// Cut the GOPATH or module prefix, leaving the last two path
	// elements.
	chunks := strings.Split(file, "/")
	if n := len(chunks); n > 2 {
		file = strings.Join(chunks[n-2:], "/")
	}
	fmt.Fprintf(s, "[%s:%d]", file, line)
}

// Format works like pkg/errors, with additions.
// %s is just the error message
// %+v is the full stack trace
// %v appends a compressed [filename:line] where the error was created
func (e *wrappedError) Format(s fmt.State, verb rune) {
	// Normal output here.
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	// Work with the stack trace.
	st := stackTrace(e)
	if st == nil {
		fmt.Fprint(s, e.Error())
		return
	}
	st = trimInternal(st)
	// Print the full stack.
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n", st)
		fmt.Fprint(s, e.Error())
		return
	}
	fmt.Fprint(s, e.Error())
	writeSimpleFrame(s, st[0])
}
