// Package engine provides the scenario evaluation engine. It wraps
// zygomys in a sandboxed environment and produces a placement request
// from a scenario script, so benchmark and test inputs can be described
// declaratively:
//
//	(scenario :domain (rect-domain :width 10 :height 10)
//	          :radii (uniform-radii :count 4 :r 1)
//	          :strategy :greedy
//	          :seed 42)
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/placement/pkg/place"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in the scenario script.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for scenario evaluation. It is
// safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate takes scenario source code and produces a placement request.
//
// Return semantics:
//   - On success: request + nil errors + nil error
//   - On parse/eval failure: nil request + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Evaluate(source string) (*place.Request, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		req, evalErrs, err := e.evaluate(source)
		ch <- evalResult{req: req, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*place.Request, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "empty scenario"}}, nil
	}

	// Sandbox mode prevents scenario scripts from touching the
	// filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	col := &collector{}
	registerBuiltins(env, col)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if col.req == nil {
		return nil, []EvalError{{Message: "scenario script defined no (scenario ...)"}}, nil
	}
	return col.req, nil, nil
}

// linePattern matches zygomys error messages that include line info.
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into an EvalError,
// extracting line number information when the message carries it.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
