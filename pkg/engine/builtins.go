package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/place"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource transforms scenario source before it reaches zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal),
//     avoiding global symbol registration for every keyword.
//  2. Kebab-case to underscore: rect-domain -> rect_domain, since
//     zygomys reads a hyphen between identifiers as subtraction.
//  3. Lisp ; comments become zygomys // comments.
//
// All three transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword". Hyphens inside keyword
		// names become underscores so lookups match builtin keys.
		if b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, []byte(kwPrefix)...)
			for _, c := range b[i+1 : j] {
				if c == '-' {
					c = '_'
				}
				result = append(result, c)
			}
			result = append(result, '"')
			i = j
			continue
		}
		// Kebab-case: hyphen between identifier characters becomes _.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpDomain wraps a geom.Domain so it can be returned from the domain
// builtins and consumed by `scenario`.
type sexpDomain struct {
	domain geom.Domain
}

func (d *sexpDomain) SexpString(ps *zygo.PrintState) string {
	switch d.domain.Kind {
	case geom.DomainRect:
		return fmt.Sprintf("(rect-domain %gx%g)", d.domain.Width, d.domain.Height)
	case geom.DomainDisk:
		return fmt.Sprintf("(disk-domain r=%g)", d.domain.Radius)
	default:
		return fmt.Sprintf("(polygon-domain %d vertices)", len(d.domain.Vertices))
	}
}
func (d *sexpDomain) Type() *zygo.RegisteredType { return nil }

// sexpRadii wraps a radius list.
type sexpRadii struct {
	radii []float64
}

func (r *sexpRadii) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(radii n=%d)", len(r.radii))
}
func (r *sexpRadii) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string. Returns the
// keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword
// argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toDomain extracts a geom.Domain from a sexpDomain.
func toDomain(s zygo.Sexp) (geom.Domain, error) {
	if d, ok := s.(*sexpDomain); ok {
		return d.domain, nil
	}
	return geom.Domain{}, fmt.Errorf("expected domain, got %T (%s)", s, s.SexpString(nil))
}

// toRadii extracts a radius list from a sexpRadii.
func toRadii(s zygo.Sexp) ([]float64, error) {
	if r, ok := s.(*sexpRadii); ok {
		return r.radii, nil
	}
	return nil, fmt.Errorf("expected radii, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// collector receives the scenario defined during one evaluation.
type collector struct {
	req *place.Request
}

// registerBuiltins installs the scenario DSL builtins into a zygomys
// environment. Source must be preprocessed with preprocessSource first
// so :keyword tokens arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, col *collector) {

	// -----------------------------------------------------------------------
	// (rect-domain :width 10 :height 10)
	// -----------------------------------------------------------------------
	env.AddFunction("rect_domain", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var w, h float64
		var err error
		if v, ok := pa.kw["width"]; ok {
			if w, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rect-domain: width: %w", err)
			}
		}
		if v, ok := pa.kw["height"]; ok {
			if h, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rect-domain: height: %w", err)
			}
		}
		return &sexpDomain{domain: geom.RectDomain(w, h)}, nil
	})

	// -----------------------------------------------------------------------
	// (disk-domain :radius 1)
	// -----------------------------------------------------------------------
	env.AddFunction("disk_domain", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var r float64
		var err error
		if v, ok := pa.kw["radius"]; ok {
			if r, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("disk-domain: radius: %w", err)
			}
		}
		return &sexpDomain{domain: geom.DiskDomain(r)}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon-domain 0 0  10 0  10 10  0 10), flat x y pairs
	// -----------------------------------------------------------------------
	env.AddFunction("polygon_domain", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional)%2 != 0 {
			return zygo.SexpNull, fmt.Errorf("polygon-domain: expected an even number of coordinates, got %d", len(pa.positional))
		}
		pts := make([]geom.Vec, 0, len(pa.positional)/2)
		for i := 0; i < len(pa.positional); i += 2 {
			x, err := toFloat64(pa.positional[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon-domain: coordinate %d: %w", i, err)
			}
			y, err := toFloat64(pa.positional[i+1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon-domain: coordinate %d: %w", i+1, err)
			}
			pts = append(pts, geom.Vec{X: x, Y: y})
		}
		return &sexpDomain{domain: geom.PolygonDomain(pts)}, nil
	})

	// -----------------------------------------------------------------------
	// (radii 1 1 0.5 0.25)
	// -----------------------------------------------------------------------
	env.AddFunction("radii", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		rs := make([]float64, 0, len(pa.positional))
		for i, s := range pa.positional {
			r, err := toFloat64(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("radii: value %d: %w", i, err)
			}
			rs = append(rs, r)
		}
		return &sexpRadii{radii: rs}, nil
	})

	// -----------------------------------------------------------------------
	// (uniform-radii :count 16 :r 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("uniform_radii", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		count := 0
		r := 0.0
		var err error
		if v, ok := pa.kw["count"]; ok {
			if count, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("uniform-radii: count: %w", err)
			}
		}
		if v, ok := pa.kw["r"]; ok {
			if r, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("uniform-radii: r: %w", err)
			}
		}
		if count < 0 {
			return zygo.SexpNull, fmt.Errorf("uniform-radii: count must be non-negative, got %d", count)
		}
		rs := make([]float64, count)
		for i := range rs {
			rs[i] = r
		}
		return &sexpRadii{radii: rs}, nil
	})

	// -----------------------------------------------------------------------
	// (scenario :domain d :radii rs :strategy :greedy :seed 42
	//           :precision 7 :skip-unplaced true :parallel false
	//           :max-attempts 1000 :max-iterations 200 :max-restarts 32)
	// -----------------------------------------------------------------------
	env.AddFunction("scenario", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		req := place.Request{}

		v, ok := pa.kw["domain"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("scenario: missing :domain")
		}
		d, err := toDomain(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scenario: domain: %w", err)
		}
		req.Domain = d

		v, ok = pa.kw["radii"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("scenario: missing :radii")
		}
		rs, err := toRadii(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scenario: radii: %w", err)
		}
		req.Radii = rs

		if v, ok := pa.kw["strategy"]; ok {
			name, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scenario: strategy: %w", err)
			}
			strat, err := place.ParseStrategy(name)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scenario: %w", err)
			}
			req.Strategy = strat
		}
		if v, ok := pa.kw["seed"]; ok {
			seed, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scenario: seed: %w", err)
			}
			req.Seed = uint64(seed)
		}
		if v, ok := pa.kw["precision"]; ok {
			if req.Precision, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("scenario: precision: %w", err)
			}
		}
		if v, ok := pa.kw["skip_unplaced"]; ok {
			if req.SkipUnplaced, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("scenario: skip-unplaced: %w", err)
			}
		}
		if v, ok := pa.kw["parallel"]; ok {
			if req.Parallel, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("scenario: parallel: %w", err)
			}
		}
		if v, ok := pa.kw["max_attempts"]; ok {
			if req.Budget.MaxAttempts, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("scenario: max-attempts: %w", err)
			}
		}
		if v, ok := pa.kw["max_iterations"]; ok {
			if req.Budget.MaxIterations, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("scenario: max-iterations: %w", err)
			}
		}
		if v, ok := pa.kw["max_restarts"]; ok {
			if req.Budget.MaxRestarts, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("scenario: max-restarts: %w", err)
			}
		}

		col.req = &req
		return zygo.SexpNull, nil
	})
}
