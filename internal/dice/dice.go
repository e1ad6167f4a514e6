// Package dice parses and rolls chat dice expressions such as 3d6+2 or 5d10#7.
package dice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var ErrInvalidExpression = errors.New("invalid dice expression")

// FormatHint is shown to users who send an expression that does not parse.
const FormatHint = "Invalid format, valid format [1-999]d[1-9999999999][+/-][1-9999999999]"

var expressionPattern = regexp.MustCompile(`^([1-9][0-9]{0,2})d([1-9][0-9]{0,9})(?:\s?([+-])\s?([1-9][0-9]{0,9})|#([1-9][0-9]{0,9}))?$`)

type Expression struct {
	Count    int
	Sides    int64
	Modifier int64
	// Target is set for success-counting rolls; zero means a plain total.
	Target int64
}

func Parse(input string) (Expression, error) {
	m := expressionPattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return Expression{}, fmt.Errorf("%w: %q", ErrInvalidExpression, input)
	}
	count, _ := strconv.Atoi(m[1])
	sides, _ := strconv.ParseInt(m[2], 10, 64)
	expr := Expression{Count: count, Sides: sides}
	switch {
	case m[5] != "":
		expr.Target, _ = strconv.ParseInt(m[5], 10, 64)
	case m[4] != "":
		expr.Modifier, _ = strconv.ParseInt(m[4], 10, 64)
		if m[3] == "-" {
			expr.Modifier = -expr.Modifier
		}
	}
	return expr, nil
}

// Roller rolls parsed expressions with its own random source. It is safe for
// concurrent use.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRoller(src rand.Source) *Roller {
	return &Roller{rng: rand.New(src)}
}

// Roll formats the outcome the way it is posted to chat.
func (r *Roller) Roll(expr Expression) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	b.WriteString("[ ")
	var total, successes int64
	for i := range expr.Count {
		v := r.rng.Int64N(expr.Sides) + 1
		if i > 0 {
			b.WriteString(", ")
		}
		if expr.Target > 0 && v >= expr.Target {
			successes++
			b.WriteString("**" + strconv.FormatInt(v, 10) + "**")
		} else {
			b.WriteString(strconv.FormatInt(v, 10))
		}
		total += v
	}
	b.WriteString(" ]\n")
	if expr.Target > 0 {
		b.WriteString("total successes: " + strconv.FormatInt(successes, 10))
		return b.String()
	}
	b.WriteString("total: " + strconv.FormatInt(total+expr.Modifier, 10))
	return b.String()
}
