package lisp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String renders v in its canonical textual form.
func String(v Value) string {
	var sb strings.Builder
	write(&sb, v)
	return sb.String()
}

func write(sb *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("nil")
	case bool:
		if x {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case float64:
		sb.WriteString(formatNumber(x))
	case string:
		sb.WriteString(strconv.Quote(x))
	case Symbol:
		sb.WriteString(string(x))
	case []Value:
		sb.WriteByte('(')
		for i, item := range x {
			if i > 0 {
				sb.WriteByte(' ')
			}
			write(sb, item)
		}
		sb.WriteByte(')')
	case *Dict:
		sb.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, k)
			sb.WriteByte(' ')
			write(sb, x.values[k])
		}
		sb.WriteByte('}')
	case *Procedure:
		sb.WriteString("#<lambda>")
	case *Builtin:
		sb.WriteString("#<builtin " + x.displayName() + ">")
	case *Macro:
		sb.WriteString("#<macro " + x.Name + ">")
	case fmt.Stringer:
		sb.WriteString(x.String())
	default:
		fmt.Fprintf(sb, "#<%T>", v)
	}
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
