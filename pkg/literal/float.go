package literal

import (
	"math"
	"strconv"
	"strings"
)

// formatFloat renders f the way Ruby's Float#to_s does: the shortest digits
// that round-trip, in fixed notation when the decimal exponent is in
// [-4, 16), otherwise as "d.ddde+XX". Integral values keep a ".0".
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// "d.dddde±XX" gives the shortest digits and the exponent.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expText, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(expText)
	decpt := exp + 1

	var out strings.Builder
	out.WriteString(sign)

	switch {
	case decpt > 0 && decpt <= 16:
		if len(digits) <= decpt {
			out.WriteString(digits)
			out.WriteString(strings.Repeat("0", decpt-len(digits)))
			out.WriteString(".0")
		} else {
			out.WriteString(digits[:decpt])
			out.WriteByte('.')
			out.WriteString(digits[decpt:])
		}
	case decpt <= 0 && decpt > -4:
		out.WriteString("0.")
		out.WriteString(strings.Repeat("0", -decpt))
		out.WriteString(digits)
	default:
		out.WriteByte(digits[0])
		out.WriteByte('.')
		if len(digits) > 1 {
			out.WriteString(digits[1:])
		} else {
			out.WriteByte('0')
		}
		out.WriteByte('e')
		if decpt-1 < 0 {
			out.WriteByte('-')
		} else {
			out.WriteByte('+')
		}
		expAbs := decpt - 1
		if expAbs < 0 {
			expAbs = -expAbs
		}
		if expAbs < 10 {
			out.WriteByte('0')
		}
		out.WriteString(strconv.Itoa(expAbs))
	}

	return out.String()
}
