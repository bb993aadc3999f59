package command

import "fmt"

// wire2 formats a 0-based index as the wire's 1-based two-digit form
// ("01".."32" etc.), per spec.md §3.3.
func wire2(i int) string {
	return fmt.Sprintf("%02d", i+1)
}

// wire1 formats a 0-based index as the wire's 1-based single-digit form,
// used for EQ band and FX slot numbering.
func wire1(i int) string {
	return fmt.Sprintf("%d", i+1)
}

// bandPrefix builds the address prefix for EQ band b (0-based) under the
// given strip prefix: ".../eq/B".
func bandPrefix(eqPrefix string, b int) string {
	return eqPrefix + "/" + wire1(b)
}

// sendPrefix builds the address prefix for bus send b (0-based) under the
// given mix prefix: ".../mix/MM".
func sendPrefix(mixPrefix string, b int) string {
	return mixPrefix + "/" + wire2(b)
}
