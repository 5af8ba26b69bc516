//go:build !windows

package d3xx

import "github.com/pkg/errors"

// platformDriver reports the lack of a native driver binding.
// The vendor library ships for windows only; on other systems a
// Driver must be supplied explicitly, such as d3xxtest.Driver.
func platformDriver() (Driver, error) {
	return nil, errors.New("d3xx: no native driver on this platform, supply one with WithDriver")
}
