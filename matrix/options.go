// SPDX-License-Identifier: MIT

package matrix

// DefaultValidateNaNInf toggles strict finite-value validation in Set, Fill
// and Apply.
const DefaultValidateNaNInf = true

// Option mutates Options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
}

// WithNoValidateNaNInf lets NaN and ±Inf be stored. Distance matrices use it
// to hold +Inf for "no path" and NaN for "not applicable".
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

func gatherOptions(opts ...Option) Options {
	o := Options{validateNaNInf: DefaultValidateNaNInf}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
