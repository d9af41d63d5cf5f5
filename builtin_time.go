// builtin_time.go — time natives.
package lox

import "time"

// registerTimeBuiltins installs clock(): wall-clock seconds (fractional)
// since the Unix epoch.
func registerTimeBuiltins(ip *Interpreter) {
	ip.RegisterNative("clock", nil, func(ip *Interpreter, args []Value) Value {
		return Num(float64(time.Now().UnixNano()) / 1e9)
	})
}
