// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import "fmt"

// die reports an invariant violation; these are bugs in the caller, not user
// input errors. The CLI recovers at top level and exits.
func die(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
