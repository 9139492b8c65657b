// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"fmt"

	"github.com/pkg/errors"
)

// A StructuralError reports a control-flow graph whose dataflow is
// undefined, such as a φ that follows a non-φ instruction. Liveness
// is never computed for such a function.
type StructuralError struct {
	Func  string
	Block string

	// Inst is the index of the offending instruction in Block,
	// or -1 if the error concerns the block as a whole.
	Inst int

	Reason string
}

func (e *StructuralError) Error() string {
	if e.Inst < 0 {
		return fmt.Sprintf("%s: block %s: %s", e.Func, e.Block, e.Reason)
	}
	return fmt.Sprintf("%s: block %s, instruction %d: %s", e.Func, e.Block, e.Inst, e.Reason)
}

// ErrIrreducible is returned by Analyze for a function whose
// control flow is not reducible, if Config.RejectIrreducible is set.
var ErrIrreducible = errors.New("irreducible control flow")
