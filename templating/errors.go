package templating

import (
	"fmt"

	"github.com/byte4ever/interpol/lexer"
)

// UnboundVariableError is returned by Render when a
// variable has no binding and undefined variables are not
// ignored.
type UnboundVariableError struct {
	// Name is the normalized variable name.
	Name string
	// Position is where the placeholder opens.
	Position lexer.Position
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf(
		"variable %q is not defined at %s", e.Name, e.Position,
	)
}
