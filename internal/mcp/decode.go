package mcp

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/chempath/chempath/internal/errors"
)

// decode unmarshals tool arguments into a typed request. Argument shape
// problems come back as INVALID_REQUEST naming the tool and field.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, errors.NewInvalidRequest(fmt.Sprintf("%s: unreadable arguments", req.Params.Name))
	}
	if err := json.Unmarshal(b, &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && typeErr.Field != "" {
			return result, errors.NewInvalidRequest(fmt.Sprintf("%s: %s must be %s", req.Params.Name, typeErr.Field, jsonKind(typeErr.Type.Kind().String())))
		}
		return result, errors.NewInvalidRequest(fmt.Sprintf("%s: invalid arguments", req.Params.Name))
	}
	return result, nil
}

// jsonKind maps Go kinds onto the JSON type names clients see in schemas.
func jsonKind(kind string) string {
	switch kind {
	case "int", "int64":
		return "an integer"
	case "float64":
		return "a number"
	case "slice":
		return "an array"
	default:
		return "a " + kind
	}
}
