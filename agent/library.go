package agent

import (
	"context"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// Function is a tool that a chat can call.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// Library serves the function calls of a chat.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// NewLibrary indexes functions by their declared name.
func NewLibrary[T Function](functions []T) Library {
	byName := make(map[string]Function, len(functions))
	for _, f := range functions {
		byName[f.Declaration().Name] = f
	}
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		if f, ok := byName[call.Name]; ok {
			return f.Call(ctx, call.ID, call.Args)
		}
		log.Printf("unknown-function name=%q", call.Name)
		known := strings.Join(slices.Sorted(maps.Keys(byName)), ", ")
		return &genai.FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: errorResponse(fmt.Errorf("unknown function %q, known functions are: %s", call.Name, known)),
		}
	}
}

// Declarations returns the declarations of functions, in order.
func Declarations[T Function](functions []T) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, len(functions))
	for i, f := range functions {
		decls[i] = f.Declaration()
	}
	return decls
}

func errorResponse(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}
