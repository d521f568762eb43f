// Package filter runs jq expressions over decoded JSON API responses.
package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeExpression fixes shell-escaped operators in jq expressions.
// Zsh escapes ! to \! even in single quotes, breaking operators like !=.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// ApplyAll runs expression over data and returns every emitted value.
// An empty expression returns data as the single result.
func ApplyAll(ctx context.Context, data any, expression string) ([]any, error) {
	if strings.TrimSpace(expression) == "" {
		return []any{data}, nil
	}

	query, err := gojq.Parse(NormalizeExpression(expression))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return runQuery(ctx, query, data)
}

// Apply runs expression over data. A single result is returned as-is;
// multiple results are returned as a []any.
func Apply(data any, expression string) (any, error) {
	results, err := ApplyAll(context.Background(), data, expression)
	if err != nil {
		return nil, err
	}
	return collapseQueryResults(results), nil
}

// ApplyFromJSON decodes jsonData and applies expression to it.
func ApplyFromJSON(jsonData []byte, expression string) (any, error) {
	var data any
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(data, expression)
}

// ApplyToJSON applies expression to jsonData and returns the result as
// indented JSON.
func ApplyToJSON(jsonData []byte, expression string) ([]byte, error) {
	if expression == "" {
		return jsonData, nil
	}
	result, err := ApplyFromJSON(jsonData, expression)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}

func runQuery(ctx context.Context, query *gojq.Query, data any) ([]any, error) {
	iter := query.RunWithContext(ctx, data)

	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func collapseQueryResults(results []any) any {
	if len(results) == 1 {
		return results[0]
	}
	return results
}
