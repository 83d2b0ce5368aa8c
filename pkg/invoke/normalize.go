package invoke

import (
	"encoding/json"

	"github.com/aretw0/hostbridge/pkg/domain"
)

// Normalize collapses the response shapes commands may return into one contract:
//
//  1. a truthy "error" field, or "success" exactly false, is a command failure;
//  2. otherwise a present "data" field (even null) is the result;
//  3. otherwise the payload itself is the result.
//
// An error marker wins over "success": true. Non-object payloads are returned unchanged.
func Normalize(raw any) (any, error) {
	return normalize("", raw)
}

func normalize(cmd string, raw any) (any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return raw, nil
	}

	errVal, hasErr := obj["error"]
	failed := hasErr && truthy(errVal)
	if success, ok := obj["success"].(bool); ok && !success {
		failed = true
	}
	if failed {
		msg := ""
		if truthy(errVal) {
			msg = errorMessage(errVal)
		}
		return nil, domain.NewCommandError(cmd, msg)
	}

	if data, ok := obj["data"]; ok {
		return data, nil
	}
	return raw, nil
}

// truthy follows JSON/JS semantics: null, false, 0 and "" are falsy.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case json.Number:
		return x.String() != "0"
	case int:
		return x != 0
	default:
		return true
	}
}

func errorMessage(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return domain.UnknownErrorMessage
	}
	return string(b)
}
