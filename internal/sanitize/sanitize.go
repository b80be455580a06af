package sanitize

import (
	"fmt"
	"math"
	"time"
)

// Sanitize percorre um valor arbitrário (mapas, slices, escalares) e devolve
// uma cópia segura para serializar em JSON:
//
//   - NaN / ±Inf (float32 e float64) viram nil
//   - time.Time / *time.Time viram string ISO-8601
//   - mapas e slices são saneados recursivamente
//   - todo o resto passa inalterado
//
// A função é total (nunca retorna erro) e idempotente.
func Sanitize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.Format(time.RFC3339)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, vv := range v {
			out[k] = Sanitize(vv)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, vv := range v {
			out[i] = Sanitize(vv)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, vv := range v {
			out[i] = Sanitize(vv)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, vv := range v {
			out[i] = vv
		}
		return out
	default:
		return value
	}
}

// BadValue localiza um valor que o encoder JSON estrito rejeitaria.
type BadValue struct {
	Path  string
	Value string
}

// FindNonJSONNumbers devolve (path, valor) de cada NaN/Inf encontrado.
// Útil para debugar payloads antes da chamada de API.
func FindNonJSONNumbers(value any, maxHits int) []BadValue {
	if maxHits <= 0 {
		maxHits = 50
	}
	var hits []BadValue
	walkBadValues(value, "", maxHits, &hits)
	return hits
}

func walkBadValues(value any, path string, maxHits int, hits *[]BadValue) {
	if len(*hits) >= maxHits {
		return
	}

	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			*hits = append(*hits, BadValue{Path: path, Value: fmt.Sprintf("%v", v)})
		}
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			*hits = append(*hits, BadValue{Path: path, Value: fmt.Sprintf("%v", v)})
		}
	case map[string]any:
		for k, vv := range v {
			p := k
			if path != "" {
				p = path + "." + k
			}
			walkBadValues(vv, p, maxHits, hits)
		}
	case []any:
		for i, vv := range v {
			walkBadValues(vv, fmt.Sprintf("%s[%d]", path, i), maxHits, hits)
		}
	}
}
