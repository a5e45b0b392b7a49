package api

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
)

// ModelDescriptor is one entry of the provider's models catalog
type ModelDescriptor struct {
	ID            string
	Name          string
	ContextLength int64
	Free          bool
}

// parseFreeModels reads the catalog's data array and keeps the entries
// whose prompt and completion prices are both zero, in catalog order.
func parseFreeModels(endpoint string, body []byte) ([]ModelDescriptor, error) {
	if !gjson.ValidBytes(body) {
		return nil, clierrors.NewAPIError(0, endpoint, "models response is not valid JSON")
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, clierrors.NewAPIError(0, endpoint, "models response has no data array")
	}

	models := make([]ModelDescriptor, 0)
	data.ForEach(func(_, entry gjson.Result) bool {
		id := entry.Get("id").String()
		if id == "" {
			return true
		}
		if !isFree(entry.Get("pricing")) {
			return true
		}
		name := entry.Get("name").String()
		if name == "" {
			name = id
		}
		models = append(models, ModelDescriptor{
			ID:            id,
			Name:          name,
			ContextLength: entry.Get("context_length").Int(),
			Free:          true,
		})
		return true
	})
	return models, nil
}

// isFree reports whether both prices are present and zero.
// Prices arrive as decimal strings ("0", "0.0000015") or numbers.
func isFree(pricing gjson.Result) bool {
	return isZeroPrice(pricing.Get("prompt")) && isZeroPrice(pricing.Get("completion"))
}

func isZeroPrice(price gjson.Result) bool {
	switch price.Type {
	case gjson.Number:
		return price.Float() == 0
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(price.String()), 64)
		return err == nil && v == 0
	default:
		return false
	}
}
