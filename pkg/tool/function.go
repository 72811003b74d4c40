package tool

import (
	"encoding/json"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

// Function describes a function the model may call.
type Function struct {
	Name        string
	Description string
	Properties  Properties
	Returns     *types.ResponseFormat
}

// Parameters renders the parameter object schema.
func (f Function) Parameters() map[string]any {
	params := map[string]any{
		"type":                 "object",
		"properties":           f.Properties.Schema(),
		"additionalProperties": false,
	}
	if req := f.Properties.RequiredNames(); len(req) > 0 {
		params["required"] = req
	}
	return params
}

// Map renders the full descriptor:
// {name, description, parameters, returns?}.
func (f Function) Map() map[string]any {
	out := map[string]any{
		"name":        f.Name,
		"description": f.Description,
		"parameters":  f.Parameters(),
	}
	if f.Returns != nil {
		returns := make(map[string]any, len(f.Returns.Schema)+1)
		for k, v := range f.Returns.Schema {
			returns[k] = v
		}
		returns["strict"] = f.Returns.Strict
		out["returns"] = returns
	}
	return out
}

func (f Function) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Map())
}
