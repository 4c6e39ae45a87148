package checkout

import (
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"
)

// DecodeForm reads a Submission from posted form values. Missing fields
// keep their zero value; an unchecked agree_terms box is simply absent.
func DecodeForm(values url.Values) (Submission, error) {
	flat := make(map[string]interface{}, len(values))
	for k := range values {
		flat[k] = values.Get(k)
	}
	if v, ok := flat["agree_terms"]; ok && v == "on" {
		flat["agree_terms"] = "true"
	}

	var s Submission
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return Submission{}, fmt.Errorf("new decoder: %w", err)
	}
	if err := dec.Decode(flat); err != nil {
		return Submission{}, fmt.Errorf("decode checkout form: %w", err)
	}
	return s, nil
}
