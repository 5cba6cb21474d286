package vector

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Response wraps one HTTP response from the index service.
// The body is read in full when the response is received.
type Response struct {
	StatusCode int
	Header     http.Header
	raw        []byte
}

// NewResponse builds a Response from a status code and a raw body.
func NewResponse(statusCode int, header http.Header, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Header:     header,
		raw:        body,
	}
}

// Raw returns the undecoded payload.
func (r *Response) Raw() []byte {
	return r.raw
}

// Body is an alias of JSON.
func (r *Response) Body() (any, error) {
	return r.JSON()
}

// JSON decodes the payload into a generic tree of maps, slices and scalars.
func (r *Response) JSON() (any, error) {
	var v any
	if err := json.Unmarshal(r.raw, &v); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return v, nil
}

// IsSuccessful reports whether the status code is 2xx.
func (r *Response) IsSuccessful() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode maps the decoded payload onto out, a pointer to a struct with json tags.
func (r *Response) Decode(out any) error {
	tree, err := r.JSON()
	if err != nil {
		return err
	}

	config := &mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       float32SliceHook,
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return errors.Wrap(err, "create decoder")
	}

	if err := decoder.Decode(tree); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// float32SliceHook converts []any of float64 into []float32
func float32SliceHook(_, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf([]float32{}) {
		return data, nil
	}

	slice, ok := data.([]any)
	if !ok {
		return data, nil
	}

	result := make([]float32, len(slice))
	for i, v := range slice {
		if f, ok := v.(float64); ok {
			result[i] = float32(f)
		}
	}
	return result, nil
}
