package tool

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeArgs decodes an argument or configuration mapping into a typed
// struct. Decoding is weakly typed because models and YAML loaders deliver
// numbers as float64 or int interchangeably.
func DecodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to build argument decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
