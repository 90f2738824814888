package criterion

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeData maps the Data payload of an OK result onto out, which must be
// a pointer to a struct or map. Struct fields follow `mapstructure` tags,
// so hosts can unpack rule output maps into typed values:
//
//	var verdict struct {
//		Level  string  `mapstructure:"level"`
//		Factor float64 `mapstructure:"factor"`
//	}
//	if err := criterion.DecodeData(res, &verdict); err != nil { ... }
//
// Decoding a non-OK result is refused, since Data is nil on every failure
// path and silently decoding nothing hides the actual problem.
func DecodeData(res Result, out any) error {
	if res.Status != StatusOK {
		return fmt.Errorf("cannot decode data from %s result: %s", res.Status, res.Meta.Explanation)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: false,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(res.Data); err != nil {
		return fmt.Errorf("failed to decode result data: %w", err)
	}
	return nil
}
