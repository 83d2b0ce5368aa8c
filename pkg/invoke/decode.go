package invoke

import (
	"context"
	"fmt"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// InvokeInto invokes name and decodes the normalized result into out, which must be a
// pointer. Struct fields are matched by their json tag.
func (i *Invoker) InvokeInto(ctx context.Context, name string, args map[string]any, out any) error {
	v, err := i.Invoke(ctx, name, args)
	if err != nil {
		return err
	}
	if err := Decode(v, out); err != nil {
		return domain.NewProtocolError(name, err)
	}
	return nil
}

// As invokes name and returns the result decoded as T.
func As[T any](ctx context.Context, i *Invoker, name string, args map[string]any) (T, error) {
	var out T
	err := i.InvokeInto(ctx, name, args, &out)
	return out, err
}

// Decode converts a generic JSON value (maps, slices, float64s) into out.
func Decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}
