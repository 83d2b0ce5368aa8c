// Package commands holds the built-in utility and settings commands served by both the
// embedded channel and the RPC server.
package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/aretw0/hostbridge/pkg/adapters/inproc"
	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Register adds every built-in command to reg. store backs the db_* commands.
func Register(reg *inproc.Registry, store ports.SettingsStore) {
	reg.Register("echo", "Returns its arguments unchanged", echo)
	reg.Register("greet", "Greets name (default World)", greet)
	reg.Register("sha256_hash", "Hex SHA-256 digest of input", sha256Hash)
	reg.Register("list_commands", "Lists registered commands", func(context.Context, map[string]any) (any, error) {
		return reg.Commands(), nil
	})

	s := &settings{store: store}
	reg.Register("db_check_health", "Checks the settings store connection", s.checkHealth)
	reg.Register("db_get_all_settings", "Lists all settings sorted by key", s.getAll)
	reg.Register("db_get_setting", "Returns the value for key, or null", s.get)
	reg.Register("db_save_setting", "Creates or replaces a setting", s.save)
	reg.Register("db_delete_setting", "Deletes a setting", s.delete)
}

// decodeArgs maps args onto out by mapstructure tags, accepting loosely typed JSON input.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func missing(param string) error {
	return fmt.Errorf("Missing '%s' parameter", param) //nolint:staticcheck // message is user facing
}

func echo(_ context.Context, args map[string]any) (any, error) {
	return args, nil
}

func greet(_ context.Context, args map[string]any) (any, error) {
	var in struct {
		Name string `mapstructure:"name"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Name == "" {
		in.Name = "World"
	}
	return fmt.Sprintf("Hello, %s! You've been greeted from the hostbridge server!", in.Name), nil
}

func sha256Hash(_ context.Context, args map[string]any) (any, error) {
	var in struct {
		Input string `mapstructure:"input"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(in.Input))
	return hex.EncodeToString(sum[:]), nil
}

type settings struct {
	store ports.SettingsStore
}

type keyArgs struct {
	Key *string `mapstructure:"key"`
}

func (s *settings) checkHealth(ctx context.Context, _ map[string]any) (any, error) {
	if err := s.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("Database connection failed: %w", err) //nolint:staticcheck // message is user facing
	}
	return map[string]any{
		"status":  "healthy",
		"message": "Database connection successful",
	}, nil
}

func (s *settings) getAll(ctx context.Context, _ map[string]any) (any, error) {
	return s.store.List(ctx)
}

func (s *settings) get(ctx context.Context, args map[string]any) (any, error) {
	var in keyArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Key == nil {
		return nil, missing("key")
	}
	setting, err := s.store.Get(ctx, *in.Key)
	if errors.Is(err, domain.ErrSettingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return setting.Value, nil
}

func (s *settings) save(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		Key      *string `mapstructure:"key"`
		Value    *string `mapstructure:"value"`
		Category string  `mapstructure:"category"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Key == nil {
		return nil, missing("key")
	}
	if in.Value == nil {
		return nil, missing("value")
	}
	err := s.store.Save(ctx, domain.Setting{Key: *in.Key, Value: *in.Value, Category: in.Category})
	if err != nil {
		return nil, err
	}
	return map[string]any{"saved": true}, nil
}

func (s *settings) delete(ctx context.Context, args map[string]any) (any, error) {
	var in keyArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Key == nil {
		return nil, missing("key")
	}
	if err := s.store.Delete(ctx, *in.Key); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true}, nil
}
