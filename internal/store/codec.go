package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/byterings/gprofile/internal/profile"
)

// Codec converts the registry state to and from a file format.
type Codec interface {
	Name() string
	Marshal(state profile.State) ([]byte, error)
	Unmarshal(data []byte, state *profile.State) error
}

// Format names accepted by CodecFor.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// CodecFor returns the codec for a format name.
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return jsonCodec{}, nil
	case FormatTOML:
		return tomlCodec{}, nil
	case FormatYAML, "yml":
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported store format %q", format)
	}
}

// CodecForPath picks a codec from the file extension, defaulting to JSON.
func CodecForPath(path string) Codec {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if c, err := CodecFor(ext); err == nil {
		return c
	}
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return FormatJSON }

func (jsonCodec) Marshal(state profile.State) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte, state *profile.State) error {
	return json.Unmarshal(data, state)
}

type tomlCodec struct{}

func (tomlCodec) Name() string { return FormatTOML }

func (tomlCodec) Marshal(state profile.State) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (tomlCodec) Unmarshal(data []byte, state *profile.State) error {
	_, err := toml.Decode(string(data), state)
	return err
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return FormatYAML }

func (yamlCodec) Marshal(state profile.State) ([]byte, error) {
	return yaml.Marshal(state)
}

func (yamlCodec) Unmarshal(data []byte, state *profile.State) error {
	return yaml.Unmarshal(data, state)
}
