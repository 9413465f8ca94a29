package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// Formats lists the supported encodings.
var Formats = []string{string(YAML), string(JSON)}

// ParseFormat validates a format name. The empty string means YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// FormatFromPath infers the format from the file extension, defaulting
// to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// Encode writes v to w in format f.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case YAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// WriteFile encodes v and atomically replaces path with the result,
// creating parent directories as needed.
func WriteFile(path string, v any, f Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, v, f); err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// WriteBytes atomically replaces path with data.
func WriteBytes(path string, data []byte) error {
	return writeAtomic(path, data)
}

// Decode reads a document in format f from r into v.
func Decode(r io.Reader, v any, f Format) error {
	switch f {
	case JSON:
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
	case YAML, "":
		if err := yaml.NewDecoder(r).Decode(v); err != nil && err != io.EOF {
			return fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	return nil
}

// ReadTree loads a tree document, inferring the format from path.
func ReadTree(path string) ([]any, error) {
	var tree []any
	if err := readFile(path, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// ReadChildren loads a children document, inferring the format from path.
func ReadChildren(path string) (map[string][]string, error) {
	var children map[string][]string
	if err := readFile(path, &children); err != nil {
		return nil, err
	}
	if children == nil {
		children = map[string][]string{}
	}
	for name, desc := range children {
		if desc == nil {
			children[name] = []string{}
		}
	}
	return children, nil
}

func readFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Decode(f, v, FormatFromPath(path)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
