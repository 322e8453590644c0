// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// LoadPropertiesFile reads a properties file given with -P. Files ending in .toml are
// decoded as TOML and flattened to dotted keys; everything else is read as a
// Java-style .properties file. A key defined twice fails with *DuplicateKeyError.
func LoadPropertiesFile(path string) (*Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties file %q: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		props, err := parseTOMLProperties(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse properties file %q: %w", path, err)
		}
		return props, nil
	}

	props, err := ParseProperties(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse properties file %q: %w", path, err)
	}
	return props, nil
}

func parseTOMLProperties(data []byte) (*Properties, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	props := NewProperties()
	if err := flattenInto(props, "", doc); err != nil {
		return nil, err
	}
	return props, nil
}

// flattenInto walks nested tables in key order so the resulting Properties are
// deterministic.
func flattenInto(props *Properties, prefix string, table map[string]any) error {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}

		switch v := table[k].(type) {
		case map[string]any:
			if err := flattenInto(props, name, v); err != nil {
				return err
			}
		case []any:
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = fmt.Sprint(item)
			}
			if err := props.Put(name, strings.Join(parts, ",")); err != nil {
				return err
			}
		default:
			if err := props.Put(name, fmt.Sprint(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseProperties reads the .properties format: "key=value", "key: value" or
// "key value" per logical line, '#' and '!' comments, backslash line continuation,
// and the \t \n \r \f \uXXXX escapes.
func ParseProperties(r io.Reader) (*Properties, error) {
	props := NewProperties()
	scanner := bufio.NewScanner(r)

	var logical strings.Builder
	continuing := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if continuing {
			line = strings.TrimLeft(line, " \t\f")
		} else {
			trimmed := strings.TrimLeft(line, " \t\f")
			if trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
				continue
			}
			line = trimmed
		}

		if endsWithContinuation(line) {
			logical.WriteString(line[:len(line)-1])
			continuing = true
			continue
		}

		logical.WriteString(line)
		continuing = false

		key, value, err := splitProperty(logical.String())
		logical.Reset()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := props.Put(key, value); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if logical.Len() > 0 {
		key, value, err := splitProperty(logical.String())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := props.Put(key, value); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	return props, nil
}

// endsWithContinuation reports an odd number of trailing backslashes.
func endsWithContinuation(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func splitProperty(line string) (string, string, error) {
	keyEnd := len(line)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '=' || c == ':' || c == ' ' || c == '\t' || c == '\f' {
			keyEnd = i
			break
		}
	}

	rest := strings.TrimLeft(line[min(keyEnd, len(line)):], " \t\f")
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = strings.TrimLeft(rest[1:], " \t\f")
	}

	key, err := unescapeProperty(line[:keyEnd])
	if err != nil {
		return "", "", err
	}
	value, err := unescapeProperty(rest)
	if err != nil {
		return "", "", err
	}
	return key, value, nil
}

func unescapeProperty(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			sb.WriteByte(c)
			continue
		}

		i++
		switch s[i] {
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 'f':
			sb.WriteByte('\f')
		case 'u':
			if len(s)-i-1 < 4 {
				return "", fmt.Errorf("malformed \\u escape in %q", s)
			}
			r, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("malformed \\u escape in %q: %w", s, err)
			}
			sb.WriteRune(rune(r))
			i += 4
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String(), nil
}
