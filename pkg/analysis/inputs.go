package analysis

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// InputDescriptor is one caller-supplied description of named input values.
// Accepted shapes:
//
//   - []string: ordered "name=value" entries; a bare "name" means the
//     boolean value "1"
//   - map[string]any or map[string]string: direct name-to-value mapping
//   - string: a single "name=value" or bare "name"
//
// Descriptors of any other shape are reported as a warning and skipped;
// they do not abort normalization.
type InputDescriptor any

// InputSet is the canonical mapping from input name to value. Values are
// string or []byte.
type InputSet map[string]any

// NormalizeInputs merges descriptors into a single InputSet. Later
// descriptors override earlier ones on name collision. After merging, every
// string value is dereferenced: a value with exactly one leading "@" is
// replaced by the binary contents of the named file, while the escapes
// "\@x" and "@@x" yield the literal value "@x".
//
// An unreadable @file reference returns an InputError. logger may be nil.
func NormalizeInputs(logger *slog.Logger, descriptors ...InputDescriptor) (InputSet, error) {
	set := InputSet{}
	for _, desc := range descriptors {
		switch d := desc.(type) {
		case []string:
			for _, entry := range d {
				name, value := splitEntry(entry)
				set[name] = value
			}
		case string:
			name, value := splitEntry(d)
			set[name] = value
		case map[string]any:
			for name, value := range d {
				set[name] = value
			}
		case map[string]string:
			for name, value := range d {
				set[name] = value
			}
		case InputSet:
			for name, value := range d {
				set[name] = value
			}
		default:
			if logger != nil {
				logger.Warn("ignoring input descriptor of unexpected shape",
					"type", fmt.Sprintf("%T", desc))
			}
		}
	}

	for name, value := range set {
		str, ok := value.(string)
		if !ok {
			continue
		}
		deref, err := derefValue(str)
		if err != nil {
			return nil, &InputError{Input: name, Err: err}
		}
		set[name] = deref
	}
	return set, nil
}

// splitEntry parses one "name=value" entry. A bare name is a boolean flag
// with the value "1".
func splitEntry(entry string) (name string, value string) {
	if i := strings.Index(entry, "="); i >= 0 {
		return entry[:i], entry[i+1:]
	}
	return entry, "1"
}

// derefValue resolves leading-@ file references and unescapes the @
// escapes. It returns string or []byte.
func derefValue(value string) (any, error) {
	switch {
	case strings.HasPrefix(value, `\@`):
		return value[1:], nil
	case strings.HasPrefix(value, "@@"):
		return value[1:], nil
	case strings.HasPrefix(value, "@"):
		path := value[1:]
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("dereferencing %q: %w", value, err)
		}
		return data, nil
	}
	return value, nil
}

// valueBytes converts an input or result value to bytes for the wire.
func valueBytes(value any) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	case nil:
		return nil
	default:
		return []byte(fmt.Sprintf("%v", v))
	}
}
