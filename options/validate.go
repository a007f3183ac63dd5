package options

import (
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// sizeSuffixes maps the unit suffixes the original's size parser
// accepts onto byte multipliers.
var sizeSuffixes = []struct {
	suffix string
	mult   float64
}{
	{"PB", 1 << 50}, {"TB", 1 << 40}, {"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10},
	{"P", 1 << 50}, {"T", 1 << 40}, {"G", 1 << 30}, {"M", 1 << 20}, {"K", 1 << 10},
	{"B", 1},
}

func parseSizeBytes(v string) (float64, error) {
	v = strings.TrimSpace(v)
	for _, s := range sizeSuffixes {
		if strings.HasSuffix(strings.ToUpper(v), s.suffix) {
			numPart := v[:len(v)-len(s.suffix)]
			n, err := strconv.ParseFloat(strings.TrimSpace(numPart), 64)
			if err != nil {
				return 0, errors.Errorf("invalid size value %q", v)
			}
			return n * s.mult, nil
		}
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Errorf("invalid size value %q", v)
	}
	return n, nil
}

var timeSuffixes = []struct {
	suffix string
	mult   float64
}{
	{"d", 86400}, {"h", 3600}, {"m", 60}, {"s", 1},
}

func parseTimeSeconds(v string) (float64, error) {
	v = strings.TrimSpace(v)
	for _, s := range timeSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			n, err := strconv.ParseFloat(v[:len(v)-len(s.suffix)], 64)
			if err != nil {
				return 0, errors.Errorf("invalid time value %q", v)
			}
			return n * s.mult, nil
		}
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Errorf("invalid time value %q", v)
	}
	return n, nil
}

// checkBounds applies Min/Max per the min-only/max-only modes
// Descriptor.HasMin/HasMax distinguish.
func checkBounds(d Descriptor, n float64) error {
	if d.HasMin && n < d.Min {
		return errors.Errorf("%q: %v below minimum %v", d.Key, n, d.Min)
	}
	if d.HasMax && n > d.Max {
		return errors.Errorf("%q: %v above maximum %v", d.Key, n, d.Max)
	}
	return nil
}

// ValidateOne checks a single value against its Descriptor, returning
// the canonicalized value. String-typed values pass through unchanged
// except for TypeBool, which is canonicalized to "true"/"false".
func ValidateOne(d Descriptor, value string) (string, error) {
	switch d.Type {
	case TypeBool:
		b, ok := normalizeBool(value)
		if !ok {
			return "", errors.Errorf("%q: %q is not a recognized boolean", d.Key, value)
		}
		if b {
			return "true", nil
		}
		return "false", nil

	case TypeInt, TypeDouble, TypePercent:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", errors.Wrapf(err, "%q: %q is not numeric", d.Key, value)
		}
		if err := checkBounds(d, n); err != nil {
			return "", err
		}
		return value, nil

	case TypeSizeBytes:
		n, err := parseSizeBytes(value)
		if err != nil {
			return "", errors.Wrapf(err, "%q", d.Key)
		}
		if err := checkBounds(d, n); err != nil {
			return "", err
		}
		return value, nil

	case TypeSizeBytesOrPercent:
		if strings.HasSuffix(value, "%") {
			n, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
			if err != nil || n < 0 || n > 100 {
				return "", errors.Errorf("%q: %q is not a valid percent", d.Key, value)
			}
			return value, nil
		}
		n, err := parseSizeBytes(value)
		if err != nil {
			return "", errors.Wrapf(err, "%q", d.Key)
		}
		if err := checkBounds(d, n); err != nil {
			return "", err
		}
		return value, nil

	case TypeTime:
		n, err := parseTimeSeconds(value)
		if err != nil {
			return "", errors.Wrapf(err, "%q", d.Key)
		}
		if err := checkBounds(d, n); err != nil {
			return "", err
		}
		return value, nil

	case TypeStringEnum:
		for _, pat := range d.Enum {
			if matched, _ := filepath.Match(pat, value); matched {
				return value, nil
			}
		}
		return "", errors.Errorf("%q: %q does not match any of %v", d.Key, value, d.Enum)

	case TypeInternetAddress:
		if net.ParseIP(value) == nil && !isHostname(value) {
			return "", errors.Errorf("%q: %q is not a valid address", d.Key, value)
		}
		return value, nil

	case TypeInternetAddressList, TypeClientAuthAddress:
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "*" {
				continue
			}
			if net.ParseIP(part) == nil && !isHostname(part) {
				return "", errors.Errorf("%q: %q is not a valid address", d.Key, part)
			}
		}
		return value, nil

	case TypePriorityList, TypeSizeList, TypePath, TypeXlatorName, TypeAny:
		return value, nil
	}
	return value, nil
}

func isHostname(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// Validate checks every key in values against schema, per spec.md
// §4.3: deprecated aliases are rewritten to their canonical key, unknown
// keys are rejected with a Suggest-backed message, and recognized
// values are validated and canonicalized. It returns a new map holding
// the canonicalized keys/values and a slice of every validation error
// encountered (the caller decides whether any error aborts the whole
// reconfigure or just that key).
func Validate(schema Schema, values map[string]string) (map[string]string, []error) {
	out := make(map[string]string, len(values))
	var errs []error

	for key, value := range values {
		desc, deprecated, ok := schema.Match(key)
		if !ok {
			msg := errors.Errorf("unknown option %q", key)
			if suggestion, ok := Suggest(schema, key); ok {
				msg = errors.Errorf("unknown option %q, did you mean %q?", key, suggestion)
			}
			errs = append(errs, msg)
			continue
		}

		canonical, err := ValidateOne(desc, value)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		targetKey := key
		if deprecated {
			targetKey = desc.Key
		}
		out[targetKey] = canonical
	}
	return out, errs
}

// ValidateGraph recursively validates every translator's options against
// its own schema lookup function, children before parent, per spec.md
// §4.3(d). schemaOf returns the Schema for a translator type; graph
// traversal itself is supplied by the caller (xlator.Graph) to avoid an
// import cycle between options and xlator.
func ValidateGraph(translators []TranslatorOptions, schemaOf func(typ string) (Schema, bool)) []error {
	var errs []error
	for _, t := range translators {
		schema, ok := schemaOf(t.Type)
		if !ok {
			continue
		}
		_, verrs := Validate(schema, t.Options)
		for _, e := range verrs {
			errs = append(errs, errors.Wrapf(e, "xlator %q", t.Name))
		}
	}
	return errs
}

// TranslatorOptions is the minimal view ValidateGraph needs of a
// translator, kept decoupled from xlator.Translator to avoid a cycle;
// xlator callers adapt their own Translator into this shape.
type TranslatorOptions struct {
	Name    string
	Type    string
	Options map[string]string
}
