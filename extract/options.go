package extract

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Options toggles optional parts of the extraction. The zero value
// extracts the core schema only.
type Options struct {
	// IncludeAssets lists the embedded media parts with their digests.
	IncludeAssets bool
	// IncludeMetadata adds document properties, chart axes and plot area
	// detail.
	IncludeMetadata bool
	// IncludeAnimations adds the slide animation sequences.
	IncludeAnimations bool
	// IncludeComments adds reviewer comments.
	IncludeComments bool
	// ExtractImages reads picture bytes: pixel size, byte size and base64
	// data.
	ExtractImages bool
	// OCRImages runs OCR over extracted pictures. It has no effect unless
	// ExtractImages is set.
	OCRImages bool
}

// Normalize resolves contradictory combinations.
func (o Options) Normalize() Options {
	if !o.ExtractImages {
		o.OCRImages = false
	}
	return o
}

// String lists the enabled options.
func (o Options) String() string {
	var on []string
	for _, f := range o.fields() {
		if *f.value {
			on = append(on, f.name)
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ",")
}

type optionField struct {
	name  string
	value *bool
}

func (o *Options) fields() []optionField {
	return []optionField{
		{"includeAssets", &o.IncludeAssets},
		{"includeMetadata", &o.IncludeMetadata},
		{"includeAnimations", &o.IncludeAnimations},
		{"includeComments", &o.IncludeComments},
		{"extractImages", &o.ExtractImages},
		{"ocrImages", &o.OCRImages},
	}
}

// ParseOptions builds Options from a loosely typed map, such as decoded
// JSON or form values. Keys may be camelCase or snake_case. Values may be
// booleans, numbers or strings accepted by strconv.ParseBool. Unknown keys
// and unparseable values are skipped and reported in the second return
// value, sorted.
func ParseOptions(m map[string]any) (Options, []string) {
	var o Options
	byKey := make(map[string]*bool)
	for _, f := range o.fields() {
		byKey[canonicalKey(f.name)] = f.value
	}

	var skipped []string
	for k, v := range m {
		dst, ok := byKey[canonicalKey(k)]
		if !ok {
			skipped = append(skipped, k)
			continue
		}
		b, err := asBool(v)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s (%v)", k, err))
			continue
		}
		*dst = b
	}
	sort.Strings(skipped)
	return o.Normalize(), skipped
}

func canonicalKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, "_", "")
	return strings.ReplaceAll(k, "-", "")
}

func asBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(x))
	case int:
		return x != 0, nil
	case int64:
		return x != 0, nil
	case float64:
		return x != 0, nil
	case nil:
		return false, nil
	}
	return false, fmt.Errorf("unsupported value type %T", v)
}
