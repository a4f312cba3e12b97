package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"travel_planner/internal/domain"
)

/********** alias registry (single source of truth) **********/

var destinationAliases = map[string][]string{
	"id":          {"id", "destination_id", "destinationId"},
	"name":        {"name", "title", "destination_name"},
	"description": {"description", "summary", "overview"},
	"image":       {"image", "image_url", "imageUrl", "photo", "cover.url"},
	"rating":      {"rating", "rating.value", "score", "stars"},
	"tagline":     {"tagline", "subtitle", "slogan"},
	"attractions": {"attractions", "highlights", "sights", "top_attractions"},
	"cuisine":     {"cuisine", "food", "local_cuisine"},
	"trip_info":   {"trip_info", "tripInfo", "info", "practical"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) string {
	for _, p := range destinationAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {name/title}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		switch raw := lookupAny(m, k).(type) {
		case []any:
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if s := strings.TrimSpace(t); s != "" {
						out = append(out, s)
					}
				case map[string]any:
					if n := lookupStr(t, "name"); n != "" {
						out = append(out, n)
					} else if n := lookupStr(t, "title"); n != "" {
						out = append(out, n)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			// comma separated list
			var out []string
			for _, p := range strings.Split(raw, ",") {
				if s := strings.TrimSpace(p); s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return []string{}
}

// firstStringMap: object of scalars, or a list of {label,value} pairs.
func firstStringMap(m map[string]any, paths ...string) map[string]string {
	for _, k := range paths {
		switch raw := lookupAny(m, k).(type) {
		case map[string]any:
			out := make(map[string]string, len(raw))
			for key, v := range raw {
				if s := scalarString(v); s != "" {
					out[key] = s
				}
			}
			if len(out) > 0 {
				return out
			}
		case []any:
			out := map[string]string{}
			for _, it := range raw {
				obj, ok := it.(map[string]any)
				if !ok {
					continue
				}
				label, value := lookupStr(obj, "label"), scalarString(obj["value"])
				if label != "" && value != "" {
					out[label] = value
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return map[string]string{}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			if s := scalarString(it); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func clampRating(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 5:
		return 5
	}
	return f
}

/********** destination mapper **********/

func mapDestination(p map[string]any) (domain.Destination, error) {
	d := domain.Destination{
		Name:        firstNonEmptyAlias(p, "name"),
		Description: firstNonEmptyAlias(p, "description"),
		Image:       firstNonEmptyAlias(p, "image"),
		Tagline:     firstNonEmptyAlias(p, "tagline"),
		Cuisine:     firstNonEmptyAlias(p, "cuisine"),
		Attractions: firstSliceStrings(p, destinationAliases["attractions"]...),
		TripInfo:    firstStringMap(p, destinationAliases["trip_info"]...),
	}
	if id := firstInt64Flexible(p, destinationAliases["id"]...); id != nil {
		d.ID = *id
	}
	if r := getFloatFlexible(p, destinationAliases["rating"]...); r != nil {
		d.Rating = clampRating(*r)
	}
	if d.Name == "" {
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return domain.Destination{}, fmt.Errorf("no name in payload (keys: %s)", strings.Join(keys, ","))
	}
	return d, nil
}
