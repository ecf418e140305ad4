// FILE: tek/config/helper.go
package config

import (
	"slices"
	"strings"
)

// flattenMap converts a nested map[string]any to a flat map with dot-notation keys.
func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + "." + key
		}

		if nestedMap, isMap := value.(map[string]any); isMap {
			for subPath, subValue := range flattenMap(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// flagName converts a config key to its CLI flag name.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// orderedSections returns section names with "global" first, the rest sorted.
func orderedSections[V any](sections map[string]V) []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		if name != GlobalSection {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	if _, ok := sections[GlobalSection]; ok {
		names = append([]string{GlobalSection}, names...)
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
