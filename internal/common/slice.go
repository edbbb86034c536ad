//nolint:revive // var-naming: package name "common" is intentional for shared internal utilities
package common

import (
	"cmp"
	"slices"
)

// SetDifferenceToSlice returns the elements of setA that are not in setB,
// sorted for deterministic output.
func SetDifferenceToSlice[T cmp.Ordered](setA, setB map[T]struct{}) []T {
	var result []T
	for key := range setA {
		if _, exists := setB[key]; !exists {
			result = append(result, key)
		}
	}
	slices.Sort(result)
	return result
}

// SliceToSet converts a slice to a set.
func SliceToSet[T comparable](slice []T) map[T]struct{} {
	set := make(map[T]struct{}, len(slice))
	for _, item := range slice {
		set[item] = struct{}{}
	}
	return set
}
