package service

import "strings"

// ItemNameSplit is one way of reading an order line's itemName as
// "<product> <package type>".
type ItemNameSplit struct {
	Product     string
	PackageType string
}

var containerWords = map[string]bool{"keg": true, "bottle": true, "can": true}

// ParseItemName returns candidate splits, longest package descriptor first.
// A three-token descriptor is only offered when the last token is a container
// word ("1/2 BBL Keg"); two and one token descriptors follow. The product part
// is never empty.
func ParseItemName(itemName string) []ItemNameSplit {
	tokens := strings.Fields(itemName)
	n := len(tokens)
	var splits []ItemNameSplit
	for size := 3; size >= 1; size-- {
		if n-size < 1 {
			continue
		}
		if size == 3 && !containerWords[strings.ToLower(tokens[n-1])] {
			continue
		}
		splits = append(splits, ItemNameSplit{
			Product:     strings.Join(tokens[:n-size], " "),
			PackageType: strings.Join(tokens[n-size:], " "),
		})
	}
	return splits
}

// KegProductName strips the keg descriptor ("1/2 BBL Keg") from an itemName.
// At least one token is always kept.
func KegProductName(itemName string) string {
	tokens := strings.Fields(itemName)
	strip := 3
	if len(tokens)-strip < 1 {
		strip = len(tokens) - 1
	}
	if strip < 0 {
		return ""
	}
	return strings.Join(tokens[:len(tokens)-strip], " ")
}
