package util

import (
	"encoding/json"
	"fmt"
)

// PrintPrettyJSON prints v as indented JSON on stdout.
func PrintPrettyJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// PrintPrettyJSONSlice prints items as a JSON array. A nil slice prints
// as [] rather than null.
func PrintPrettyJSONSlice[T any](items []T) error {
	if len(items) == 0 {
		fmt.Println("[]")
		return nil
	}
	return PrintPrettyJSON(items)
}
