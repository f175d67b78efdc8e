package json

import (
	"flashauction/packages/common/logger"
	"io"

	json "github.com/json-iterator/go"
)

var jsonLogger = logger.NewSource("JSON", logger.Default)

// Decode given json.
// Returns decoded value, or zero value and error if json is invalid.
func Decode[T any](input io.Reader) (T, error) {
	var result T

	if err := json.NewDecoder(input).Decode(&result); err != nil {
		jsonLogger.Error("Failed to decode JSON", err.Error(), nil)

		return result, err
	}

	return result, nil
}

// Same as Decode, but for in-memory json.
func DecodeBytes[T any](input []byte) (T, error) {
	var result T

	if err := json.Unmarshal(input, &result); err != nil {
		jsonLogger.Error("Failed to decode JSON", err.Error(), nil)

		return result, err
	}

	return result, nil
}

func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
