package listing

import jsoniter "github.com/json-iterator/go"

// Listings embedded into other entities are received keyed by column names.
var rowAPI = jsoniter.Config{
	TagKey:                 "db",
	UseNumber:              false,
	OnlyTaggedField:        true,
	ValidateJsonRawMessage: true,
}.Froze()

// Decodes listing from JSON object keyed either by column names (e.g. "firstreg"),
// as stores embed it, or by field names (e.g. "firstReg"), as it is encoded for clients.
func DecodeRow(data []byte) (*Listing, error) {
	l := new(Listing)
	if err := jsoniter.Unmarshal(data, l); err != nil {
		return nil, err
	}
	if err := rowAPI.Unmarshal(data, l); err != nil {
		return nil, err
	}
	l.ParseData()
	return l, nil
}
