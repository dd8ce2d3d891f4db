package entity

// UnknownItemName is the name reported for items whose metadata could not be resolved.
const UnknownItemName = "UNKNOWN"

// ItemMetadata is the display data of an item.
// Known is false when the lookup failed; Name then holds UnknownItemName.
type ItemMetadata struct {
	ItemID  int64
	Name    string
	Quality string // e.g. "EPIC"; empty when the API does not report one
	Known   bool
}

// UnknownItem returns the metadata value used when a lookup fails.
func UnknownItem(itemID int64) ItemMetadata {
	return ItemMetadata{ItemID: itemID, Name: UnknownItemName}
}
