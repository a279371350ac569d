package common

import (
	"github.com/google/uuid"
)

// NewNodeID generates a unique node ID with the "node_" prefix
// Format: node_<uuid>
func NewNodeID() string {
	return "node_" + uuid.New().String()
}

// NewItemID generates a unique knowledge item ID with the "item_" prefix
func NewItemID() string {
	return "item_" + uuid.New().String()
}
