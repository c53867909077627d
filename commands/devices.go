package commands

import (
	"github.com/inertpad/inertpad/devices"
	"github.com/inertpad/inertpad/types"
)

// listTouchpads is replaced in tests
var listTouchpads = devices.ListTouchpads

// DevicesCommand lists the touchpads the engine can read from
func DevicesCommand() *CommandResponse {
	touchpads, err := listTouchpads()
	if err != nil {
		return NewErrorResponse(err)
	}
	if touchpads == nil {
		touchpads = []types.TouchpadInfo{}
	}

	return NewSuccessResponse(map[string]interface{}{
		"touchpads": touchpads,
	})
}
