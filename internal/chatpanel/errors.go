package chatpanel

import "fmt"

var (
	ErrBusy      = fmt.Errorf("a message is already being sent")
	ErrUnmounted = fmt.Errorf("widget has been unmounted")
)
