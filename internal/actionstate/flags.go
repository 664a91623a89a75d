package actionstate

// InterfaceAction identifies a view-driven operation in flight. While any
// interface action is held, nothing may mutate the transcript surface.
type InterfaceAction string

const (
	ResizingForKeyboard  InterfaceAction = "resizingForKeyboard"
	ResizingForFrameSize InterfaceAction = "resizingForFrameSize"
	SendingMessage       InterfaceAction = "sendingMessage"
	ScrollingToTop       InterfaceAction = "scrollingToTop"
	ScrollingToBottom    InterfaceAction = "scrollingToBottom"
)

// ControllerAction identifies a data-loading operation in flight. Controller
// actions gate pagination re-entry, not viewport mutation.
type ControllerAction string

const (
	LoadingInitialBatch ControllerAction = "loadingInitialBatch"
	LoadingOlderBatch   ControllerAction = "loadingOlderBatch"
)
