package event

// Type is the kind of state change an event describes.
type Type string

// Event types.
const (
	CanvasSelectionChanged Type = "CANVAS_SELECTION_CHANGED"
	EditorConfigChanged    Type = "EDITOR_CONFIG_CHANGED"
	LogMessageAdded        Type = "LOG_MESSAGE_ADDED"
	LogMessageDeleted      Type = "LOG_MESSAGE_DELETED"
	LogMessagesCleared     Type = "LOG_MESSAGES_CLEARED"
	PreviewResultsChanged  Type = "PREVIEW_RESULTS_CHANGED"
	ReadOnlyChanged        Type = "READONLY_CHANGED"
	ShowEditorPart         Type = "SHOW_EDITOR_PART"
	ViewChanged            Type = "VIEW_CHANGED"
	ViewDescriptionChanged Type = "VIEW_DESCRIPTION_CHANGED"
	ViewNameChanged        Type = "VIEW_NAME_CHANGED"
	ViewSourcesChanged     Type = "VIEW_SOURCES_CHANGED"
	ViewValidChanged       Type = "VIEW_VALID_CHANGED"
)
