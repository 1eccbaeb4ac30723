package output

// VirtualizationInfo is the JSON form of a virtualization in list output.
type VirtualizationInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Views       int    `json:"views"`
}

// ViewInfo is the JSON form of a view.
type ViewInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Editable    bool     `json:"editable"`
	Sources     []string `json:"sources"`
}

// ListOutput is the JSON output of list commands.
type ListOutput struct {
	Virtualizations []VirtualizationInfo `json:"virtualizations,omitempty"`
	Views           []ViewInfo           `json:"views,omitempty"`
}

// ImportOutput is the JSON output of the import command.
type ImportOutput struct {
	Directory string `json:"directory"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Views     int    `json:"views"`
}
