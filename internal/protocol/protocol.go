// Package protocol defines the JSON messages exchanged with the control
// service. Each connection carries one Request followed by one Response.
package protocol

const (
	// CommandContentPush replaces the plugin output with Request.Content.
	CommandContentPush = "content.push"
	// CommandMenuRefresh asks the runner to fetch content now.
	CommandMenuRefresh = "menu.refresh"
	// CommandMenuGet returns the current menu.
	CommandMenuGet = "menu.get"
	// CommandMenuActivate activates the entry at Request.Handle.
	CommandMenuActivate = "menu.activate"
	// CommandMenuPress activates the entry bound to Request.Shortcut.
	CommandMenuPress = "menu.press"
	// CommandMenuOpen and CommandMenuClose report the dropdown state.
	CommandMenuOpen  = "menu.open"
	CommandMenuClose = "menu.close"
)

// Request is the payload sent to the control service.
type Request struct {
	Token    string `json:"token"`
	Command  string `json:"command"`
	Content  string `json:"content,omitempty"`
	Handle   string `json:"handle,omitempty"`
	Shortcut string `json:"shortcut,omitempty"`
}

// Response is the reply emitted by the service.
type Response struct {
	Error   string `json:"error,omitempty"`
	Changed bool   `json:"changed,omitempty"`
	Action  string `json:"action,omitempty"`
	Menu    *Menu  `json:"menu,omitempty"`
}

// Menu is a serialisable view of the current menu.
type Menu struct {
	Generation string   `json:"generation"`
	Header     []string `json:"header"`
	Title      string   `json:"title"`
	Updated    string   `json:"updated"`
	Open       bool     `json:"open"`
	Shortcuts  []string `json:"shortcuts,omitempty"`
	Items      []Item   `json:"items"`
}

// Item is one menu entry.
type Item struct {
	Handle     string `json:"handle"`
	Text       string `json:"text,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Color      string `json:"color,omitempty"`
	Separator  bool   `json:"separator,omitempty"`
	Selectable bool   `json:"selectable,omitempty"`
	Checked    bool   `json:"checked,omitempty"`
	Alternate  bool   `json:"alternate,omitempty"`
	Header     bool   `json:"header,omitempty"`
	Shortcut   string `json:"shortcut,omitempty"`
	Children   []Item `json:"children,omitempty"`
}
