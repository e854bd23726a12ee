package action

// Action represents input actions that can be performed in the debugger
type Action int

const (
	// Command list navigation
	SelectNext Action = iota
	SelectPrev
	PageDown
	PageUp
	SelectFirst
	SelectLast
	NextKick
	PrevKick

	// Tabs
	NextTab
	TabContext1
	TabContext2
	TabInputState
	TabVU1

	// Rasteriser debug toggles
	ToggleAlphaTest
	ToggleDepthTest
	ToggleAlphaBlending

	VU1Step
	ReloadDump
	Snapshot

	DebugLogLevelIncrease
	DebugLogLevelDecrease

	Quit
)

// Category groups actions by how backends deliver them.
type Category int

const (
	// CategoryNavigation actions repeat while a key is held.
	CategoryNavigation Category = iota
	// CategoryView actions switch what is displayed.
	CategoryView
	// CategoryToggle actions change replay behaviour and are debounced.
	CategoryToggle
	// CategorySystem actions control the debugger itself.
	CategorySystem
)

// Info describes an action.
type Info struct {
	Name        string
	Description string
	Category    Category
}

var infos = map[Action]Info{
	SelectNext:            {"select-next", "Select next write", CategoryNavigation},
	SelectPrev:            {"select-prev", "Select previous write", CategoryNavigation},
	PageDown:              {"page-down", "Move one page down", CategoryNavigation},
	PageUp:                {"page-up", "Move one page up", CategoryNavigation},
	SelectFirst:           {"select-first", "Select first write", CategoryNavigation},
	SelectLast:            {"select-last", "Select last write", CategoryNavigation},
	NextKick:              {"next-kick", "Jump to next drawing kick", CategoryNavigation},
	PrevKick:              {"prev-kick", "Jump to previous drawing kick", CategoryNavigation},
	NextTab:               {"next-tab", "Cycle tabs", CategoryView},
	TabContext1:           {"tab-context1", "Show context 1", CategoryView},
	TabContext2:           {"tab-context2", "Show context 2", CategoryView},
	TabInputState:         {"tab-input", "Show input state", CategoryView},
	TabVU1:                {"tab-vu1", "Show VU1 microprogram", CategoryView},
	ToggleAlphaTest:       {"toggle-alpha-test", "Toggle alpha testing", CategoryToggle},
	ToggleDepthTest:       {"toggle-depth-test", "Toggle depth testing", CategoryToggle},
	ToggleAlphaBlending:   {"toggle-alpha-blend", "Toggle alpha blending", CategoryToggle},
	VU1Step:               {"vu1-step", "Step VU1 microprogram", CategoryToggle},
	ReloadDump:            {"reload", "Reload frame dump", CategoryToggle},
	Snapshot:              {"snapshot", "Save displayed frame as PNG", CategoryToggle},
	DebugLogLevelIncrease: {"log-more", "Show more log levels", CategorySystem},
	DebugLogLevelDecrease: {"log-less", "Show fewer log levels", CategorySystem},
	Quit:                  {"quit", "Quit", CategorySystem},
}

// GetInfo returns the description of an action.
func GetInfo(act Action) Info {
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Name: "unknown", Description: "Unknown action", Category: CategorySystem}
}

func (a Action) String() string { return GetInfo(a).Name }
