package input

import "github.com/valerio/framedbg/framedbg/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// Navigation
	"Down":     action.SelectNext,
	"Up":       action.SelectPrev,
	"j":        action.SelectNext,
	"k":        action.SelectPrev,
	"PageDown": action.PageDown,
	"PageUp":   action.PageUp,
	"Home":     action.SelectFirst,
	"End":      action.SelectLast,
	"g":        action.SelectFirst,
	"G":        action.SelectLast,
	"n":        action.NextKick,
	"N":        action.PrevKick,
	"Right":    action.NextKick,
	"Left":     action.PrevKick,

	// Tabs
	"Tab": action.NextTab,
	"1":   action.TabContext1,
	"2":   action.TabContext2,
	"3":   action.TabInputState,
	"4":   action.TabVU1,

	// Rasteriser toggles
	"a": action.ToggleAlphaTest,
	"d": action.ToggleDepthTest,
	"b": action.ToggleAlphaBlending,

	"s":  action.VU1Step,
	"F5": action.ReloadDump,
	"F9": action.Snapshot,

	// Debug controls
	"+":      action.DebugLogLevelIncrease,
	"=":      action.DebugLogLevelIncrease, // Alternative without shift
	"-":      action.DebugLogLevelDecrease,
	"_":      action.DebugLogLevelDecrease, // Alternative with shift
	"Escape": action.Quit,
	"q":      action.Quit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
