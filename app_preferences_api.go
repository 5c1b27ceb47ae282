package main

import (
	"glimpse/internal/hotkeys"
	"glimpse/internal/search"
)

// ProviderInfo describes a search provider choice.
type ProviderInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Subtitle        string `json:"subtitle"`
	SignInSupported bool   `json:"signInSupported"`
	Selected        bool   `json:"selected"`
}

// GetShortcut returns the configured toggle shortcut and whether the OS
// currently holds it.
func (a *App) GetShortcut() (ShortcutInfo, error) {
	prefs, err := a.requirePreferences()
	if err != nil {
		return ShortcutInfo{}, err
	}
	sc := prefs.Shortcut()
	active := false
	if a.hotkeys != nil {
		current, ok := a.hotkeys.Active()
		active = ok && current == sc
	}
	return newShortcutInfo(sc, active), nil
}

// StartShortcutRecording captures the next valid key combination as the
// new toggle shortcut.
func (a *App) StartShortcutRecording() error {
	return a.onLoop(func() error {
		rec, err := a.requireRecorder()
		if err != nil {
			return err
		}
		rec.StartRecording()
		return nil
	})
}

func (a *App) StopShortcutRecording() error {
	return a.onLoop(func() error {
		rec, err := a.requireRecorder()
		if err != nil {
			return err
		}
		rec.StopRecording()
		return nil
	})
}

// SetShortcut parses a binding such as "Ctrl+Shift+Space" and saves it.
func (a *App) SetShortcut(binding string) error {
	prefs, err := a.requirePreferences()
	if err != nil {
		return err
	}
	sc, err := hotkeys.ParseBinding(binding)
	if err != nil {
		return err
	}
	return prefs.SetShortcut(sc)
}

// ResetShortcut restores the default toggle shortcut.
func (a *App) ResetShortcut() error {
	prefs, err := a.requirePreferences()
	if err != nil {
		return err
	}
	return prefs.ResetShortcut()
}

// GetProviders lists the search providers with the current selection.
func (a *App) GetProviders() []ProviderInfo {
	selected := ""
	if a.prefs != nil {
		selected = a.prefs.ProviderID()
	}
	all := search.All()
	out := make([]ProviderInfo, 0, len(all))
	for _, p := range all {
		out = append(out, ProviderInfo{
			ID:              p.ID(),
			Name:            p.DisplayName(),
			Subtitle:        p.Subtitle(),
			SignInSupported: search.SignInSupported(p),
			Selected:        p.ID() == selected,
		})
	}
	return out
}

// SetProvider selects the provider used from the next showing.
func (a *App) SetProvider(id string) error {
	prefs, err := a.requirePreferences()
	if err != nil {
		return err
	}
	return prefs.SetProvider(id)
}
