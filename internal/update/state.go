package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskcal/internal/calendar"
)

// viewState is the small set of UI preferences kept between sessions.
type viewState struct {
	Filter        string `json:"filter"`
	SidebarHidden bool   `json:"sidebar_hidden"`
}

func (m *Model) saveViewState() {
	if err := persistViewState(m.statePath, viewState{
		Filter:        string(m.Filter),
		SidebarHidden: m.SidebarHidden,
	}); err != nil {
		m.log.Warn("persist view state failed", zap.String("path", m.statePath), zap.Error(err))
	}
}

func (m *Model) applyViewState(s viewState) {
	if f, err := calendar.ParseFilter(s.Filter); err == nil && s.Filter != "" {
		m.Filter = f
	}
	m.SidebarHidden = s.SidebarHidden
}

func persistViewState(path string, s viewState) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadViewState(path string) (viewState, error) {
	var s viewState
	raw, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return viewState{}, err
	}
	return s, nil
}
