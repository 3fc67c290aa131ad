package commands

import (
	"github.com/andywolf/neovate-desk/internal/configstore"
	"github.com/andywolf/neovate-desk/internal/plugins"
)

// ToggleResult is the outcome of enabling or disabling a built-in plugin.
type ToggleResult struct {
	ID         string  `json:"id" yaml:"id"`
	Path       string  `json:"path" yaml:"path"`
	Wrote      bool    `json:"wrote" yaml:"wrote"`
	Changed    bool    `json:"changed" yaml:"changed"`
	BackupPath *string `json:"backup_path" yaml:"backup_path"`
}

// EnableBuiltinPlugin installs the plugin and lists its installed path in
// the config's plugins array. A legacy "builtin:<id>" entry is rewritten to
// the installed path. The config is only written when it changes.
func (s *Service) EnableBuiltinPlugin(id string) (*ToggleResult, error) {
	installed, err := s.InstallBuiltinPlugin(id)
	if err != nil {
		return nil, err
	}
	p, err := plugins.Lookup(id)
	if err != nil {
		return nil, err
	}

	cfg, err := s.ReadConfig()
	if err != nil {
		return nil, err
	}
	updated, changed, err := configstore.EnablePlugin(cfg.Content, installed.Path, p.LegacyEntry(), func(entry string) bool {
		return p.MatchesEntry(entry, installed.Path)
	})
	if err != nil {
		return nil, err
	}

	res := &ToggleResult{ID: p.ID, Path: installed.Path, Wrote: installed.Wrote, Changed: changed}
	if !changed {
		s.logger.Debugf("plugin %s already enabled", p.ID)
		return res, nil
	}
	written, err := s.WriteConfig(updated)
	if err != nil {
		return nil, err
	}
	res.BackupPath = written.BackupPath
	s.logger.Infof("enabled plugin %s", p.ID)
	return res, nil
}

// DisableBuiltinPlugin removes every config entry referring to the plugin.
// The installed script is left on disk.
func (s *Service) DisableBuiltinPlugin(id string) (*ToggleResult, error) {
	p, err := plugins.Lookup(id)
	if err != nil {
		return nil, err
	}
	dest := s.installer().DestPath(p)

	cfg, err := s.ReadConfig()
	if err != nil {
		return nil, err
	}
	res := &ToggleResult{ID: p.ID, Path: dest}
	if !cfg.Exists {
		return res, nil
	}

	updated, changed, err := configstore.DisablePlugin(cfg.Content, func(entry string) bool {
		return p.MatchesEntry(entry, dest)
	})
	if err != nil {
		return nil, err
	}
	res.Changed = changed
	if !changed {
		return res, nil
	}
	written, err := s.WriteConfig(updated)
	if err != nil {
		return nil, err
	}
	res.BackupPath = written.BackupPath
	s.logger.Infof("disabled plugin %s", p.ID)
	return res, nil
}
