// Package commands is the boundary between neovate-desk's operations and the
// callers that drive them: the cobra CLI and the JSON invoke bridge the
// desktop shell uses.
package commands

import (
	"time"

	"github.com/andywolf/neovate-desk/internal/configstore"
	"github.com/andywolf/neovate-desk/internal/logging"
	"github.com/andywolf/neovate-desk/internal/paths"
	"github.com/andywolf/neovate-desk/internal/plugins"
	"github.com/andywolf/neovate-desk/internal/skills"
)

// Service runs the external operations. It holds no state between calls;
// every operation resolves its paths from the environment when invoked.
type Service struct {
	dataDir    string
	skillsOpts skills.Options
	logger     logging.Logger
	now        func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger passed to every component.
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSkillsOptions sets the options used for skills migrations.
func WithSkillsOptions(opts skills.Options) Option {
	return func(s *Service) {
		s.skillsOpts = opts
	}
}

// WithClock overrides the clock used for config backup timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service installing plugins under dataDir.
func NewService(dataDir string, opts ...Option) *Service {
	s := &Service{
		dataDir: dataDir,
		logger:  logging.Nop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) store() (*configstore.Store, error) {
	path, err := paths.ConfigPath()
	if err != nil {
		return nil, err
	}
	return configstore.NewStore(path, configstore.WithClock(s.now), configstore.WithLogger(s.logger)), nil
}

func (s *Service) installer() *plugins.Installer {
	return plugins.NewInstaller(s.dataDir, s.logger)
}

func (s *Service) migrator() *skills.Migrator {
	return skills.NewMigrator(s.skillsOpts, s.logger)
}

// GetConfigPath returns the location of the Neovate config document.
func (s *Service) GetConfigPath() (string, error) {
	st, err := s.store()
	if err != nil {
		return "", err
	}
	return st.Path(), nil
}

// ReadConfig returns the config document, or a placeholder when it is missing.
func (s *Service) ReadConfig() (*configstore.ReadResult, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.Read()
}

// WriteConfig validates and replaces the config document.
func (s *Service) WriteConfig(content string) (*configstore.WriteResult, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.Write(content)
}

// InstallBuiltinPlugin writes a bundled plugin into the data directory.
func (s *Service) InstallBuiltinPlugin(id string) (*plugins.InstallResult, error) {
	return s.installer().Install(id)
}

// ListBuiltinPlugins reports the install state of every bundled plugin and
// whether the config's plugins array refers to it.
func (s *Service) ListBuiltinPlugins() ([]plugins.Status, error) {
	list := s.installer().List()
	cfg, err := s.ReadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Exists {
		return list, nil
	}
	entries, err := configstore.PluginEntries(cfg.Content)
	if err != nil {
		// A hand-edited config that is not an object still lists install state.
		s.logger.Warningf("cannot read plugins from config: %v", err)
		return list, nil
	}
	for i := range list {
		p, err := plugins.Lookup(list[i].ID)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if p.MatchesEntry(entry, list[i].Path) {
				list[i].Enabled = true
				break
			}
		}
	}
	return list, nil
}

// PlanSkillsMigration previews a skills migration.
func (s *Service) PlanSkillsMigration(sourcePath, targetPath string) (*skills.Plan, error) {
	return s.migrator().Plan(sourcePath, targetPath)
}

// ApplySkillsMigration performs a skills migration. A partial Result is
// returned alongside the error when the migration stops midway.
func (s *Service) ApplySkillsMigration(sourcePath, targetPath, mode string) (*skills.Result, error) {
	return s.migrator().Apply(sourcePath, targetPath, mode)
}
