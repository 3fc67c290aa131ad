package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/andywolf/neovate-desk/internal/apperr"
)

// Command names accepted by Invoke.
const (
	CmdGetConfigPath        = "get_config_path"
	CmdReadConfig           = "read_config"
	CmdWriteConfig          = "write_config"
	CmdInstallBuiltinPlugin = "install_builtin_plugin"
	CmdPlanSkillsMigration  = "plan_skills_migration"
	CmdApplySkillsMigration = "apply_skills_migration"
	CmdEnableBuiltinPlugin  = "enable_builtin_plugin"
	CmdDisableBuiltinPlugin = "disable_builtin_plugin"
	CmdListBuiltinPlugins   = "list_builtin_plugins"
)

// Args carries the invocation arguments. Keys are camelCase, the way the
// desktop shell serialises them.
type Args struct {
	Content    string `json:"content"`
	ID         string `json:"id"`
	SourcePath string `json:"sourcePath"`
	TargetPath string `json:"targetPath"`
	Mode       string `json:"mode"`
}

// Response is the envelope written back to the shell.
type Response struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type handler func(s *Service, a Args) (interface{}, error)

var handlers = map[string]handler{
	CmdGetConfigPath: func(s *Service, _ Args) (interface{}, error) {
		return s.GetConfigPath()
	},
	CmdReadConfig: func(s *Service, _ Args) (interface{}, error) {
		return s.ReadConfig()
	},
	CmdWriteConfig: func(s *Service, a Args) (interface{}, error) {
		return s.WriteConfig(a.Content)
	},
	CmdInstallBuiltinPlugin: func(s *Service, a Args) (interface{}, error) {
		return s.InstallBuiltinPlugin(a.ID)
	},
	CmdPlanSkillsMigration: func(s *Service, a Args) (interface{}, error) {
		return s.PlanSkillsMigration(a.SourcePath, a.TargetPath)
	},
	CmdApplySkillsMigration: func(s *Service, a Args) (interface{}, error) {
		return s.ApplySkillsMigration(a.SourcePath, a.TargetPath, a.Mode)
	},
	CmdEnableBuiltinPlugin: func(s *Service, a Args) (interface{}, error) {
		return s.EnableBuiltinPlugin(a.ID)
	},
	CmdDisableBuiltinPlugin: func(s *Service, a Args) (interface{}, error) {
		return s.DisableBuiltinPlugin(a.ID)
	},
	CmdListBuiltinPlugins: func(s *Service, _ Args) (interface{}, error) {
		return s.ListBuiltinPlugins()
	},
}

// CommandNames returns every command Invoke accepts, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command with a JSON argument object. An empty
// argsJSON is treated as "{}". Errors are flattened to strings here and
// nowhere else.
func (s *Service) Invoke(name, argsJSON string) Response {
	h, ok := handlers[strings.TrimSpace(name)]
	if !ok {
		return Response{Error: fmt.Sprintf("unknown command: %s", name)}
	}

	var args Args
	if raw := strings.TrimSpace(argsJSON); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return errorResponse(apperr.InvalidInput("invalid command arguments", err))
		}
	}

	s.logger.Debugf("invoke %s", name)
	data, err := h(s, args)
	if err != nil {
		s.logger.Debugf("invoke %s failed (%s): %v", name, apperr.KindOf(err), err)
		return errorResponse(err)
	}
	return Response{OK: true, Data: data}
}

func errorResponse(err error) Response {
	return Response{Error: err.Error()}
}
