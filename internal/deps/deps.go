package deps

import (
	"os/exec"
	"runtime"
)

type Dependency struct {
	Name       string
	Command    string
	Required   bool
	InstallCmd map[string]string
}

type MissingDep struct {
	Dependency
}

var dependencies = []Dependency{
	{
		Name:     "git",
		Command:  "git",
		Required: true,
		InstallCmd: map[string]string{
			"darwin": "brew install git",
			"linux":  "sudo apt install git",
		},
	},
}

var lookPath = exec.LookPath

// Check reports every required executable that is not on PATH.
func Check() []MissingDep {
	missing := []MissingDep{}
	for _, dep := range dependencies {
		if !dep.Required {
			continue
		}
		if _, err := lookPath(dep.Command); err != nil {
			missing = append(missing, MissingDep{dep})
		}
	}
	return missing
}

func InstallHint(dep MissingDep) string {
	if cmd, ok := dep.InstallCmd[runtime.GOOS]; ok {
		return cmd
	}
	return "install " + dep.Name + " via your package manager"
}
