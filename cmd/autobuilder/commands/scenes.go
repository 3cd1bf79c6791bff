package commands

import (
	"fmt"

	"git.home.luguber.info/inful/autobuilder/internal/build"
)

// ScenesCmd implements the 'scenes' command.
type ScenesCmd struct {
	All bool `short:"a" help:"Include disabled scenes, marked with [ ]"`
}

func (s *ScenesCmd) Run(g *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return err
	}
	scenes, err := SceneRegistry(cfg)
	if err != nil {
		return err
	}

	w := g.out()
	if !s.All {
		d := build.NewDispatcher(build.Settings{Scenes: scenes}, build.DryRunEngine{})
		for _, path := range d.EnabledScenes() {
			_, _ = fmt.Fprintln(w, path)
		}
		return nil
	}
	for _, scene := range scenes {
		mark := "[ ]"
		if scene.Enabled {
			mark = "[x]"
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", mark, scene.Path)
	}
	return nil
}
