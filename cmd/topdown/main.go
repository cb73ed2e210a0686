// Command topdown opens a window on the steering and camera demo scene.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/topdown/common"
	"github.com/milk9111/topdown/ecs/component"
	"go.uber.org/zap"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and overlay")
	modeName := flag.String("mode", "", "player control mode: wasd or click (default from player.yaml)")
	enemies := flag.Int("enemies", -1, "enemy count (-1 uses enemy.yaml)")
	index := flag.String("index", "cp", "neighbor index: cp or rtree")
	watch := flag.Bool("watch", false, "reload prefabs/ when files change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	log, err := common.NewLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	opts := options{debug: *debug, enemies: *enemies, index: *index, watch: *watch}
	if *modeName != "" {
		mode, err := component.ParseControlMode(*modeName)
		if err != nil {
			log.Fatal("bad -mode", zap.Error(err))
		}
		opts.mode = &mode
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("topdown")

	game, err := NewGame(opts, log)
	if err != nil {
		log.Fatal("start", zap.Error(err))
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Fatal("run", zap.Error(err))
	}
}
