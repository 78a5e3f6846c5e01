// Package main provides the entry point for the Mesh Retexturing Studio.
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"mesh-retex/internal/app"
	"mesh-retex/internal/scene"
	"mesh-retex/internal/slot"
	"mesh-retex/internal/texture"
	"mesh-retex/internal/version"
	"mesh-retex/ui/mainwindow"
	"mesh-retex/ui/prefs"
)

const appTitle = "Mesh Retexturing Studio"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.String())

	fyneApp := fyneapp.NewWithID("io.mesh-retex.studio")
	fyneApp.Settings().SetTheme(&app.StudioTheme{})

	appPrefs := prefs.Load()
	state := app.NewState(policyFromPrefs(appPrefs))

	win := mainwindow.New(fyneApp, state, appPrefs)

	// Texture paths on the command line build a demo model so the slot
	// registry has something to scan; a real host hands us its scene.
	if len(os.Args) > 1 {
		if model := demoModel(os.Args[1:]); model != nil {
			state.SetModel(model)
		}
	}

	setupHotReload(win)

	win.ShowAndRun()
	win.SavePreferences()
}

// policyFromPrefs builds the swappable-kind allow-list from preferences,
// falling back to albedo-only.
func policyFromPrefs(p *prefs.Prefs) slot.Policy {
	names := p.StringList(prefs.KeySwappableKinds)
	if len(names) == 0 {
		return slot.DefaultPolicy()
	}
	var kinds []slot.Kind
	for _, name := range names {
		if k, ok := slot.KindFromString(name); ok {
			kinds = append(kinds, k)
		} else {
			log.Printf("prefs: unknown swappable kind %q ignored", name)
		}
	}
	if len(kinds) == 0 {
		return slot.DefaultPolicy()
	}
	return slot.Policy{Swappable: kinds}
}

// demoModel builds a single-surface-per-texture model from image paths.
func demoModel(paths []string) *scene.Model {
	var surfaces []*scene.Surface
	for _, path := range paths {
		img, err := texture.Load(path)
		if err != nil {
			log.Printf("demo: skip %s: %v", path, err)
			continue
		}
		name := filepath.Base(path)
		mat := scene.NewMaterial(name)
		mat.SetTexture(slot.KindAlbedo, img)
		surfaces = append(surfaces, scene.NewSurface(name, mat))
	}
	if len(surfaces) == 0 {
		return nil
	}
	return scene.NewModel("demo", surfaces...)
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled during development.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.Baseline().Format("15:04:05"))

	reloader.OnTick(func() {
		win.SavePreferencesIfChanged()
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				win.SavePreferences()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})

	reloader.Start()
}
