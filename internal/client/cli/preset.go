package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
)

func (a *App) Presets(ctx context.Context) {
	presets := a.store.Presets()
	if len(presets) == 0 {
		printlnFn("No presets")
		return
	}
	for _, p := range presets {
		printlnFn(fmt.Sprintf("%s  [%s] %s: %s", p.ID, p.Kind, p.Name, p.Text))
	}
}

func (a *App) AddPreset(ctx context.Context) {
	kind, err := a.readSectionKind()
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	name, err := GetSimpleText(a.reader, "Preset name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	text, err := GetMultiline(a.reader, "Preset text", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	a.store.AddPreset(kind, name, text)
}

func (a *App) DeletePreset(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Preset id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	for _, p := range a.store.Presets() {
		if p.ID == id {
			a.store.DeletePreset(p)
			printlnFn("deleted " + id)
			return
		}
	}
	printlnFn("no preset with id " + id)
}

func (a *App) SetDefault(ctx context.Context) {
	kind, err := a.readSectionKind()
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	value, err := GetSimpleText(a.reader, "Default text (empty to clear)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	a.store.SetGlobalDefault(value, kind)
}

func (a *App) SetGenerator(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Default generator", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	a.store.SetDefaultGenerator(name)
}

func (a *App) readSectionKind() (models.SectionKind, error) {
	hint := "Section kind ("
	for i, k := range models.AllSectionKinds {
		if i > 0 {
			hint += ", "
		}
		hint += string(k)
	}
	hint += ")"

	for {
		raw, err := GetSimpleText(a.reader, hint, os.Stdout)
		if err != nil {
			return "", err
		}
		kind := models.SectionKind(raw)
		if kind.Valid() {
			return kind, nil
		}
		printlnFn("unknown section kind: " + raw)
	}
}
