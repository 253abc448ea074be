package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
)

func (a *App) List(ctx context.Context) {
	characters := a.store.Characters()
	if len(characters) == 0 {
		printlnFn("No characters yet, try 'add'")
		return
	}
	for _, c := range characters {
		printlnFn(fmt.Sprintf("%s  %s (%d prompts, %d links)", c.ID, c.Name, len(c.Prompts), len(c.Links)))
	}
}

func (a *App) AddCharacter(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Character name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if name == "" {
		printlnFn("name must not be empty")
		return
	}

	bio, err := GetMultiline(a.reader, "Bio / notes", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	c := models.NewCharacter(name)
	c.Bio = bio
	a.store.AddCharacter(c)
	printlnFn("added " + c.ID)
}

func (a *App) Show(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Character id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	for _, c := range a.store.Characters() {
		if c.ID != id {
			continue
		}
		printlnFn(fmt.Sprintf("Name: %s", c.Name))
		if c.Bio != "" {
			printlnFn(fmt.Sprintf("Bio: %s", c.Bio))
		}
		if c.Generator != "" {
			printlnFn(fmt.Sprintf("Generator: %s", c.Generator))
		}
		for _, p := range c.Prompts {
			printlnFn(fmt.Sprintf("  prompt %s: %s", p.ID, p.Title))
		}
		for _, l := range c.Links {
			marker := "invalid"
			if l.Valid() {
				marker = l.Host()
			}
			printlnFn(fmt.Sprintf("  link %s: %s (%s)", l.Title, l.URLString, marker))
		}
		return
	}
	printlnFn("no character with id " + id)
}

func (a *App) Delete(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Character id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	for _, c := range a.store.Characters() {
		if c.ID == id {
			a.store.DeleteCharacter(c)
			printlnFn("deleted " + id)
			return
		}
	}
	printlnFn("no character with id " + id)
}
