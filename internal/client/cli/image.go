package cli

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
)

// AttachImage reads an image file and attaches it to a character: to one of
// its saved prompts when a prompt id is given, otherwise as the profile
// image. When logged in, the bytes are also uploaded to the asset bucket via
// a presigned URL; an upload failure leaves the local attachment in place.
func (a *App) AttachImage(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Character id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	var c models.Character
	found := false
	for _, cand := range a.store.Characters() {
		if cand.ID == id {
			c = cand
			found = true
			break
		}
	}
	if !found {
		printlnFn("no character with id " + id)
		return
	}

	path, err := GetSimpleText(a.reader, "Image file path", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("error reading %s: %v", path, err)
		return
	}

	promptID, err := GetSimpleText(a.reader, "Prompt id (empty for profile image)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if promptID == "" {
		c.ProfileImage = data
	} else {
		attached := false
		for i := range c.Prompts {
			if c.Prompts[i].ID == promptID {
				c.Prompts[i].Images = append(c.Prompts[i].Images, models.NewPromptImage(data))
				attached = true
				break
			}
		}
		if !attached {
			printlnFn("no prompt with id " + promptID)
			return
		}
	}

	a.store.UpdateCharacter(c)
	printlnFn("image attached")

	if !a.loggedIn {
		return
	}

	key, url, err := a.client.PresignImagePut(ctx)
	if err != nil {
		log.Printf("upload skipped: %v", err)
		return
	}

	if err := a.client.UploadImage(url, data); err != nil {
		log.Printf("upload failed: %v", err)
		return
	}

	printlnFn("uploaded as " + key)
}
