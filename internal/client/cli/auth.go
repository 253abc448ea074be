package cli

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/charkeeper/internal/common"
)

func (a *App) Register(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, username, string(password)); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return
	}

	a.loggedIn = true
	log.Printf("Registered and logged in")
	go a.store.SyncWithCloud(ctx)
}

func (a *App) Login(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, username, string(password)); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return
	}

	a.loggedIn = true
	log.Printf("Login successful")
	go a.store.SyncWithCloud(ctx)
}
