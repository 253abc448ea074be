package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context)
	Login(ctx context.Context)
	List(ctx context.Context)
	AddCharacter(ctx context.Context)
	Show(ctx context.Context)
	Delete(ctx context.Context)
	AttachImage(ctx context.Context)
	Presets(ctx context.Context)
	AddPreset(ctx context.Context)
	DeletePreset(ctx context.Context)
	SetDefault(ctx context.Context)
	SetGenerator(ctx context.Context)
	Sync(ctx context.Context)
	ForceSync(ctx context.Context)
}

// runREPL starts a simple read–eval–print loop for the CharKeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Local commands work without an account; register/login only gate the cloud
// side. Handlers log their own errors, keeping the loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ck> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Local: (l)ist, add, show, del, attach, presets, addpreset, delpreset, setdefault, generator")
			if a.isLoggedIn() {
				printlnFn("Cloud: sync, forcesync, exit")
			} else {
				printlnFn("Cloud: register, login, exit")
			}
		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "list", "l":
			a.List(ctx)
		case "add":
			a.AddCharacter(ctx)
		case "show":
			a.Show(ctx)
		case "del":
			a.Delete(ctx)
		case "attach":
			a.AttachImage(ctx)
		case "presets":
			a.Presets(ctx)
		case "addpreset":
			a.AddPreset(ctx)
		case "delpreset":
			a.DeletePreset(ctx)
		case "setdefault":
			a.SetDefault(ctx)
		case "generator":
			a.SetGenerator(ctx)
		case "sync":
			a.Sync(ctx)
		case "forcesync":
			a.ForceSync(ctx)
		case "exit", "quit":
			return
		default:
			printlnFn(fmt.Sprintf("unknown command: %s (try 'help')", cmd))
		}
	}
}
