package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	ListUsers(ctx context.Context) error
	ShowUser(ctx context.Context, userName string) error
	AddUser(ctx context.Context) error
	UpdateUser(ctx context.Context, userName string) error
	DeleteUser(ctx context.Context, userName string) error
	Login(ctx context.Context) error
	ListSessions(ctx context.Context) error
}

const helpText = `Available commands:
  users               list users
  user <username>     show one user
  add                 create a user
  update <username>   replace every field of a user
  delete <username>   delete a user
  login               log in and print the issued apikey
  sessions            list sessions
  exit | quit`

// runREPL reads commands line by line from reader and dispatches them until
// EOF, exit/quit or ctx is done. Handlers print their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("userctl %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "users", "ls":
			_ = a.ListUsers(ctx)

		case "user", "get":
			if len(args) != 1 {
				printlnFn("Usage: user <username>")
				continue
			}
			_ = a.ShowUser(ctx, args[0])

		case "add":
			_ = a.AddUser(ctx)

		case "update":
			if len(args) != 1 {
				printlnFn("Usage: update <username>")
				continue
			}
			_ = a.UpdateUser(ctx, args[0])

		case "delete", "rm":
			if len(args) != 1 {
				printlnFn("Usage: delete <username>")
				continue
			}
			_ = a.DeleteUser(ctx, args[0])

		case "login":
			_ = a.Login(ctx)

		case "sessions":
			_ = a.ListSessions(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
