// Command charstore is a thin CLI over the charstore HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/marvelcat/charstore/pkg/client"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	addr := os.Getenv("CHARSTORE_ADDR")
	if addr == "" {
		addr = "http://localhost:8080"
	}

	c := client.New(addr)
	if token := os.Getenv("CHARSTORE_TOKEN"); token != "" {
		c.SetToken(token)
	}

	ctx := context.Background()
	command := strings.ToLower(os.Args[1])
	args := os.Args[2:]

	switch command {
	case "signup":
		if len(args) < 2 {
			log.Fatal("Usage: charstore signup <email> <password>")
		}
		if err := c.SignUp(ctx, args[0], args[1]); err != nil {
			log.Fatal(err)
		}
		fmt.Println("OK")

	case "login":
		if len(args) < 2 {
			log.Fatal("Usage: charstore login <email> <password>")
		}
		token, err := c.LogIn(ctx, args[0], args[1])
		if err != nil {
			log.Fatal(err)
		}
		// Print the token so the caller can export CHARSTORE_TOKEN.
		fmt.Println(token)

	case "list":
		ids, names := filterArgs(args)
		records, err := c.List(ctx, ids, names)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(records)

	case "create":
		if len(args) < 1 {
			log.Fatal("Usage: charstore create <characterId> [name events series comics price]")
		}
		var err error
		var records any
		if len(args) == 1 {
			records, err = c.CreateEnriched(ctx, args[0])
		} else if len(args) == 6 {
			manual, parseErr := parseManual(args[1:])
			if parseErr != nil {
				log.Fatal(parseErr)
			}
			records, err = c.CreateManual(ctx, args[0], manual)
		} else {
			log.Fatal("create takes either an id alone or an id plus all five fields")
		}
		if err != nil {
			log.Fatal(err)
		}
		printJSON(records)

	case "delete":
		ids, names := filterArgs(args)
		records, err := c.Delete(ctx, ids, names)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(records)

	case "convert":
		if len(args) < 3 {
			log.Fatal("Usage: charstore convert <id|name:NAME> <from> <to>")
		}
		id, name := "", ""
		if rest, ok := strings.CutPrefix(args[0], "name:"); ok {
			name = rest
		} else {
			id = args[0]
		}
		records, err := c.ConvertPrice(ctx, id, name, args[1], args[2])
		if err != nil {
			log.Fatal(err)
		}
		printJSON(records)

	default:
		printUsage()
	}
}

// filterArgs splits positional args into id and name filters; a
// "name:" prefix marks a name.
func filterArgs(args []string) (ids, names []string) {
	for _, arg := range args {
		if rest, ok := strings.CutPrefix(arg, "name:"); ok {
			names = append(names, rest)
		} else {
			ids = append(ids, arg)
		}
	}
	return ids, names
}

func parseManual(args []string) (client.ManualCharacter, error) {
	m := client.ManualCharacter{Name: args[0]}
	var err error
	if m.Events, err = strconv.Atoi(args[1]); err != nil {
		return m, fmt.Errorf("events must be an integer: %q", args[1])
	}
	if m.Series, err = strconv.Atoi(args[2]); err != nil {
		return m, fmt.Errorf("series must be an integer: %q", args[2])
	}
	if m.Comics, err = strconv.Atoi(args[3]); err != nil {
		return m, fmt.Errorf("comics must be an integer: %q", args[3])
	}
	if m.MaxComicPrice, err = strconv.ParseFloat(args[4], 64); err != nil {
		return m, fmt.Errorf("price must be a number: %q", args[4])
	}
	return m, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

func printUsage() {
	fmt.Println(`charstore - character catalog client

Usage:
  charstore signup <email> <password>
  charstore login <email> <password>
  charstore list [id ... | name:NAME ...]
  charstore create <characterId> [name events series comics price]
  charstore delete <id ... | name:NAME ...>
  charstore convert <id|name:NAME> <from> <to>

Environment:
  CHARSTORE_ADDR   service base URL (default http://localhost:8080)
  CHARSTORE_TOKEN  bearer token from a previous login`)
}
