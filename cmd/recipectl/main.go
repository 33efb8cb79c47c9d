// recipectl 是 recipe-finder API 的命令列前端。
//
// Usage:
//
//	recipectl [--api URL] [--store PATH] <command> [args]
//
// Commands: search, ingredients, pantry, recipes, recipe, shop, lists, translate, live.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"recipe-finder/internal/client"
	"recipe-finder/internal/pkg/common"
	"recipe-finder/internal/storage"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `Usage: recipectl [global flags] <command> [args]

Commands:
  search <query>                 search Open Food Facts products
  ingredients <query>            search ingredients (query is translated to English)
  pantry add|remove <names...>   manage owned ingredients
  pantry list|clear
  recipes                        find recipes using the owned ingredients
  recipe <id>                    show a recipe
  shop <id>                      build and save a shopping list for a recipe
  lists [toggle <id> <n> | delete <id>]
  translate <text>               translate text (default fr -> en)
  live                           search ingredients while typing (one line per keystroke)

Global flags:
`

type app struct {
	api    *client.Client
	pantry *storage.Pantry
	out    io.Writer
	in     io.Reader
}

func main() {
	_ = godotenv.Load()

	global := flag.NewFlagSet("recipectl", flag.ContinueOnError)
	global.SetInterspersed(false)
	apiURL := global.String("api", envOr("RECIPE_API_URL", client.DefaultBaseURL), "base URL of the recipe-finder API")
	storePath := global.String("store", envOr("RECIPE_STORE", filepath.Join(".recipe-finder", "pantry.json")), "pantry file (.json, or .db for SQLite)")
	timeout := global.Duration("timeout", 15*time.Second, "request timeout")
	verbose := global.BoolP("verbose", "v", false, "enable debug logging")
	global.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		global.PrintDefaults()
	}
	if err := global.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := common.InitLogger(common.LoggerOptions{Level: level, Service: "recipectl"}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logger init failed: %v\n", err)
	}
	defer common.Sync()

	store, closeStore, err := openStore(*storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		api:    client.New(*apiURL, *timeout),
		pantry: storage.NewPantry(store),
		out:    os.Stdout,
		in:     os.Stdin,
	}

	if err := a.run(ctx, global.Arg(0), global.Args()[1:]); err != nil {
		common.LogDebug("command failed", zap.String("command", global.Arg(0)), zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openStore(path string) (storage.KVStore, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create store dir: %w", err)
		}
		db, err := storage.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return storage.NewFileStore(path), func() {}, nil
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "search":
		return a.search(ctx, args, false)
	case "ingredients":
		return a.search(ctx, args, true)
	case "pantry":
		return a.pantryCmd(args)
	case "recipes":
		return a.recipes(ctx, args)
	case "recipe":
		return a.recipe(ctx, args)
	case "shop":
		return a.shop(ctx, args)
	case "lists":
		return a.lists(args)
	case "translate":
		return a.translate(ctx, args)
	case "live":
		return a.live(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
