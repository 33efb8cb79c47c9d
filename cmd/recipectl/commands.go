package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"recipe-finder/internal/client"
	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"

	flag "github.com/spf13/pflag"
)

func (a *app) search(ctx context.Context, args []string, ingredients bool) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 0, "results per page (max 100)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")

	var (
		res *domain.SearchResult
		err error
	)
	if ingredients {
		res, err = a.api.SearchIngredients(ctx, query, *page, *limit)
	} else {
		res, err = a.api.SearchFoods(ctx, query, *page, *limit)
	}
	if err != nil {
		return err
	}

	a.printSearch(res)
	return nil
}

func (a *app) printSearch(res *domain.SearchResult) {
	if res.Info != nil && res.Info.TranslationApplied {
		fmt.Fprintf(a.out, "searched %q (translated from %q)\n", res.Info.SearchedTerm, res.Info.OriginalTerm)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY")
	for _, item := range res.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.Source.ExternalID, item.Name, item.Category)
	}
	w.Flush()

	more := ""
	if res.HasMore {
		more = ", more available"
	}
	fmt.Fprintf(a.out, "%d of %d (page %d, %s%s)\n", len(res.Items), res.TotalCount, res.Page, res.Provider, more)
}

func (a *app) pantryCmd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("pantry: expected add, remove, list or clear")
	}

	var (
		owned []string
		err   error
	)
	switch args[0] {
	case "add":
		owned, err = a.pantry.Add(common.SplitCSV(strings.Join(args[1:], ","))...)
	case "remove":
		for _, name := range args[1:] {
			if owned, err = a.pantry.Remove(name); err != nil {
				break
			}
		}
		if len(args) == 1 {
			owned, err = a.pantry.Owned()
		}
	case "list":
		owned, err = a.pantry.Owned()
	case "clear":
		if err := a.pantry.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "pantry cleared")
		return nil
	default:
		return fmt.Errorf("pantry: unknown action %q", args[0])
	}
	if err != nil {
		return err
	}

	if len(owned) == 0 {
		fmt.Fprintln(a.out, "pantry is empty")
		return nil
	}
	for _, name := range owned {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

func (a *app) recipes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recipes", flag.ContinueOnError)
	limit := fs.Int("limit", 0, "number of recipes (default 12)")
	ranking := fs.String("ranking", "1", "1 = use most owned ingredients, 2 = fewest missing")
	with := fs.StringSlice("with", nil, "ingredients to use instead of the pantry")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, ok := domain.ParseRankingMode(*ranking)
	if !ok {
		return fmt.Errorf("ranking must be 1 or 2")
	}

	owned := *with
	if len(owned) == 0 {
		var err error
		if owned, err = a.pantry.Owned(); err != nil {
			return err
		}
	}
	if len(owned) == 0 {
		return fmt.Errorf("pantry is empty; add ingredients with 'pantry add' or pass --with")
	}

	res, err := a.api.FindRecipes(ctx, owned, *limit, mode)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCORE\tUSED\tMISSED\tTITLE")
	for _, r := range res.Recipes {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", r.ID, r.Score, r.UsedCount, r.MissedCount, r.Title)
	}
	return w.Flush()
}

func (a *app) recipe(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("recipe: expected a recipe id")
	}
	r, err := a.api.GetRecipe(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (serves %d, %d min)\n", r.Title, r.Servings, r.TotalTime)
	if r.Summary != "" {
		fmt.Fprintf(a.out, "\n%s\n", r.Summary)
	}
	fmt.Fprintln(a.out, "\nIngredients:")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(a.out, "  - %s\n", ing.OriginalPhrase)
	}
	fmt.Fprintln(a.out, "\nInstructions:")
	for i, step := range r.Instructions {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, step)
	}
	return nil
}

func (a *app) shop(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("shop: expected a recipe id")
	}
	owned, err := a.pantry.Owned()
	if err != nil {
		return err
	}

	res, err := a.api.ShoppingList(ctx, args[0], owned, common.GenerateUUID())
	if err != nil {
		return err
	}
	if err := a.pantry.SaveList(res.ShoppingList); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "you have %d of %d ingredients\n", len(res.Owned), len(res.Owned)+len(res.Missing))
	a.printList(res.ShoppingList)
	return nil
}

func (a *app) lists(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "toggle":
			if len(args) != 3 {
				return fmt.Errorf("lists toggle: expected <list-id> <item-number>")
			}
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("lists toggle: invalid item number %q", args[2])
			}
			list, err := a.pantry.ToggleItem(args[1], n-1)
			if err != nil {
				return err
			}
			a.printList(*list)
			return nil
		case "delete":
			if len(args) != 2 {
				return fmt.Errorf("lists delete: expected <list-id>")
			}
			if err := a.pantry.DeleteList(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted %s\n", args[1])
			return nil
		default:
			return fmt.Errorf("lists: unknown action %q", args[0])
		}
	}

	lists, err := a.pantry.Lists()
	if err != nil {
		return err
	}
	if len(lists) == 0 {
		fmt.Fprintln(a.out, "no shopping lists")
		return nil
	}
	for _, l := range lists {
		a.printList(l)
	}
	return nil
}

func (a *app) printList(l domain.ShoppingList) {
	title := l.RecipeTitle
	if title == "" {
		title = "recipe " + l.RecipeID
	}
	fmt.Fprintf(a.out, "[%s] %s (%s)\n", l.ID, title, l.CreatedAt.Local().Format("2006-01-02 15:04"))
	if len(l.Items) == 0 {
		fmt.Fprintln(a.out, "  nothing to buy")
	}
	for i, item := range l.Items {
		mark := " "
		if item.Checked {
			mark = "x"
		}
		qty := strconv.FormatFloat(item.Quantity, 'f', -1, 64)
		fmt.Fprintf(a.out, "  %d. [%s] %s %s %s\n", i+1, mark, qty, item.Unit, item.Name)
	}
}

func (a *app) translate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	from := fs.String("from", "fr", "source language")
	to := fs.String("to", "en", "target language")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.api.Translate(ctx, strings.Join(fs.Args(), " "), *from, *to)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s, confidence %.2f)\n", res.TranslatedText, res.Provenance, res.Confidence)
	if res.Error != "" {
		fmt.Fprintf(a.out, "note: %s\n", res.Error)
	}
	return nil
}

// live 每行輸入視為目前的搜尋框內容
func (a *app) live(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("live", flag.ContinueOnError)
	delay := fs.Duration("debounce", client.DefaultDebounce, "debounce window")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// done 關閉後，尚未送出的結果直接丟棄
	done := make(chan struct{})
	defer close(done)

	updates := make(chan client.Update, 16)
	ls := client.NewLiveSearch(ctx, func(ctx context.Context, q string) (*domain.SearchResult, error) {
		return a.api.SearchIngredients(ctx, q, 1, 0)
	}, *delay, func(u client.Update) {
		select {
		case updates <- u:
		case <-done:
		case <-ctx.Done():
		}
	})
	defer ls.Close()

	// 讀取輸入的 goroutine 負責呼叫 Input，主迴圈只負責輸出
	eof := make(chan string, 1)
	go func() {
		last := ""
		scanner := bufio.NewScanner(a.in)
		for scanner.Scan() {
			select {
			case <-done:
				return
			default:
			}
			last = strings.TrimSpace(scanner.Text())
			ls.Input(last)
		}
		eof <- last
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case last := <-eof:
			return a.drain(ctx, updates, last)
		case u := <-updates:
			a.printUpdate(u)
		}
	}
}

// drain 輸入結束後等待最後一次輸入的結果
func (a *app) drain(ctx context.Context, updates <-chan client.Update, last string) error {
	if utf8.RuneCountInString(last) < client.MinQueryLength {
		for {
			select {
			case u := <-updates:
				a.printUpdate(u)
			default:
				return nil
			}
		}
	}

	timer := time.NewTimer(30 * time.Second)
	defer timer.Stop()
	for {
		select {
		case u := <-updates:
			a.printUpdate(u)
			if u.Query == last {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timed out waiting for results")
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *app) printUpdate(u client.Update) {
	switch {
	case u.Cleared:
		fmt.Fprintf(a.out, "> %q (type at least %d characters)\n", u.Query, client.MinQueryLength)
	case u.Err != nil:
		fmt.Fprintf(a.out, "> %q error: %v\n", u.Query, u.Err)
	default:
		fmt.Fprintf(a.out, "> %q\n", u.Query)
		a.printSearch(u.Result)
	}
}
