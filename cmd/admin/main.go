// Package main is the operator console of the task board. It works on the
// record store directly and covers what the API never allows: removing a
// category, together with every task filed under it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/atinyakov/taskboard/internal/db"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/repository"
)

var (
	version   string
	buildDate string
)

var errUsage = errors.New("usage: admin [-d dsn] categories | delete-category <id>")

// categoryStore is the part of the record store the console works on.
type categoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// run executes one console command against store and reports to out.
func run(ctx context.Context, args []string, store categoryStore, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "help":
		fmt.Fprintln(out, "Available commands: categories, delete-category <id>")
	case "categories":
		categories, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		for _, c := range categories {
			fmt.Fprintf(out, "%d\t%s\n", c.ID, c.Item)
		}
	case "delete-category":
		if len(args) < 2 {
			return errUsage
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[1])
		}
		if err := store.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("category %d not found", id)
			}
			return fmt.Errorf("delete category: %w", err)
		}
		fmt.Fprintf(out, "Category %d deleted with its tasks\n", id)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
	return nil
}

func main() {
	var (
		dsn     string
		showVer bool
	)
	flag.StringVar(&dsn, "d", os.Getenv("DATABASE_DSN"), "database DSN")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Task board admin\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}
	if dsn == "" {
		log.Fatal("please provide -d=<dsn> or DATABASE_DSN")
	}

	postgresDB, err := db.InitPostgres(dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer postgresDB.Close()

	store := repository.NewPostgresCategoryRepository(postgresDB)
	if err := run(context.Background(), flag.Args(), store, os.Stdout); err != nil {
		postgresDB.Close()
		log.Fatal(err)
	}
}
