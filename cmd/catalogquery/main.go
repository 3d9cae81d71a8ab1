// Debug program to run a query against the catalog and print the hits.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/chiptide/internal/catalog"
	"github.com/llehouerou/chiptide/internal/config"
)

func main() {
	limit := flag.Int("n", 20, "rows to print")
	full := flag.Bool("full", false, "print full tab-separated records")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	if cfg.IsListing() {
		log.Fatal("catalog_path is a listing, not a database", zap.String("path", cfg.GetCatalogPath()))
	}

	store, err := catalog.Open(cfg.GetCatalogPath())
	if err != nil {
		log.Fatal("open catalog", zap.Error(err))
	}
	defer store.Close()

	query := strings.Join(flag.Args(), " ")
	start := time.Now()
	results, err := store.Search(query)
	if err != nil {
		log.Fatal("search", zap.String("query", query), zap.Error(err))
	}
	log.Info("search done",
		zap.String("query", query),
		zap.Int("hits", results.Len()),
		zap.Duration("took", time.Since(start)),
	)

	rows, err := results.Rows(0, *limit)
	if err != nil {
		log.Fatal("rows", zap.Error(err))
	}
	for i, row := range rows {
		if !*full {
			fmt.Printf("%4d  %s\n", i, row)
			continue
		}
		line, err := results.Full(i)
		if err != nil {
			log.Warn("full record", zap.Int("index", i), zap.Error(err))
			continue
		}
		fmt.Printf("%4d  %s\n", i, line)
	}
}
