// Command graph does a one-shot build: scan a vault, build the
// relationship graph, print it as JSON. Useful for scripting and for
// inspecting what the server would serve.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/inkforge/castline/internal/store"
	"github.com/inkforge/castline/internal/util"
	"github.com/inkforge/castline/internal/vault"
	"github.com/inkforge/castline/pkg/graph"
	"github.com/inkforge/castline/pkg/inverse"
	"github.com/inkforge/castline/pkg/logger"
	"github.com/inkforge/castline/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	vaultDir := flag.String("vault", util.GetEnv("VAULT_DIR"), "path to the character vault")
	dbPath := flag.String("db", util.GetEnvString("DATABASE_PATH", ""), "inverse dictionary database (optional)")
	family := flag.String("family", util.GetEnv("FAMILY_SYNONYMS"), "extra family role synonyms, comma-separated")
	flag.Parse()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
	})
	logger.Init(consoleLogger)

	if *vaultDir == "" {
		logger.Fatal("A vault directory is required (-vault or VAULT_DIR)")
	}

	ctx := context.Background()

	dict := inverse.New()
	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			logger.Fatal("Failed to open database", "err", err)
		}
		defer db.Close()
		if dict, err = db.LoadDictionary(ctx); err != nil {
			logger.Fatal("Failed to load inverse dictionary", "err", err)
		}
	}

	records, err := vault.New(*vaultDir, util.GetEnvInt("VAULT_PARALLEL_PARSE", 4)).Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load vault", "err", err)
	}

	var synonyms []string
	for _, s := range strings.Split(*family, ",") {
		if s = strings.TrimSpace(s); s != "" {
			synonyms = append(synonyms, s)
		}
	}

	builder := graph.NewBuilder(graph.NewBuilderParams{FamilySynonyms: synonyms})
	g, err := builder.BuildGraph(records, dict)
	if err != nil {
		logger.Fatal("Failed to build graph", "err", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		logger.Fatal("Failed to encode graph", "err", err)
	}
}
